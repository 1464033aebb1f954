package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"imchat/internal/app/message"
	"imchat/internal/app/relay"
	"imchat/internal/app/user"
	"imchat/internal/configs"
	"imchat/internal/pkg/auth/jwt"
	"imchat/internal/pkg/limiter"
)

const wsTestSecret = "ws-handler-test-secret"

// memoryStore persists nothing; it fabricates the canonical record the way
// the real store would and counts calls.
type memoryStore struct {
	calls atomic.Int64
}

func (s *memoryStore) CreateMessage(_ context.Context, params message.CreateParams) (message.Message, error) {
	n := s.calls.Add(1)

	return message.Message{
		ID:          fmt.Sprintf("msg-%d", n),
		Sender:      user.Profile{ID: params.SenderID},
		Recipient:   user.Profile{ID: params.RecipientID},
		MessageType: params.MessageType,
		Content:     params.Content,
		FileURL:     params.FileURL,
		Timestamp:   time.Now().UTC(),
	}, nil
}

// newWsTestServer starts an httptest server exposing only the websocket
// endpoint, backed by a fresh hub and an in-memory store.
func newWsTestServer(t *testing.T) (*httptest.Server, *relay.Hub) {
	t.Helper()

	hub := relay.NewHub()
	dispatcher := relay.NewDispatcher(hub, &memoryStore{})

	deps := &AppDeps{
		Hub:        hub,
		Dispatcher: dispatcher,
		Config: &configs.AppConfig{
			Environment: "development",
			JWTSecret:   wsTestSecret,
		},
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	// Generous limits so the tests never trip the rate limiter.
	wsLimiter := limiter.NewIPRateLimiter(rate.Limit(1000), 1000)

	server := httptest.NewServer(HandleWebSocket(upgrader, wsLimiter, deps))
	t.Cleanup(server.Close)
	t.Cleanup(hub.Shutdown)

	return server, hub
}

func dialWs(t *testing.T, server *httptest.Server, cookie string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	header := http.Header{}
	if cookie != "" {
		header.Set("Cookie", cookie)
	}

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

func sessionCookie(t *testing.T, userID string) string {
	t.Helper()

	token, err := jwt.GenerateToken(userID, wsTestSecret, time.Hour)
	require.NoError(t, err)

	return jwt.SessionCookieName + "=" + token
}

func readEnvelope(t *testing.T, conn *websocket.Conn) relay.Envelope {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var envelope relay.Envelope
	require.NoError(t, json.Unmarshal(raw, &envelope))
	return envelope
}

func sendEnvelope(t *testing.T, conn *websocket.Conn, event string, payload any) {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	frame, err := json.Marshal(relay.Envelope{Event: event, Data: data})
	require.NoError(t, err)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, frame))
}

func TestWebSocketTerminatesWithoutSessionToken(t *testing.T) {
	req := require.New(t)

	server, hub := newWsTestServer(t)
	conn := dialWs(t, server, "")

	// The handshake succeeds, then the server closes without sending anything.
	req.NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, _, err := conn.ReadMessage()
	req.Error(err)

	req.Equal(0, hub.Presence().OnlineCount())
}

func TestWebSocketTerminatesOnInvalidToken(t *testing.T) {
	req := require.New(t)

	server, hub := newWsTestServer(t)

	forged, err := jwt.GenerateToken("user-a", "wrong-secret", time.Hour)
	req.NoError(err)

	conn := dialWs(t, server, jwt.SessionCookieName+"="+forged)

	req.NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, _, readErr := conn.ReadMessage()
	req.Error(readErr)

	req.Equal(0, hub.Presence().OnlineCount())
}

func TestWebSocketRegistersAuthenticatedUser(t *testing.T) {
	req := require.New(t)

	server, hub := newWsTestServer(t)
	dialWs(t, server, sessionCookie(t, "user-a"))

	req.Eventually(func() bool {
		_, ok := hub.Presence().Lookup("user-a")
		return ok
	}, 2*time.Second, 10*time.Millisecond, "authenticated connection should appear in presence")
}

func TestWebSocketDisconnectClearsPresence(t *testing.T) {
	req := require.New(t)

	server, hub := newWsTestServer(t)
	conn := dialWs(t, server, sessionCookie(t, "user-a"))

	req.Eventually(func() bool {
		_, ok := hub.Presence().Lookup("user-a")
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	conn.Close()

	req.Eventually(func() bool {
		_, ok := hub.Presence().Lookup("user-a")
		return !ok
	}, 2*time.Second, 10*time.Millisecond, "disconnect should remove the presence entry")
}

func TestWebSocketMessageRoundTrip(t *testing.T) {
	req := require.New(t)

	server, hub := newWsTestServer(t)

	sender := dialWs(t, server, sessionCookie(t, "user-a"))
	recipient := dialWs(t, server, sessionCookie(t, "user-b"))

	req.Eventually(func() bool {
		return hub.Presence().OnlineCount() == 2
	}, 2*time.Second, 10*time.Millisecond)

	sendEnvelope(t, sender, relay.EventSendMessage, relay.SendMessagePayload{
		Sender:      "user-a",
		Recipient:   "user-b",
		Content:     "hi",
		MessageType: message.TypeText,
	})

	// Recipient gets the message, sender gets the identical confirmation.
	for _, conn := range []*websocket.Conn{recipient, sender} {
		envelope := readEnvelope(t, conn)
		req.Equal(relay.EventReceiveMessage, envelope.Event)

		var delivered message.Message
		req.NoError(json.Unmarshal(envelope.Data, &delivered))
		req.Equal("user-a", delivered.Sender.ID)
		req.Equal("user-b", delivered.Recipient.ID)
		req.Equal("hi", delivered.Content)
		req.Equal(message.TypeText, delivered.MessageType)
		req.NotEmpty(delivered.ID)
	}
}

func TestWebSocketRejectsForgedSender(t *testing.T) {
	req := require.New(t)

	server, hub := newWsTestServer(t)
	conn := dialWs(t, server, sessionCookie(t, "user-a"))

	req.Eventually(func() bool {
		_, ok := hub.Presence().Lookup("user-a")
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	sendEnvelope(t, conn, relay.EventSendMessage, relay.SendMessagePayload{
		Sender:      "user-someone-else",
		Recipient:   "user-b",
		Content:     "hi",
		MessageType: message.TypeText,
	})

	envelope := readEnvelope(t, conn)
	req.Equal(relay.EventError, envelope.Event)

	var payload relay.ErrorPayload
	req.NoError(json.Unmarshal(envelope.Data, &payload))
	req.Equal("Unauthorized", payload.Message)
}

func TestWebSocketReportsMissingFields(t *testing.T) {
	req := require.New(t)

	server, hub := newWsTestServer(t)
	conn := dialWs(t, server, sessionCookie(t, "user-a"))

	req.Eventually(func() bool {
		_, ok := hub.Presence().Lookup("user-a")
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	sendEnvelope(t, conn, relay.EventSendMessage, relay.SendMessagePayload{
		Sender:    "user-a",
		Recipient: "user-b",
		// no content for a text message
	})

	envelope := readEnvelope(t, conn)
	req.Equal(relay.EventError, envelope.Event)

	var payload relay.ErrorPayload
	req.NoError(json.Unmarshal(envelope.Data, &payload))
	req.Equal("Missing required fields", payload.Message)
}

func TestWebSocketReconnectReplacesPresence(t *testing.T) {
	req := require.New(t)

	server, hub := newWsTestServer(t)

	dialWs(t, server, sessionCookie(t, "user-a"))

	req.Eventually(func() bool {
		_, ok := hub.Presence().Lookup("user-a")
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	first, _ := hub.Presence().Lookup("user-a")

	dialWs(t, server, sessionCookie(t, "user-a"))

	req.Eventually(func() bool {
		current, ok := hub.Presence().Lookup("user-a")
		return ok && current != first
	}, 2*time.Second, 10*time.Millisecond, "newer connection should own the presence entry")
}
