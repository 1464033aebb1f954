/*
Package relay contains the core logic of the direct-messaging relay.

This file defines the Client struct, representing one authenticated
websocket connection. It manages the connection's lifecycle, the message
communication loops (ReadPump and WritePump), and hands inbound send
requests to the Dispatcher.
*/
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"imchat/internal/pkg/logx"
	"imchat/internal/pkg/randx"
)

const (
	// timeout duration for writing to the websocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of an inbound frame.
	maxMessageSize = 8192

	// capacity of the per-connection outbound queue.
	sendQueueSize = 256
)

// Client is an active, authenticated websocket connection bound to one user.
type Client struct {
	// hub tracks this connection for presence and delivery.
	hub *Hub

	// dispatcher handles this connection's send requests.
	dispatcher *Dispatcher

	// underlying websocket connection object.
	conn *websocket.Conn

	// connID is the opaque identifier of this connection.
	connID string

	// userID is the authenticated identity, fixed for the connection lifetime.
	userID string

	// send is the buffered channel of framed outbound events.
	send chan []byte

	// done closes when the connection is being torn down.
	done chan struct{}

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded, authenticated connection.
func NewClient(hub *Hub, dispatcher *Dispatcher, wsConn *websocket.Conn, userID string) *Client {
	connID := randx.ConnectionID()

	clientLogger := logx.Logger().With().
		Str("user_id", userID).
		Str("conn_id", connID).
		Logger()

	return &Client{
		hub:        hub,
		dispatcher: dispatcher,
		conn:       wsConn,
		connID:     connID,
		userID:     userID,
		send:       make(chan []byte, sendQueueSize),
		done:       make(chan struct{}),
		logger:     clientLogger,
	}
}

// ConnID implements Conn.
func (c *Client) ConnID() string {
	return c.connID
}

// UserID implements Conn.
func (c *Client) UserID() string {
	return c.userID
}

// ReadPump reads events from the websocket connection until it closes.
// Send requests are processed inline, one at a time, so a connection's
// messages are dispatched in the order received; other connections run in
// their own pumps and are unaffected by a slow store call here.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}

		c.processInboundEvent(messageBytes)
	}
}

// cleanupOnDisconnect is the sole cleanup path for this connection. It runs
// exactly once, when ReadPump returns for any reason.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.hub.Unregister(c)

	close(c.done)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// processInboundEvent parses one framed event and routes it by name.
func (c *Client) processInboundEvent(messageBytes []byte) {
	var envelope Envelope

	if err := json.Unmarshal(messageBytes, &envelope); err != nil {
		c.logger.Warn().Err(err).
			Bytes("message_bytes", messageBytes).
			Msg("Client sent invalid JSON")
		return
	}

	switch envelope.Event {
	case EventSendMessage:
		c.handleSendMessage(envelope.Data)

	default:
		c.logger.Warn().Str("event", envelope.Event).Msg("Client sent unsupported event")
	}
}

// handleSendMessage decodes a send request and dispatches it.
func (c *Client) handleSendMessage(payloadBytes json.RawMessage) {
	var payload SendMessagePayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid sendMessage payload")
		c.SendErrorEvent(ErrMissingFields)
		return
	}

	c.dispatcher.Dispatch(context.Background(), c, payload)
}

// WritePump writes queued events to the websocket connection and keeps the
// heartbeat alive. It exits when the connection tears down.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message := <-c.send:
			if !c.writeQueuedMessage(message) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}

		case <-c.done:
			return
		}
	}
}

// writeQueuedMessage writes one frame. Returns false when WritePump should stop.
func (c *Client) writeQueuedMessage(message []byte) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends the periodic heartbeat Ping. Returns false when
// WritePump should stop.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

// SendEvent frames and queues an event for this connection. Implements Conn.
func (c *Client) SendEvent(event string, data any) error {
	messageBytes, err := EncodeEvent(event, data)
	if err != nil {
		c.logger.Error().Err(err).Str("event", event).Msg("Error marshaling event for client")
		return err
	}

	select {
	case <-c.done:
		return fmt.Errorf("connection closed")
	case c.send <- messageBytes:
		return nil
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send channel full, dropping event")
		return fmt.Errorf("client send queue full")
	}
}

// SendErrorEvent queues an EventError with the given message.
func (c *Client) SendErrorEvent(message string) {
	if err := c.SendEvent(EventError, ErrorPayload{Message: message}); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to queue error event")
	}
}

// Close terminates the underlying connection. The read pump unblocks and
// runs the normal disconnect cleanup. Implements Conn.
func (c *Client) Close() {
	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Close on already-closed connection")
	}
}
