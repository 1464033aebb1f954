/*
Package handler provides the HTTP handlers and routing for the IM Chat Server.

This file contains the websocket connection handler: rate limiting, the
upgrade, and the one-shot authentication gate. The session token travels in
the handshake's Cookie header; a connection without a verifiable token is
closed without any payload, so unauthenticated peers learn nothing.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"imchat/internal/app/relay"
	"imchat/internal/pkg/auth/jwt"
	"imchat/internal/pkg/errs"
	"imchat/internal/pkg/limiter"
	"imchat/internal/pkg/logx"
	"imchat/internal/pkg/resp"
)

// HandleWebSocket creates the HandlerFunc for relay connection requests.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		// The token is read from the upgrade request, so the connection is
		// upgraded first and closed silently when authentication fails.
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		token, ok := jwt.TokenFromCookieHeader(r.Header.Get("Cookie"))
		if !ok {
			logx.Warn("WebSocket connection terminated: no session token in handshake.")
			conn.Close()
			return
		}

		payload, err := jwt.ParseToken(token, deps.Config.JWTSecret)
		if err != nil {
			logx.Warn("WebSocket connection terminated: session token verification failed.", "error", err)
			conn.Close()
			return
		}

		client := relay.NewClient(deps.Hub, deps.Dispatcher, conn, payload.UserID)

		go client.WritePump()

		deps.Hub.Register(client)

		logx.Info("WebSocket connection established and client registered",
			"user_id", payload.UserID, "conn_id", client.ConnID())

		client.ReadPump()
	}
}
