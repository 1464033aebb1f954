/*
Package handler provides the HTTP handlers and routing for the IM Chat Server.

This file defines the main Router, applying logging, CORS, and rate limiting
middleware before delegating requests to the API and websocket handlers.
*/
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"imchat/internal/pkg/auth/jwt"
	"imchat/internal/pkg/limiter"
	"imchat/internal/pkg/logx"
	"imchat/internal/pkg/resp"
)

const (
	// AuthRate limits auth endpoints to roughly 20 requests per 15 minutes
	// per IP to slow brute-force attempts.
	AuthRate  = 0.022
	AuthBurst = 5

	// WsRate limits websocket connection attempts per IP.
	WsRate  = 0.2
	WsBurst = 5
)

// Router builds the HTTP routing table for the application.
func Router(deps *AppDeps) http.Handler {
	authLimiter := limiter.NewIPRateLimiter(rate.Limit(AuthRate), AuthBurst)
	wsLimiter := limiter.NewIPRateLimiter(rate.Limit(WsRate), WsBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":    "ok",
			"service":   "IM Chat Server",
			"timestamp": time.Now().Format(time.RFC3339),
		}
		resp.RespondSuccess(w, r, data)
	})

	requireAuth := jwt.RequireAuth(deps.Config.JWTSecret)

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(auth chi.Router) {
			auth.Use(authLimiter.Middleware)

			auth.Post("/signup", HandleSignup(deps))
			auth.Post("/login", HandleLogin(deps))
			auth.Post("/logout", HandleLogout(deps))

			auth.Group(func(private chi.Router) {
				private.Use(requireAuth)
				private.Get("/userinfo", HandleGetUserInfo(deps))
				private.Post("/update-profile", HandleUpdateProfile(deps))
			})
		})

		api.Route("/contacts", func(contacts chi.Router) {
			contacts.Use(requireAuth)

			contacts.Post("/search", HandleSearchContacts(deps))
			contacts.Get("/all-contacts", HandleGetAllContacts(deps))
			contacts.Get("/get-contacts-for-list", HandleGetContactsForList(deps))
			contacts.Delete("/delete-dm/{dmId}", HandleDeleteDirectMessages(deps))
		})

		api.Route("/messages", func(messages chi.Router) {
			messages.Use(requireAuth)

			messages.Post("/get-messages", HandleGetMessages(deps))
			messages.Post("/upload-file", HandleUploadFile(deps))
			messages.Get("/download-file", HandleDownloadFile(deps))
		})
	})

	r.Get("/ws", HandleWebSocket(wsUpgrader, wsLimiter, deps))

	return r
}
