package jwt

import (
	"context"
	"net/http"

	"imchat/internal/pkg/errs"
	"imchat/internal/pkg/logx"
	"imchat/internal/pkg/resp"
)

// Context key for the authenticated Payload, namespaced to this package.
type contextKey string

const (
	// ContextAuthPayloadKey stores the parsed session Payload in the request Context.
	ContextAuthPayloadKey contextKey = "auth_payload"
)

// RequireAuth validates the session cookie on every request and injects the
// Payload into the context. Requests without a valid session are rejected
// with 401; unlike the relay's silent gate, the HTTP surface tells callers
// to sign in.
func RequireAuth(secretKey string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := TokenFromCookieHeader(r.Header.Get("Cookie"))
			if !ok {
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			payload, err := ParseToken(token, secretKey)
			if err != nil {
				logx.Warn("Rejected request with invalid session token", "error", err)
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			ctx := context.WithValue(r.Context(), ContextAuthPayloadKey, payload)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPayloadFromContext extracts the authenticated Payload from the request
// Context. Behind RequireAuth it is never nil.
func GetPayloadFromContext(r *http.Request) *Payload {
	payload, ok := r.Context().Value(ContextAuthPayloadKey).(*Payload)

	if !ok {
		return nil
	}

	return payload
}
