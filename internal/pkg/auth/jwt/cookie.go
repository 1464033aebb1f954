package jwt

import (
	"net/http"
	"strings"
)

// SessionCookieName is the cookie the session token travels in, for both the
// HTTP API and the websocket handshake.
const SessionCookieName = "jwt"

// TokenFromCookieHeader scans a raw Cookie header value, a semicolon-separated
// list of name=value pairs, for the session token. The raw header is parsed
// directly because the websocket handshake hands us header metadata, not a
// parsed request cookie jar.
func TokenFromCookieHeader(header string) (string, bool) {
	for _, pair := range strings.Split(header, ";") {
		pair = strings.TrimSpace(pair)

		name, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}

		if name == SessionCookieName && value != "" {
			return value, true
		}
	}

	return "", false
}

// SetSessionCookie attaches the session token to the response. The cookie is
// HttpOnly and SameSite=None so the browser client on another origin can send
// it with credentialed requests.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionExpiration.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
