package jwt

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRequireAuth(t *testing.T) {
	token, err := GenerateToken("user-123", testSecret, time.Hour)
	require.NoError(t, err)

	expired, err := GenerateToken("user-123", testSecret, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name       string
		cookie     string
		wantStatus int
		wantUserID string
	}{
		{
			name:       "valid session",
			cookie:     SessionCookieName + "=" + token,
			wantStatus: http.StatusOK,
			wantUserID: "user-123",
		},
		{
			name:       "no cookie",
			cookie:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			cookie:     SessionCookieName + "=" + expired,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			cookie:     SessionCookieName + "=garbage",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)

			var gotUserID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				payload := GetPayloadFromContext(r)
				req.NotNil(payload)
				gotUserID = payload.UserID
			})

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				r.Header.Set("Cookie", tt.cookie)
			}

			w := httptest.NewRecorder()
			RequireAuth(testSecret)(next).ServeHTTP(w, r)

			req.Equal(tt.wantStatus, w.Code)
			req.Equal(tt.wantUserID, gotUserID)
		})
	}
}

func TestGetPayloadFromContextWithoutMiddleware(t *testing.T) {
	req := require.New(t)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Nil(GetPayloadFromContext(r))
}
