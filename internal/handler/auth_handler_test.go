package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"imchat/internal/configs"
	"imchat/internal/pkg/resp"
)

func newAuthTestDeps() *AppDeps {
	return &AppDeps{
		Config: &configs.AppConfig{
			Environment: "development",
			JWTSecret:   "auth-handler-test-secret",
		},
	}
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	h(w, r)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) resp.JSONResponse {
	t.Helper()

	var envelope resp.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestHandleSignupRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   int
	}{
		{
			name:       "malformed email",
			body:       `{"email":"not-an-email","password":"long-enough-password"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   2001,
		},
		{
			name:       "email with spaces",
			body:       `{"email":"a b@example.com","password":"long-enough-password"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   2001,
		},
		{
			name:       "password too short",
			body:       `{"email":"a@example.com","password":"short"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   2002,
		},
		{
			name:       "password too long",
			body:       `{"email":"a@example.com","password":"` + strings.Repeat("x", 73) + `"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   2002,
		},
		{
			name:       "unknown field",
			body:       `{"email":"a@example.com","password":"long-enough-password","admin":true}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   1003,
		},
		{
			name:       "trailing content",
			body:       `{"email":"a@example.com","password":"long-enough-password"}{"extra":1}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   1004,
		},
	}

	deps := newAuthTestDeps()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)

			w := postJSON(t, HandleSignup(deps), tt.body)

			req.Equal(tt.wantStatus, w.Code)
			req.Equal(tt.wantCode, decodeEnvelope(t, w).Code)
		})
	}
}

func TestHandleSignupRejectsNonJSONContentType(t *testing.T) {
	req := require.New(t)

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("email=a@example.com"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	HandleSignup(newAuthTestDeps())(w, r)

	req.Equal(http.StatusUnsupportedMediaType, w.Code)
	req.Equal(1002, decodeEnvelope(t, w).Code)
}

func TestHandleLoginRejectsInvalidEmail(t *testing.T) {
	req := require.New(t)

	w := postJSON(t, HandleLogin(newAuthTestDeps()), `{"email":"nope","password":"whatever-password"}`)

	req.Equal(http.StatusBadRequest, w.Code)
	req.Equal(2001, decodeEnvelope(t, w).Code)
}

func TestHandleLogoutClearsSessionCookie(t *testing.T) {
	req := require.New(t)

	w := postJSON(t, HandleLogout(newAuthTestDeps()), `{}`)

	req.Equal(http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	req.Len(cookies, 1)
	req.Equal("jwt", cookies[0].Name)
	req.Empty(cookies[0].Value)
	req.Negative(cookies[0].MaxAge)
	req.True(cookies[0].HttpOnly)
}

func TestHandleGetUserInfoRequiresIdentity(t *testing.T) {
	req := require.New(t)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	HandleGetUserInfo(newAuthTestDeps())(w, r)

	req.Equal(http.StatusUnauthorized, w.Code)
	req.Equal(3001, decodeEnvelope(t, w).Code)
}
