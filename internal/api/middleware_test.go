package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSoftAuthAttachesSession(t *testing.T) {
	server, store, tokens := newTestServer(t)
	session := loginTestUser(t, store, tokens)

	var seen bool
	handler := server.SoftAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := GetSessionFromContext(r.Context())
		require.NotNil(t, got)
		require.Equal(t, session.UserID, got.UserID)
		seen = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, seen)
}

func TestSoftAuthIgnoresBadTokens(t *testing.T) {
	server, _, _ := newTestServer(t)

	handler := server.SoftAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Nil(t, GetSessionFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	}))

	for _, header := range []string{"", "Bearer nieznany-token", "Basic abc", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	server, _, _ := newTestServer(t)

	handler := server.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler powinien być nieosiągalny bez sesji")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	require.False(t, resp.Success)
	require.Equal(t, "Wymagany jest ważny token", resp.Message)
}

func TestCORSReflectsAllowListedOrigin(t *testing.T) {
	server, _, _ := newTestServer(t)

	handler := server.CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Origin", "https://app.allinone.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, "https://app.allinone.example", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	require.Contains(t, rec.Header().Values("Vary"), "Origin")
}

func TestCORSUnknownOriginGetsWildcard(t *testing.T) {
	server, _, _ := newTestServer(t)

	handler := server.CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Origin", "https://obca-strona.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	// Wildcard must never be paired with credentials.
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	server, _, _ := newTestServer(t)

	handler := server.CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight nie powinien trafić do handlera")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/inventory", nil)
	req.Header.Set("Origin", "https://app.allinone.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}
