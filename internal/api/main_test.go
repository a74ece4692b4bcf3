package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"allinone-backend/internal/auth"
	"allinone-backend/internal/config"
	"allinone-backend/internal/database"
	"allinone-backend/internal/models"
	"allinone-backend/internal/newday"
	"allinone-backend/internal/sync"
	"allinone-backend/internal/websocket"

	"github.com/stretchr/testify/require"
)

// newTestServer builds a full Server on the in-memory store and the mock
// New Day client. The sync interval is an hour so background ticks never
// interleave with assertions.
func newTestServer(t *testing.T) (*Server, *database.MemoryStore, *auth.TokenStore) {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			AllowedOrigins: []string{"https://app.allinone.example"},
		},
		Auth: config.AuthConfig{TokenTTL: 7 * 24 * time.Hour},
		Economy: config.EconomyConfig{
			DailyRewardPool:   10000,
			TotalNetworkPower: 1000000,
		},
	}

	store := database.NewMemoryStore()
	tokens := auth.NewTokenStore(cfg.Auth.TokenTTL)
	hub := websocket.NewHub()
	go hub.Run()

	manager := sync.NewManager(store, newday.NewMockClient(), hub, time.Hour)
	t.Cleanup(manager.StopAll)

	return NewServer(cfg, store, tokens, manager, hub), store, tokens
}

func loginTestUser(t *testing.T, store *database.MemoryStore, tokens *auth.TokenStore) *models.AuthToken {
	t.Helper()

	user, err := store.UpsertUser(context.Background(), database.UpsertUserParams{
		ExternalID: "test:" + t.Name(),
		Username:   "Tester",
		Platform:   models.PlatformAllinone,
	})
	require.NoError(t, err)

	token, err := tokens.Issue(user)
	require.NoError(t, err)
	return token
}

func withSession(r *http.Request, session *models.AuthToken) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), sessionContextKey, session))
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(dest))
}
