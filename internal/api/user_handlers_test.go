package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"allinone-backend/internal/models"

	"github.com/stretchr/testify/require"
)

func TestGetCurrentUserHandler(t *testing.T) {
	server, store, tokens := newTestServer(t)
	session := loginTestUser(t, store, tokens)

	rec := httptest.NewRecorder()
	req := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/me", nil), session)
	server.GetCurrentUserHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var user models.User
	decodeBody(t, rec, &user)
	require.Equal(t, session.UserID, user.ID)
	require.Equal(t, session.Username, user.Username)
	require.Nil(t, user.PasswordHash)
}

func TestGetCurrentUserMissingRecord(t *testing.T) {
	server, _, _ := newTestServer(t)

	// Session survives in the token store but the user record is gone.
	ghost := &models.AuthToken{Token: "x", UserID: 9999, Username: "Widmo"}

	rec := httptest.NewRecorder()
	req := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/me", nil), ghost)
	server.GetCurrentUserHandler(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
