package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"allinone-backend/internal/auth"
	"allinone-backend/internal/database"
	"allinone-backend/internal/models"

	"github.com/stretchr/testify/require"
)

func TestLoginAcceptsAliasedIdentifierFields(t *testing.T) {
	server, _, _ := newTestServer(t)

	// The same external id may arrive under any alias, as a string or a
	// number. All three spellings must resolve to one canonical user.
	bodies := []map[string]interface{}{
		{"user_id": 123, "nickname": "Zenek"},
		{"userId": "123"},
		{"id": 123.0},
	}

	var firstUserID int64
	for i, body := range bodies {
		rec := httptest.NewRecorder()
		server.LoginHandler(rec, jsonRequest(t, http.MethodPost, "/api/v1/auth/login", body))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp LoginResponse
		decodeBody(t, rec, &resp)
		require.True(t, resp.Success)
		require.NotEmpty(t, resp.Token)

		if i == 0 {
			firstUserID = resp.UserID
			require.Equal(t, "Zenek", resp.Username)
		} else {
			require.Equal(t, firstUserID, resp.UserID)
			// First-seen wins, the later nameless logins keep Zenek.
			require.Equal(t, "Zenek", resp.Username)
		}
	}
}

func TestLoginWithoutNameUsesDefault(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.LoginHandler(rec, jsonRequest(t, http.MethodPost, "/api/v1/auth/login",
		map[string]interface{}{"id": "anon-7"}))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	decodeBody(t, rec, &resp)
	require.Equal(t, "Gracz", resp.Username)
}

func TestLoginWithoutIdentifierFails(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.LoginHandler(rec, jsonRequest(t, http.MethodPost, "/api/v1/auth/login",
		map[string]interface{}{"platform": models.PlatformNewDay}))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	require.False(t, resp.Success)
	require.Equal(t, "Brak identyfikatora użytkownika", resp.Message)
}

func TestLoginAutoLoginReusesValidToken(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.LoginHandler(rec, jsonRequest(t, http.MethodPost, "/api/v1/auth/login",
		map[string]interface{}{"userId": "auto-1", "username": "Ola"}))
	require.Equal(t, http.StatusOK, rec.Code)

	var first LoginResponse
	decodeBody(t, rec, &first)

	rec = httptest.NewRecorder()
	server.LoginHandler(rec, jsonRequest(t, http.MethodPost, "/api/v1/auth/login",
		map[string]interface{}{"userId": "auto-1", "existingToken": first.Token}))
	require.Equal(t, http.StatusOK, rec.Code)

	var second LoginResponse
	decodeBody(t, rec, &second)
	require.True(t, second.AutoLogin)
	require.Equal(t, first.Token, second.Token)
}

func TestLoginAutoLoginRejectsForeignToken(t *testing.T) {
	server, store, tokens := newTestServer(t)

	other := loginTestUser(t, store, tokens)

	rec := httptest.NewRecorder()
	server.LoginHandler(rec, jsonRequest(t, http.MethodPost, "/api/v1/auth/login",
		map[string]interface{}{"userId": "ktos-inny", "existingToken": other.Token}))
	require.Equal(t, http.StatusOK, rec.Code)

	// Token bound to another user: a fresh one is issued instead.
	var resp LoginResponse
	decodeBody(t, rec, &resp)
	require.False(t, resp.AutoLogin)
	require.NotEqual(t, other.Token, resp.Token)
}

func TestDirectLogin(t *testing.T) {
	server, store, _ := newTestServer(t)

	hash, err := auth.HashPassword("sekretne-haslo")
	require.NoError(t, err)
	_, err = store.UpsertUser(context.Background(), database.UpsertUserParams{
		ExternalID:   "direct:kasia",
		Username:     "Kasia",
		Platform:     models.PlatformDirect,
		PasswordHash: &hash,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	server.LoginHandler(rec, jsonRequest(t, http.MethodPost, "/api/v1/auth/login",
		map[string]interface{}{"username": "Kasia", "password": "zle-haslo"}))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	server.LoginHandler(rec, jsonRequest(t, http.MethodPost, "/api/v1/auth/login",
		map[string]interface{}{"username": "Kasia", "password": "sekretne-haslo"}))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	decodeBody(t, rec, &resp)
	require.True(t, resp.Success)
	require.Equal(t, "Kasia", resp.Username)
}

func TestVerifyTokenStatusCodes(t *testing.T) {
	server, store, tokens := newTestServer(t)

	rec := httptest.NewRecorder()
	server.VerifyTokenHandler(rec, jsonRequest(t, http.MethodPost, "/api/v1/auth/verify",
		map[string]interface{}{"token": ""}))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	server.VerifyTokenHandler(rec, jsonRequest(t, http.MethodPost, "/api/v1/auth/verify",
		map[string]interface{}{"token": "nie-istnieje"}))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	require.Equal(t, "Token nie istnieje", resp.Message)

	session := loginTestUser(t, store, tokens)
	session.ExpiresAt = time.Now().Add(-time.Minute)

	rec = httptest.NewRecorder()
	server.VerifyTokenHandler(rec, jsonRequest(t, http.MethodPost, "/api/v1/auth/verify",
		map[string]interface{}{"token": session.Token}))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	decodeBody(t, rec, &resp)
	require.Equal(t, "Token wygasł", resp.Message)
}

func TestVerifyTokenSuccess(t *testing.T) {
	server, store, tokens := newTestServer(t)
	session := loginTestUser(t, store, tokens)

	rec := httptest.NewRecorder()
	server.VerifyTokenHandler(rec, jsonRequest(t, http.MethodPost, "/api/v1/auth/verify",
		map[string]interface{}{"token": session.Token}))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp VerifyTokenResponse
	decodeBody(t, rec, &resp)
	require.True(t, resp.Success)
	require.Equal(t, session.UserID, resp.UserID)
	require.Equal(t, session.Username, resp.Username)
}

func TestLogoutDeletesToken(t *testing.T) {
	server, store, tokens := newTestServer(t)
	session := loginTestUser(t, store, tokens)

	rec := httptest.NewRecorder()
	req := withSession(jsonRequest(t, http.MethodPost, "/api/v1/auth/logout", nil), session)
	server.LogoutHandler(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	require.Nil(t, tokens.Verify(session.Token))
}
