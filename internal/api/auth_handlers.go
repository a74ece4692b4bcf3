package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"allinone-backend/internal/auth"
	"allinone-backend/internal/database"
	"allinone-backend/internal/models"
)

// LoginRequest accepts the aliased identifier and name fields the web
// clients of both platforms send. Identifier aliases may arrive as JSON
// strings or numbers.
type LoginRequest struct {
	UserID      interface{} `json:"userId,omitempty"`
	UserIDSnake interface{} `json:"user_id,omitempty"`
	ID          interface{} `json:"id,omitempty"`

	Username    string `json:"username,omitempty"`
	Nickname    string `json:"nickname,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Name        string `json:"name,omitempty"`

	Platform      string `json:"platform,omitempty"`
	Password      string `json:"password,omitempty"`
	ExistingToken string `json:"existingToken,omitempty"`
}

type LoginResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
	AutoLogin bool      `json:"autoLogin,omitempty"`
}

const defaultUsername = "Gracz"

func coerceString(v interface{}) string {
	switch value := v.(type) {
	case string:
		return strings.TrimSpace(value)
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", value), "0"), ".")
	case json.Number:
		return value.String()
	default:
		return ""
	}
}

func (req *LoginRequest) identifier() string {
	for _, candidate := range []interface{}{req.UserID, req.UserIDSnake, req.ID} {
		if id := coerceString(candidate); id != "" {
			return id
		}
	}
	return ""
}

func (req *LoginRequest) displayName() string {
	for _, candidate := range []string{req.Username, req.Nickname, req.DisplayName, req.Name} {
		if name := strings.TrimSpace(candidate); name != "" {
			return name
		}
	}
	return defaultUsername
}

// @Summary      Logs a user in
// @Description  Issues an opaque 7-day session token for a cross-platform identifier, or for username/password on direct accounts. A still-valid existing token for the same user is returned unchanged as an auto-login.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        loginRequest  body      LoginRequest  true  "Login fields"
// @Success      200           {object}  LoginResponse
// @Failure      400           {object}  ErrorResponse
// @Failure      401           {object}  ErrorResponse
// @Failure      500           {object}  ErrorResponse
// @Router       /auth/login [post]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Nieprawidłowe ciało żądania")
		return
	}

	identifier := req.identifier()

	// Direct accounts log in with username + password instead of a
	// cross-platform identifier.
	if identifier == "" && req.Username != "" && req.Password != "" {
		s.directLogin(w, r, &req)
		return
	}

	if identifier == "" {
		writeError(w, http.StatusBadRequest, "Brak identyfikatora użytkownika")
		return
	}

	platform := req.Platform
	switch platform {
	case models.PlatformAllinone, models.PlatformNewDay, models.PlatformDirect:
	default:
		platform = models.PlatformAllinone
	}

	user, err := s.store.UpsertUser(r.Context(), database.UpsertUserParams{
		ExternalID: identifier,
		Username:   req.displayName(),
		Platform:   platform,
	})
	if err != nil {
		log.Printf("Błąd zapisu użytkownika %q: %v", identifier, err)
		writeError(w, http.StatusInternalServerError, "Nie można zapisać konta użytkownika")
		return
	}

	// An existing, still valid token for the same user short-circuits
	// into an auto-login; no fresh token is issued.
	if req.ExistingToken != "" {
		if session := s.tokens.Verify(req.ExistingToken); session != nil && session.UserID == user.ID {
			s.syncManager.Start(user.ID)
			writeJSON(w, http.StatusOK, LoginResponse{
				Success:   true,
				Token:     session.Token,
				UserID:    session.UserID,
				Username:  session.Username,
				ExpiresAt: session.ExpiresAt,
				AutoLogin: true,
			})
			return
		}
	}

	s.issueAndRespond(w, user)
}

func (s *Server) directLogin(w http.ResponseWriter, r *http.Request, req *LoginRequest) {
	user, err := s.store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		log.Printf("Błąd odczytu użytkownika %q: %v", req.Username, err)
		writeError(w, http.StatusInternalServerError, "Błąd serwera")
		return
	}
	if user == nil || user.PasswordHash == nil || !auth.CheckPasswordHash(req.Password, *user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "Nieprawidłowa nazwa użytkownika lub hasło")
		return
	}

	s.issueAndRespond(w, user)
}

func (s *Server) issueAndRespond(w http.ResponseWriter, user *models.User) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		log.Printf("Błąd generowania tokenu dla użytkownika %d: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "Nie można wygenerować tokenu")
		return
	}

	s.syncManager.Start(user.ID)

	writeJSON(w, http.StatusOK, LoginResponse{
		Success:   true,
		Token:     token.Token,
		UserID:    token.UserID,
		Username:  token.Username,
		ExpiresAt: token.ExpiresAt,
	})
}

type VerifyTokenRequest struct {
	Token string `json:"token"`
}

type VerifyTokenResponse struct {
	Success   bool      `json:"success"`
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	Platform  string    `json:"platform"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// @Summary      Verify a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        verifyRequest  body      VerifyTokenRequest  true  "Token"
// @Success      200            {object}  VerifyTokenResponse
// @Failure      400            {object}  ErrorResponse
// @Failure      401            {object}  ErrorResponse
// @Router       /auth/verify [post]
func (s *Server) VerifyTokenHandler(w http.ResponseWriter, r *http.Request) {
	var req VerifyTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Nieprawidłowe ciało żądania")
		return
	}

	session, err := s.tokens.VerifyExplicit(req.Token)
	if err != nil {
		switch {
		case err == auth.ErrMissingToken:
			writeError(w, http.StatusBadRequest, "Token jest wymagany")
		case err == auth.ErrTokenNotFound:
			writeError(w, http.StatusUnauthorized, "Token nie istnieje")
		case err == auth.ErrTokenExpired:
			writeError(w, http.StatusUnauthorized, "Token wygasł")
		default:
			writeError(w, http.StatusInternalServerError, "Błąd weryfikacji tokenu")
		}
		return
	}

	writeJSON(w, http.StatusOK, VerifyTokenResponse{
		Success:   true,
		UserID:    session.UserID,
		Username:  session.Username,
		Platform:  session.Platform,
		ExpiresAt: session.ExpiresAt,
	})
}

// @Summary      Log out
// @Description  Deletes the session token server-side and stops the user's auto-sync. Clients drop their copy of the token regardless.
// @Tags         auth
// @Security     BearerAuth
// @Success      204  {null}  nil "No Content"
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/logout [post]
func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	s.syncManager.Stop(session.UserID)
	s.tokens.Delete(session.Token)

	w.WriteHeader(http.StatusNoContent)
}
