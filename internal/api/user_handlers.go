package api

import (
	"log"
	"net/http"
)

// @Summary      Get the currently authenticated user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.User
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /me [get]
func (s *Server) GetCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	user, err := s.store.GetUserByID(r.Context(), session.UserID)
	if err != nil {
		log.Printf("Błąd odczytu użytkownika %d: %v", session.UserID, err)
		writeError(w, http.StatusInternalServerError, "Błąd serwera")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "Użytkownik nie istnieje")
		return
	}

	writeJSON(w, http.StatusOK, user)
}
