package api

import (
	"log"
	"net/http"
	"strconv"

	"allinone-backend/internal/models"
)

// @Summary      Start auto-sync for the caller's session
// @Tags         sync
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]bool
// @Failure      401  {object}  ErrorResponse
// @Router       /sync/start [post]
func (s *Server) StartSyncHandler(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	s.syncManager.Start(session.UserID)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// @Summary      Stop auto-sync for the caller's session
// @Description  Idempotent: stopping an already stopped session is a no-op.
// @Tags         sync
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]bool
// @Failure      401  {object}  ErrorResponse
// @Router       /sync/stop [post]
func (s *Server) StopSyncHandler(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	s.syncManager.Stop(session.UserID)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type SyncStatusResponse struct {
	Success       bool    `json:"success"`
	State         string  `json:"state"`
	PassInFlight  bool    `json:"pass_in_flight"`
	WalletBalance float64 `json:"wallet_balance"`
}

// @Summary      Current sync state for the caller
// @Tags         sync
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  SyncStatusResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /sync/status [get]
func (s *Server) SyncStatusHandler(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	state, busy, balance := s.syncManager.Status(session.UserID)
	writeJSON(w, http.StatusOK, SyncStatusResponse{
		Success:       true,
		State:         state,
		PassInFlight:  busy,
		WalletBalance: balance,
	})
}

type SyncLogsResponse struct {
	Success bool                  `json:"success"`
	Logs    []models.SyncLogEntry `json:"logs"`
}

// @Summary      Recent sync passes for the caller
// @Tags         sync
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "Page size (default 50)"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {object}  SyncLogsResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /sync/logs [get]
func (s *Server) SyncLogsHandler(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	logs, err := s.store.ListSyncLogs(r.Context(), session.UserID, limit, offset)
	if err != nil {
		log.Printf("Błąd odczytu dziennika synchronizacji użytkownika %d: %v", session.UserID, err)
		writeError(w, http.StatusInternalServerError, "Nie można odczytać dziennika synchronizacji")
		return
	}

	writeJSON(w, http.StatusOK, SyncLogsResponse{Success: true, Logs: logs})
}
