package api

import (
	"encoding/json"
	"net/http"

	"allinone-backend/internal/auth"
	"allinone-backend/internal/config"
	"allinone-backend/internal/database"
	"allinone-backend/internal/sync"
	"allinone-backend/internal/websocket"
)

type Server struct {
	config      *config.Config
	store       database.Datastore
	tokens      *auth.TokenStore
	syncManager *sync.Manager
	wsHub       *websocket.Hub
}

func NewServer(cfg *config.Config, store database.Datastore, tokens *auth.TokenStore, syncManager *sync.Manager, wsHub *websocket.Hub) *Server {
	return &Server{
		config:      cfg,
		store:       store,
		tokens:      tokens,
		syncManager: syncManager,
		wsHub:       wsHub,
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (s *Server) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
