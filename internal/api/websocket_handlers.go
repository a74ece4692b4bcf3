package api

import (
	"log"
	"net/http"

	"allinone-backend/internal/websocket"
)

// ServeWsHandler upgrades the connection and registers the client for
// sync-event push. Browsers cannot set an Authorization header on a
// websocket, so the token travels as a query parameter.
func (s *Server) ServeWsHandler(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		log.Println("Próba połączenia WS bez tokenu")
		writeError(w, http.StatusUnauthorized, "Token jest wymagany")
		return
	}

	session := s.tokens.Verify(tokenString)
	if session == nil {
		log.Println("Próba połączenia WS z nieprawidłowym tokenem")
		writeError(w, http.StatusUnauthorized, "Nieprawidłowy lub wygasły token")
		return
	}

	conn, err := websocket.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Błąd upgrade'u WebSocket:", err)
		return
	}

	client := websocket.NewClient(s.wsHub, conn, session.UserID)
	s.wsHub.Register <- client

	go client.ReadPump()
	go client.WritePump()
}
