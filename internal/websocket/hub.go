package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"allinone-backend/internal/models"

	"github.com/gorilla/websocket"
)

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans sync-pass results out to every websocket client a user has
// open, so the dashboard can show sync progress without polling.
type Hub struct {
	clients    map[int64]map[*Client]bool
	mu         sync.RWMutex
	Register   chan *Client
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)
		case client := <-h.Unregister:
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.UserID]; !ok {
		h.clients[client.UserID] = make(map[*Client]bool)
	}
	h.clients[client.UserID][client] = true
	log.Printf("Klient WS użytkownika %d zarejestrowany", client.UserID)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if userClients, ok := h.clients[client.UserID]; ok {
		if _, ok := userClients[client]; ok {
			delete(userClients, client)
			close(client.send)
			if len(userClients) == 0 {
				delete(h.clients, client.UserID)
			}
			log.Printf("Klient WS użytkownika %d wyrejestrowany", client.UserID)
		}
	}
}

type syncEvent struct {
	Type string              `json:"type"`
	Data models.SyncLogEntry `json:"data"`
}

// PublishSyncResult pushes one finished sync pass to the user's clients.
// Clients with a full send buffer are skipped, not blocked on.
func (h *Hub) PublishSyncResult(userID int64, entry models.SyncLogEntry) {
	payload, err := json.Marshal(syncEvent{Type: "sync_pass", Data: entry})
	if err != nil {
		log.Printf("WARN: nie można zserializować zdarzenia sync dla użytkownika %d: %v", userID, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if userClients, ok := h.clients[userID]; ok {
		for client := range userClients {
			select {
			case client.send <- payload:
			default:
				log.Printf("WARN: bufor klienta WS użytkownika %d pełny, pomijam wiadomość", userID)
			}
		}
	}
}
