package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"allinone-backend/internal/database"
	"allinone-backend/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/jaevor/go-nanoid"
)

type InventoryPage struct {
	Success bool                   `json:"success"`
	Items   []models.InventoryItem `json:"items"`
	Total   int                    `json:"total"`
	Page    int                    `json:"page"`
	Limit   int                    `json:"limit"`
}

// @Summary      List the caller's inventory
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        game_source  query  string  false  "Filter by originating game"
// @Param        category     query  string  false  "Filter by category"
// @Param        rarity       query  string  false  "Filter by rarity"
// @Param        page         query  int     false  "Page number (1-based)"
// @Param        limit        query  int     false  "Page size (default 50)"
// @Success      200  {object}  InventoryPage
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /inventory [get]
func (s *Server) ListInventoryHandler(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	filters := database.ItemFilters{
		GameSource: r.URL.Query().Get("game_source"),
		Category:   r.URL.Query().Get("category"),
		Rarity:     r.URL.Query().Get("rarity"),
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 50
	}

	items, total, err := s.store.ListItems(r.Context(), session.UserID, filters, page, limit)
	if err != nil {
		log.Printf("Błąd odczytu ekwipunku użytkownika %d: %v", session.UserID, err)
		writeError(w, http.StatusInternalServerError, "Nie można odczytać ekwipunku")
		return
	}

	writeJSON(w, http.StatusOK, InventoryPage{
		Success: true,
		Items:   items,
		Total:   total,
		Page:    page,
		Limit:   limit,
	})
}

type GrantItemRequest struct {
	ItemID      string           `json:"item_id"`
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	Category    string           `json:"category"`
	Rarity      string           `json:"rarity"`
	Stats       models.ItemStats `json:"stats"`
	Quantity    int              `json:"quantity"`
	GameSource  string           `json:"game_source"`
}

// @Summary      Grant an item to the caller
// @Description  Records a purchase or grant. An empty item_id gets a generated one.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        grantRequest  body      GrantItemRequest  true  "Item"
// @Success      201  {object}  models.InventoryItem
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /inventory [post]
func (s *Server) GrantItemHandler(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	var req GrantItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Nieprawidłowe ciało żądania")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Nazwa przedmiotu nie może być pusta")
		return
	}

	if req.ItemID == "" {
		generateID, err := nanoid.Standard(21)
		if err != nil {
			log.Printf("Błąd inicjalizacji generatora nanoid: %v", err)
			writeError(w, http.StatusInternalServerError, "Błąd serwera")
			return
		}
		req.ItemID = fmt.Sprintf("item-%s", generateID())
	}

	if req.GameSource == "" {
		req.GameSource = models.PlatformAllinone
	}
	if req.Rarity == "" {
		req.Rarity = models.RarityCommon
	}
	if req.Category == "" {
		req.Category = "misc"
	}

	item, err := s.store.AddItem(r.Context(), session.UserID, models.InventoryItem{
		ItemID:      req.ItemID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Rarity:      req.Rarity,
		Stats:       req.Stats,
		Quantity:    req.Quantity,
		GameSource:  req.GameSource,
		SyncStatus:  models.SyncStatusNotSynced,
	})
	if err != nil {
		log.Printf("Błąd dodawania przedmiotu dla użytkownika %d: %v", session.UserID, err)
		writeError(w, http.StatusInternalServerError, "Nie można dodać przedmiotu")
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// @Summary      Consume an item
// @Description  Decrements the item quantity, removing the row entirely when it runs out.
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        itemId       path   string  true   "Item id"
// @Param        quantity     query  int     false  "How many to consume (default 1)"
// @Param        game_source  query  string  false  "Restrict to one game source"
// @Success      200  {object}  map[string]bool
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /inventory/{itemId} [delete]
func (s *Server) RemoveItemHandler(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	itemID := chi.URLParam(r, "itemId")

	quantity, _ := strconv.Atoi(r.URL.Query().Get("quantity"))
	if quantity < 1 {
		quantity = 1
	}

	found, err := s.store.RemoveItem(r.Context(), session.UserID, itemID, r.URL.Query().Get("game_source"), quantity)
	if err != nil {
		log.Printf("Błąd usuwania przedmiotu %q użytkownika %d: %v", itemID, session.UserID, err)
		writeError(w, http.StatusInternalServerError, "Nie można usunąć przedmiotu")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Przedmiot nie istnieje")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type UpdateSyncStatusRequest struct {
	SyncStatus string `json:"sync_status"`
}

// @Summary      Transition an item's sync status
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        itemId         path  string                   true  "Item id"
// @Param        statusRequest  body  UpdateSyncStatusRequest  true  "New status"
// @Success      200  {object}  map[string]bool
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /inventory/{itemId}/sync [patch]
func (s *Server) UpdateSyncStatusHandler(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	itemID := chi.URLParam(r, "itemId")

	var req UpdateSyncStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Nieprawidłowe ciało żądania")
		return
	}

	switch req.SyncStatus {
	case models.SyncStatusNotSynced, models.SyncStatusSynced, models.SyncStatusError:
	default:
		writeError(w, http.StatusBadRequest, "Nieznany status synchronizacji")
		return
	}

	found, err := s.store.UpdateSyncStatus(r.Context(), itemID, session.UserID, req.SyncStatus)
	if err != nil {
		log.Printf("Błąd zmiany statusu przedmiotu %q użytkownika %d: %v", itemID, session.UserID, err)
		writeError(w, http.StatusInternalServerError, "Nie można zmienić statusu")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Przedmiot nie istnieje")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type InventorySummaryResponse struct {
	Success   bool                      `json:"success"`
	Summaries []models.InventorySummary `json:"summaries"`
}

// @Summary      Per-game inventory summary
// @Description  Item count, summed quantity and rarity-tier counts per game source, recomputed from the item rows on every call.
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  InventorySummaryResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /inventory/summary [get]
func (s *Server) InventorySummaryHandler(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	summaries, err := s.store.GetInventorySummary(r.Context(), session.UserID)
	if err != nil {
		log.Printf("Błąd agregacji ekwipunku użytkownika %d: %v", session.UserID, err)
		writeError(w, http.StatusInternalServerError, "Nie można zbudować podsumowania")
		return
	}

	writeJSON(w, http.StatusOK, InventorySummaryResponse{Success: true, Summaries: summaries})
}
