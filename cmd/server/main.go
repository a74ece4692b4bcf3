// @title           AllinONE Platform API
// @version         1.0
// @host            localhost
// @schemes         http https
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"allinone-backend/internal/api"
	"allinone-backend/internal/auth"
	"allinone-backend/internal/config"
	"allinone-backend/internal/database"
	"allinone-backend/internal/newday"
	syncsvc "allinone-backend/internal/sync"
	"allinone-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "allinone-backend/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Nie można wczytać konfiguracji: %v", err)
	}

	var store database.Datastore
	if cfg.DB.Source != "" {
		dbpool, err := pgxpool.New(context.Background(), cfg.DB.Source)
		if err != nil {
			log.Fatalf("Nie można połączyć się z bazą danych: %v", err)
		}
		defer dbpool.Close()

		if err := dbpool.Ping(context.Background()); err != nil {
			log.Fatalf("Nie można pingować bazy danych: %v", err)
		}
		log.Println("Pomyślnie połączono z bazą danych")
		store = database.NewStore(dbpool)
	} else {
		log.Println("Brak konfiguracji bazy danych, używam magazynu w pamięci (tryb deweloperski)")
		store = database.NewMemoryStore()
	}

	tokens := auth.NewTokenStore(cfg.Auth.TokenTTL)
	go func() {
		for range time.Tick(time.Hour) {
			if removed := tokens.Cleanup(); removed > 0 {
				log.Printf("Usunięto %d wygasłych tokenów", removed)
			}
		}
	}()

	var partner newday.Client
	if cfg.NewDay.BaseURL != "" {
		partner = newday.NewHTTPClient(cfg.NewDay.BaseURL, cfg.NewDay.PartnerSecret, cfg.NewDay.Timeout)
		log.Printf("Synchronizacja z platformą New Day: %s", cfg.NewDay.BaseURL)
	} else {
		partner = newday.NewMockClient()
		log.Println("Brak adresu platformy New Day, używam klienta testowego")
	}

	wsHub := websocket.NewHub()
	go wsHub.Run()

	syncManager := syncsvc.NewManager(store, partner, wsHub, cfg.Sync.Interval)
	defer syncManager.StopAll()

	server := api.NewServer(cfg, store, tokens, syncManager, wsHub)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(api.MetricsMiddleware)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("https://localhost/swagger/doc.json"),
	))

	r.Get("/ws", server.ServeWsHandler)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Serwer platformy AllinONE działa! Dokumentacja dostępna pod /swagger/index.html"))
	})

	r.Get("/health", server.HealthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(server.CORSMiddleware)
		r.Use(server.SoftAuthMiddleware)

		r.Post("/auth/login", server.LoginHandler)
		r.Post("/auth/verify", server.VerifyTokenHandler)

		r.Get("/earnings", server.EarningsHandler)
		r.Post("/earnings/level", server.AddExperienceHandler)

		r.Group(func(r chi.Router) {
			r.Use(server.RequireAuth)

			r.Post("/auth/logout", server.LogoutHandler)
			r.Get("/me", server.GetCurrentUserHandler)

			r.Get("/inventory", server.ListInventoryHandler)
			r.Post("/inventory", server.GrantItemHandler)
			r.Get("/inventory/summary", server.InventorySummaryHandler)
			r.Delete("/inventory/{itemId}", server.RemoveItemHandler)
			r.Patch("/inventory/{itemId}/sync", server.UpdateSyncStatusHandler)

			r.Post("/sync/start", server.StartSyncHandler)
			r.Post("/sync/stop", server.StopSyncHandler)
			r.Get("/sync/status", server.SyncStatusHandler)
			r.Get("/sync/logs", server.SyncLogsHandler)
		})
	})

	log.Printf("Uruchamianie serwera na porcie :%s", cfg.Server.Port)
	if err := http.ListenAndServe(":"+cfg.Server.Port, r); err != nil {
		log.Fatalf("Nie można uruchomić serwera: %v", err)
	}
}
