package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/vaughan-dsouza/IdGo/internal/config"
	"github.com/vaughan-dsouza/IdGo/internal/db"
	"github.com/vaughan-dsouza/IdGo/internal/handlers"
	"github.com/vaughan-dsouza/IdGo/internal/middleware"
	"github.com/vaughan-dsouza/IdGo/internal/models"
	"github.com/vaughan-dsouza/IdGo/internal/password"
	"github.com/vaughan-dsouza/IdGo/internal/store"
	"github.com/vaughan-dsouza/IdGo/internal/token"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	dbConn, err := db.Connect(cfg)
	if err != nil {
		log.Error("db connect", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	if err := db.Migrate(context.Background(), dbConn.DB); err != nil {
		log.Error("db migrate", "error", err)
		os.Exit(1)
	}

	tokens := token.NewManager([]byte(cfg.JWTSecret), cfg.TokenTTL)
	hasher := password.NewHasher(cfg.BcryptCost)
	h := handlers.NewHandler(store.NewPostgres(dbConn), hasher, tokens, log)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS)

	// Public
	r.Post("/register", h.Auth.Register)
	r.Post("/login", h.Auth.Login)

	// Protected
	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.Authenticate(tokens))

		// Any authenticated user may update a record.
		r.Put("/{id}", h.Users.Update)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Get("/", h.Users.List)
			r.Post("/", h.Users.Create)
			r.Get("/metrics", h.Users.Metrics)
			r.Get("/{id}", h.Users.Get)
			r.Delete("/{id}", h.Users.Delete)
		})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server exited")
}
