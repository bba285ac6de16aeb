package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/kokua/kokua-go/internal/config"
	"github.com/kokua/kokua-go/internal/handler"
	"github.com/kokua/kokua-go/internal/intent"
	"github.com/kokua/kokua-go/internal/middleware"
	"github.com/kokua/kokua-go/internal/oracle"
	"github.com/kokua/kokua-go/internal/repository"
	"github.com/kokua/kokua-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	profiles, err := oracle.LoadProfiles(cfg.ProfilesPath)
	if err != nil {
		slog.Error("loading oracle profiles failed", "path", cfg.ProfilesPath, "error", err)
		os.Exit(1)
	}

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	journalService := service.NewJournalService(eventRepo)
	oracleClient := oracle.NewClient(cfg.OracleBaseURL, cfg.OracleAPIKey, cfg.OracleTimeout)
	assistantService := service.NewAssistantService(oracleClient, profiles, intent.NewDefaultClassifier(), journalService)

	authHandler := handler.NewAuthHandler(authService)
	assistantHandler := handler.NewAssistantHandler(assistantService, authService)

	// Development mode relaxes protected routes to optional auth, mirroring
	// the frontend-less local workflow; handlers still 404 for anonymous
	// callers on operations that need an account.
	protectedMode := middleware.Optional
	if cfg.StrictAuth() {
		protectedMode = middleware.Strict
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodPost, http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret, middleware.Optional))
		r.Post("/ask", assistantHandler.HandleAsk)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret, protectedMode))
		r.Post("/interact", assistantHandler.HandleInteract)
		r.Post("/propose_event", assistantHandler.HandleProposeEvent)
		r.Post("/confirm_event", assistantHandler.HandleConfirmEvent)
		r.Post("/get_actions", assistantHandler.HandleGetActions)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
