package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"friends-challenge-backend/internal/config"
	"friends-challenge-backend/internal/handlers"
	"friends-challenge-backend/internal/middleware"
	"friends-challenge-backend/internal/repository"
	"friends-challenge-backend/internal/scheduler"
	"friends-challenge-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Optional .env overlay before the config file is read
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Apply schema migrations
	if err := repository.Migrate(context.Background(), cfg.Database.DSN()); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	participationRepo := repository.NewParticipationRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Initialize services
	storageService, err := services.NewStorageService(
		cfg.AWS.Region,
		cfg.AWS.S3Bucket,
		cfg.AWS.AccessKey,
		cfg.AWS.SecretKey,
		cfg.AWS.Endpoint,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage service")
	}
	pushService, err := services.NewPushService(cfg.APNS)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create push service")
	}

	wsHub := services.NewWSHub()
	notifier := services.NewNotifier(wsHub, pushService, userRepo)

	authService := services.NewAuthService(userRepo, cfg.JWT.Secret)
	friendService := services.NewFriendService(friendRepo, userRepo, notifier)
	challengeService := services.NewChallengeService(challengeRepo, participationRepo, storageService)
	voteService := services.NewVoteService(voteRepo, friendRepo, participationRepo, userRepo)
	leaderboardService := services.NewLeaderboardService(friendRepo, userRepo)
	sessionService := services.NewSessionService(settingsRepo, time.Duration(cfg.Voting.CacheTTL))
	rotationService := services.NewRotationService(challengeRepo, voteRepo, userRepo, sessionService, notifier)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	friendHandler := handlers.NewFriendHandler(friendService)
	challengeHandler := handlers.NewChallengeHandler(challengeService)
	voteHandler := handlers.NewVoteHandler(voteService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	sessionHandler := handlers.NewSessionHandler(sessionService, authService)
	wsHandler := handlers.NewWebSocketHandler(wsHub, authService)

	// Start the weekly cycle scheduler
	sched, err := scheduler.New(cfg.Scheduler, rotationService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scheduler")
	}
	sched.Start()
	defer sched.Stop()

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/session", sessionHandler.Get)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(authService))
			r.Get("/me", authHandler.Me)
			r.Put("/me/push-token", authHandler.UpdatePushToken)
			r.Get("/me/history", challengeHandler.History)

			r.Get("/friends", friendHandler.List)
			r.Get("/friends/requests", friendHandler.ListRequests)
			r.Get("/friends/search", friendHandler.Search)
			r.Post("/friends/{user_id}/request", friendHandler.SendRequest)
			r.Post("/friends/{user_id}/accept", friendHandler.Accept)
			r.Post("/friends/{user_id}/reject", friendHandler.Reject)

			r.Get("/challenges/weekly", challengeHandler.GetWeekly)
			r.Post("/challenges/{challenge_id}/participation", challengeHandler.Submit)
			r.Delete("/challenges/{challenge_id}/participation", challengeHandler.Remove)

			r.Get("/challenges/{challenge_id}/peers", voteHandler.Peers)
			r.Post("/challenges/{challenge_id}/participations/{user_id}/vote", voteHandler.Vote)
			r.Post("/challenges/{challenge_id}/votes/complete", voteHandler.Complete)

			r.Get("/leaderboard", leaderboardHandler.Get)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
