package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"interviewprep/internal/auth"
	"interviewprep/internal/config"
	"interviewprep/internal/database"
	"interviewprep/internal/handler"
	"interviewprep/internal/llm/openrouter"
	"interviewprep/internal/middleware"
	"interviewprep/internal/prompts"
	"interviewprep/internal/repository/postgres"
	"interviewprep/internal/service/account"
	"interviewprep/internal/service/generation"
	"interviewprep/internal/service/questions"
	"interviewprep/internal/session"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create JWT verifier for Supabase authentication
	jwtVerifier, err := auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	if version, err := database.Version(ctx, database.OpenDB(pool), cfg.TablePrefix); err != nil {
		logger.Warn("could not read schema version, run cmd/seed to migrate", "error", err)
	} else {
		logger.Info("database connected", "schema_version", version)
	}

	// Repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	logRepo := postgres.NewGenerationLogRepository(repoConfig)
	questionRepo := postgres.NewQuestionRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Completion API and the generation prompt
	catalog, err := prompts.Load()
	if err != nil {
		log.Fatalf("Failed to load prompts: %v", err)
	}
	prompt, err := catalog.Get(prompts.QuestionGeneration)
	if err != nil {
		log.Fatalf("Failed to load generation prompt: %v", err)
	}
	completer, err := openrouter.NewClient(openrouter.Config{
		APIKey:       cfg.OpenRouterAPIKey,
		BaseURL:      cfg.OpenRouterBaseURL,
		DefaultModel: cfg.DefaultModel,
		Timeout:      cfg.CompletionTimeout,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to create completion client: %v", err)
	}

	// Auth platform and sessions
	goTrue := auth.NewGoTrueClient(auth.GoTrueConfig{
		SupabaseURL: cfg.SupabaseURL,
		AnonKey:     cfg.SupabaseKey,
	}, logger)
	sessions, err := session.NewStore(cfg.SessionSecret, cfg.CookieSecure, logger)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}

	// Services
	generationService := generation.NewService(logRepo, completer, prompt, logger)
	questionService := questions.NewService(questionRepo, logRepo, txManager, logger)
	accountService := account.NewService(goTrue, cfg.PublicURL, logger)

	// Handlers
	generationHandler := handler.NewGenerationHandler(generationService, logger)
	questionHandler := handler.NewQuestionHandler(questionService, logger)
	accountHandler := handler.NewAccountHandler(accountService, sessions, logger)
	healthHandler := handler.NewHealthHandler(pool, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.Health)

	// Account routes
	mux.HandleFunc("POST /api/auth/login", accountHandler.Login)
	mux.HandleFunc("POST /api/auth/signup", accountHandler.SignUp)
	mux.HandleFunc("POST /api/auth/reset-password", accountHandler.ResetPassword)
	mux.HandleFunc("POST /api/auth/update-password", accountHandler.UpdatePassword)
	mux.HandleFunc("GET /api/auth/callback", accountHandler.Callback)
	mux.HandleFunc("POST /api/auth/logout", accountHandler.Logout)

	// AI routes
	mux.HandleFunc("POST /api/ai/generate-questions", generationHandler.GenerateQuestions)
	mux.HandleFunc("POST /api/ai/save-questions", questionHandler.SaveProposals)

	// Question routes
	mux.HandleFunc("GET /api/questions", questionHandler.ListQuestions)
	mux.HandleFunc("POST /api/questions", questionHandler.CreateQuestion)
	mux.HandleFunc("GET /api/questions/{id}", questionHandler.GetQuestion)
	mux.HandleFunc("PATCH /api/questions/{id}", questionHandler.UpdateQuestion)
	mux.HandleFunc("DELETE /api/questions/{id}", questionHandler.DeleteQuestion)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestID → Logger → Recovery → Auth → Routes
	authenticator := middleware.NewAuthenticator(jwtVerifier, sessions, accountService, logger)
	h = authenticator.Middleware(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.Logger(logger)(h)
	h = middleware.RequestID(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Generation requests wait on the completion API, so the write timeout
	// leaves room for the full completion timeout.
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.CompletionTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
