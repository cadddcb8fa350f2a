package main

import (
	"context"
	"flag"
	"log"
	"os"

	"interviewprep/internal/auth"
	"interviewprep/internal/config"
	"interviewprep/internal/database"
	"interviewprep/internal/domain/services"
	"interviewprep/internal/repository/postgres"
	"interviewprep/internal/service/questions"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Roll back every migration before migrating (fresh start)")
	e2eUser := flag.Bool("e2e-user", false, "Recreate the e2e user from E2E_EMAIL/E2E_PASSWORD and seed sample questions")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.IsProd() && *dropTables {
		log.Fatalf("BLOCKED: cannot run -drop-tables in production")
	}

	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()

	logger.Info("seeding database", "environment", cfg.Environment, "table_prefix", cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	db := database.OpenDB(pool)

	if *dropTables {
		if err := database.Reset(ctx, db, cfg.TablePrefix, logger); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	if err := database.Migrate(ctx, db, cfg.TablePrefix, logger); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	if !*e2eUser {
		return
	}

	email, password := os.Getenv("E2E_EMAIL"), os.Getenv("E2E_PASSWORD")
	if email == "" || password == "" {
		log.Fatalf("E2E_EMAIL and E2E_PASSWORD must be set for -e2e-user")
	}
	if cfg.SupabaseServiceKey == "" {
		log.Fatalf("SUPABASE_SERVICE_KEY must be set for -e2e-user")
	}

	admin := auth.NewGoTrueClient(auth.GoTrueConfig{
		SupabaseURL: cfg.SupabaseURL,
		AnonKey:     cfg.SupabaseKey,
		ServiceKey:  cfg.SupabaseServiceKey,
	}, logger)

	if err := admin.AdminDeleteUserByEmail(ctx, email); err != nil {
		log.Fatalf("Failed to remove existing e2e user: %v", err)
	}
	rawID, err := admin.AdminCreateUser(ctx, email, password)
	if err != nil {
		log.Fatalf("Failed to create e2e user: %v", err)
	}
	userID, err := uuid.Parse(rawID)
	if err != nil {
		log.Fatalf("Auth API returned an invalid user id %q: %v", rawID, err)
	}
	logger.Info("e2e user created", "user_id", userID, "email", email)

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	questionService := questions.NewService(
		postgres.NewQuestionRepository(repoConfig),
		postgres.NewGenerationLogRepository(repoConfig),
		postgres.NewTransactionManager(pool, logger),
		logger,
	)

	for _, req := range sampleQuestions() {
		if _, err := questionService.CreateQuestion(ctx, userID, &req); err != nil {
			log.Fatalf("Failed to seed question %q: %v", req.Question, err)
		}
	}
	logger.Info("seeding complete", "questions", len(sampleQuestions()))
}

func sampleQuestions() []services.CreateQuestionRequest {
	answer := func(s string) *string { return &s }
	return []services.CreateQuestionRequest{
		{
			Question: "How does Postgres MVCC let readers and writers avoid blocking each other?",
			Answer:   answer("Each row version carries xmin/xmax; readers see the versions visible to their snapshot, so writers create new versions instead of overwriting."),
		},
		{
			Question: "When would you choose a buffered channel over an unbuffered one in Go?",
		},
		{
			Question: "Walk through how you would debug a p99 latency regression after a deploy.",
			Answer:   answer("Compare traces before and after, check GC and pool saturation metrics, then bisect the diff."),
		},
	}
}
