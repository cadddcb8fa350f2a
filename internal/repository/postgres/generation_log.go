package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"interviewprep/internal/domain"
	"interviewprep/internal/domain/models"
	"interviewprep/internal/domain/repositories"
)

var generationLogColumns = []string{
	"id", "user_id", "prompt", "status", "created_at", "finished_at", "response", "error_details",
}

// PostgresGenerationLogRepository implements repositories.GenerationLogRepository
type PostgresGenerationLogRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	owned  ownedTable[models.GenerationLog]
	logger *slog.Logger
}

// NewGenerationLogRepository creates a new PostgresGenerationLogRepository
func NewGenerationLogRepository(config *RepositoryConfig) repositories.GenerationLogRepository {
	return &PostgresGenerationLogRepository{
		pool:   config.Pool,
		tables: config.Tables,
		owned: ownedTable[models.GenerationLog]{
			name:    config.Tables.GenerationLogs,
			columns: generationLogColumns,
			scan:    scanGenerationLog,
		},
		logger: config.Logger,
	}
}

// Create inserts a pending log row.
func (r *PostgresGenerationLogRepository) Create(ctx context.Context, ownerID uuid.UUID, prompt string) (uuid.UUID, error) {
	query, args, err := psql.Insert(r.tables.GenerationLogs).
		Columns("user_id", "prompt", "status").
		Values(ownerID, prompt, string(models.GenerationPending)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("build insert: %w", err)
	}

	var id uuid.UUID
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return uuid.Nil, &domain.PersistenceError{Op: "create generation log", Err: mapError(err, "generation log")}
	}
	return id, nil
}

// MarkSuccess stores the response and finishes the log. Only pending rows are updated.
func (r *PostgresGenerationLogRepository) MarkSuccess(ctx context.Context, id uuid.UUID, response json.RawMessage) error {
	return r.finish(ctx, id, map[string]any{
		"status":      string(models.GenerationSuccess),
		"finished_at": sq.Expr("now()"),
		"response":    string(response),
	})
}

// MarkError stores the failure message and finishes the log. Only pending rows are updated.
func (r *PostgresGenerationLogRepository) MarkError(ctx context.Context, id uuid.UUID, details string) error {
	return r.finish(ctx, id, map[string]any{
		"status":        string(models.GenerationError),
		"finished_at":   sq.Expr("now()"),
		"error_details": details,
	})
}

func (r *PostgresGenerationLogRepository) finish(ctx context.Context, id uuid.UUID, set map[string]any) error {
	query, args, err := psql.Update(r.tables.GenerationLogs).
		SetMap(set).
		Where(sq.Eq{"id": id, "status": string(models.GenerationPending)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return &domain.PersistenceError{Op: "finish generation log", Err: mapError(err, "generation log")}
	}
	if tag.RowsAffected() == 0 {
		return &domain.PersistenceError{
			Op:  "finish generation log",
			Err: fmt.Errorf("generation log %s is not pending: %w", id, domain.ErrConflict),
		}
	}

	r.logger.Debug("generation log finished", "id", id, "status", set["status"])
	return nil
}

// FindOwned returns the log when it belongs to ownerID, nil otherwise.
func (r *PostgresGenerationLogRepository) FindOwned(ctx context.Context, id, ownerID uuid.UUID) (*models.GenerationLog, error) {
	log, err := r.owned.find(ctx, GetExecutor(ctx, r.pool), id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("find generation log: %w", mapError(err, "generation log"))
	}
	return log, nil
}

func scanGenerationLog(row pgx.Row) (*models.GenerationLog, error) {
	var (
		log      models.GenerationLog
		status   string
		response *string
	)
	err := row.Scan(
		&log.ID,
		&log.UserID,
		&log.Prompt,
		&status,
		&log.CreatedAt,
		&log.FinishedAt,
		&response,
		&log.ErrorDetails,
	)
	if err != nil {
		return nil, err
	}

	log.Status = models.GenerationStatus(status)
	if response != nil {
		log.Response = json.RawMessage(*response)
	}
	return &log, nil
}
