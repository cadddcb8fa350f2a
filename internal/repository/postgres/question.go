package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"interviewprep/internal/domain/models"
	"interviewprep/internal/domain/repositories"
)

var questionColumns = []string{
	"id", "user_id", "question", "answer", "source", "generation_log_id", "created_at", "updated_at",
}

var questionInsertColumns = []string{"user_id", "question", "answer", "source", "generation_log_id"}

// sortableQuestionColumns guards ORDER BY against anything but known columns.
var sortableQuestionColumns = map[string]bool{
	models.SortByCreatedAt: true,
	models.SortByUpdatedAt: true,
	models.SortByQuestion:  true,
	models.SortByAnswer:    true,
	models.SortBySource:    true,
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// PostgresQuestionRepository implements repositories.QuestionRepository
type PostgresQuestionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	owned  ownedTable[models.Question]
	logger *slog.Logger
}

// NewQuestionRepository creates a new PostgresQuestionRepository
func NewQuestionRepository(config *RepositoryConfig) repositories.QuestionRepository {
	return &PostgresQuestionRepository{
		pool:   config.Pool,
		tables: config.Tables,
		owned: ownedTable[models.Question]{
			name:    config.Tables.Questions,
			columns: questionColumns,
			scan:    scanQuestion,
		},
		logger: config.Logger,
	}
}

// Create inserts a question and scans back the stored row.
func (r *PostgresQuestionRepository) Create(ctx context.Context, q *models.Question) error {
	query, args, err := psql.Insert(r.tables.Questions).
		Columns(questionInsertColumns...).
		Values(q.UserID, q.Question, q.Answer, string(q.Source), q.GenerationLogID).
		Suffix(r.owned.returning()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	created, err := scanQuestion(GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return fmt.Errorf("create question: %w", mapError(err, "question"))
	}
	*q = *created
	return nil
}

// BulkInsert writes all rows in a single multi-row INSERT, so the batch is
// all-or-nothing. Ids come back in input order.
func (r *PostgresQuestionRepository) BulkInsert(ctx context.Context, rows []models.Question) ([]uuid.UUID, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	insert := psql.Insert(r.tables.Questions).Columns(questionInsertColumns...)
	for _, q := range rows {
		insert = insert.Values(q.UserID, q.Question, q.Answer, string(q.Source), q.GenerationLogID)
	}
	query, args, err := insert.Suffix("RETURNING id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build bulk insert: %w", err)
	}

	result, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("bulk insert questions: %w", mapError(err, "question"))
	}
	ids, err := pgx.CollectRows(result, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("bulk insert questions: %w", mapError(err, "question"))
	}

	r.logger.Debug("questions inserted", "count", len(ids))
	return ids, nil
}

// GetOwned returns the question, or nil when it does not exist for the owner.
func (r *PostgresQuestionRepository) GetOwned(ctx context.Context, id, ownerID uuid.UUID) (*models.Question, error) {
	q, err := r.owned.find(ctx, GetExecutor(ctx, r.pool), id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get question: %w", mapError(err, "question"))
	}
	return q, nil
}

// List returns one page of the owner's questions and the number of matching rows.
func (r *PostgresQuestionRepository) List(ctx context.Context, ownerID uuid.UUID, query models.ListQuestionsQuery) ([]models.Question, int, error) {
	where := sq.And{r.owned.byOwner(ownerID)}
	if query.Search != "" {
		where = append(where, sq.ILike{"question": "%" + likeEscaper.Replace(query.Search) + "%"})
	}

	executor := GetExecutor(ctx, r.pool)

	countSQL, countArgs, err := psql.Select("count(*)").From(r.tables.Questions).Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}
	var total int
	if err := executor.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count questions: %w", mapError(err, "question"))
	}

	sortBy := query.SortBy
	if !sortableQuestionColumns[sortBy] {
		sortBy = models.SortByCreatedAt
	}
	direction := "DESC"
	if query.SortOrder == models.SortAsc {
		direction = "ASC"
	}

	pageSQL, pageArgs, err := psql.Select(questionColumns...).
		From(r.tables.Questions).
		Where(where).
		OrderBy(sortBy+" "+direction, "id "+direction).
		Limit(uint64(query.PageSize)).
		Offset(uint64(query.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list: %w", err)
	}

	rows, err := executor.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list questions: %w", mapError(err, "question"))
	}
	defer rows.Close()

	questions := make([]models.Question, 0, query.PageSize)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list questions: %w", mapError(err, "question"))
	}

	return questions, total, nil
}

// UpdateOwned applies the patch and bumps updated_at.
func (r *PostgresQuestionRepository) UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, patch *models.QuestionPatch) (*models.Question, error) {
	set := map[string]any{"updated_at": sq.Expr("now()")}
	if patch.Question != nil {
		set["question"] = *patch.Question
	}
	switch {
	case patch.ClearAnswer:
		set["answer"] = nil
	case patch.Answer != nil:
		set["answer"] = *patch.Answer
	}

	q, err := r.owned.update(ctx, GetExecutor(ctx, r.pool), id, ownerID, set)
	if err != nil {
		return nil, fmt.Errorf("update question: %w", mapError(err, "question"))
	}
	return q, nil
}

// DeleteOwned removes the question. A missing row is not an error.
func (r *PostgresQuestionRepository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	n, err := r.owned.delete(ctx, GetExecutor(ctx, r.pool), id, ownerID)
	if err != nil {
		return fmt.Errorf("delete question: %w", mapError(err, "question"))
	}
	if n == 0 {
		r.logger.Debug("delete matched no question", "id", id, "user_id", ownerID)
	}
	return nil
}

func scanQuestion(row pgx.Row) (*models.Question, error) {
	var (
		q      models.Question
		source string
	)
	err := row.Scan(
		&q.ID,
		&q.UserID,
		&q.Question,
		&q.Answer,
		&source,
		&q.GenerationLogID,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	q.Source = models.QuestionSource(source)
	return &q, nil
}
