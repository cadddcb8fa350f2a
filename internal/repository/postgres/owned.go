package postgres

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"interviewprep/internal/domain/repositories"
)

// ownerColumn holds the owning user id on every table.
const ownerColumn = "user_id"

// ownedTable scopes reads and writes on one table to a single owner.
// Every statement it builds carries the owner-equality filter.
type ownedTable[T any] struct {
	name    string
	columns []string
	scan    func(row pgx.Row) (*T, error)
}

func (t ownedTable[T]) byOwner(ownerID uuid.UUID) sq.Eq {
	return sq.Eq{ownerColumn: ownerID}
}

func (t ownedTable[T]) byID(id, ownerID uuid.UUID) sq.Eq {
	return sq.Eq{"id": id, ownerColumn: ownerID}
}

// returning is the RETURNING clause for the full column list.
func (t ownedTable[T]) returning() string {
	return "RETURNING " + strings.Join(t.columns, ", ")
}

// find returns nil, nil when the row is absent or owned by someone else.
func (t ownedTable[T]) find(ctx context.Context, db repositories.DBTX, id, ownerID uuid.UUID) (*T, error) {
	query, args, err := psql.Select(t.columns...).
		From(t.name).
		Where(t.byID(id, ownerID)).
		ToSql()
	if err != nil {
		return nil, err
	}

	row, err := t.scan(db.QueryRow(ctx, query, args...))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, err
	}
	return row, nil
}

// update applies set to the owned row and returns it; nil, nil when nothing matched.
func (t ownedTable[T]) update(ctx context.Context, db repositories.DBTX, id, ownerID uuid.UUID, set map[string]any) (*T, error) {
	query, args, err := psql.Update(t.name).
		SetMap(set).
		Where(t.byID(id, ownerID)).
		Suffix(t.returning()).
		ToSql()
	if err != nil {
		return nil, err
	}

	row, err := t.scan(db.QueryRow(ctx, query, args...))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, err
	}
	return row, nil
}

// delete removes the owned row and reports how many rows went away.
func (t ownedTable[T]) delete(ctx context.Context, db repositories.DBTX, id, ownerID uuid.UUID) (int64, error) {
	query, args, err := psql.Delete(t.name).
		Where(t.byID(id, ownerID)).
		ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
