package engagement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campusmarket/internal/listing"
	myErr "campusmarket/internal/types/errors"

	"go.uber.org/zap"
)

type EngagementDBRepository struct {
	DB     *sql.DB
	Logger *zap.SugaredLogger
}

func NewEngagementDBRepository(db *sql.DB, l *zap.SugaredLogger) *EngagementDBRepository {
	return &EngagementDBRepository{
		DB:     db,
		Logger: l,
	}
}

func (er *EngagementDBRepository) IncrementViews(ctx context.Context, kind listing.Kind, id int64) (int, error) {
	t, ok := listing.TablesFor(kind)
	if !ok {
		return 0, myErr.ErrBadID
	}

	query := fmt.Sprintf(
		"UPDATE %s SET views = COALESCE(views, 0) + 1 WHERE %s = $1 RETURNING views",
		t.Table, t.IDColumn,
	)

	var views int
	err := er.DB.QueryRowContext(ctx, query, id).Scan(&views)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, myErr.ErrNotFound
		}
		er.Logger.Errorf("Error incrementing views for %s %d: %v", kind, id, err)
		return 0, myErr.ErrDBInternal
	}

	return views, nil
}

// ToggleLike runs the whole check-and-flip in one transaction. The initial
// SELECT ... FOR UPDATE on the listing row serializes concurrent toggles for
// the same listing, so the counter can never drift from the relation.
func (er *EngagementDBRepository) ToggleLike(ctx context.Context, kind listing.Kind, id, userID int64) (bool, int, error) {
	t, ok := listing.TablesFor(kind)
	if !ok {
		return false, 0, myErr.ErrBadID
	}

	tx, err := er.DB.BeginTx(ctx, nil)
	if err != nil {
		er.Logger.Errorf("Error starting like transaction: %v", err)
		return false, 0, myErr.ErrDBInternal
	}
	defer tx.Rollback() // nolint:errcheck

	lockQuery := fmt.Sprintf(
		"SELECT COALESCE(likes, 0) FROM %s WHERE %s = $1 FOR UPDATE",
		t.Table, t.IDColumn,
	)

	var likes int
	if err := tx.QueryRowContext(ctx, lockQuery, id).Scan(&likes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, 0, myErr.ErrNotFound
		}
		er.Logger.Errorf("Error locking %s %d: %v", kind, id, err)
		return false, 0, myErr.ErrDBInternal
	}

	existsQuery := fmt.Sprintf(
		"SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1 AND user_id = $2)",
		t.LikesTable, t.LikesFK,
	)

	var exists bool
	if err := tx.QueryRowContext(ctx, existsQuery, id, userID).Scan(&exists); err != nil {
		er.Logger.Errorf("Error checking like existence: %v", err)
		return false, 0, myErr.ErrDBInternal
	}

	var liked bool
	if exists {
		deleteQuery := fmt.Sprintf(
			"DELETE FROM %s WHERE %s = $1 AND user_id = $2",
			t.LikesTable, t.LikesFK,
		)
		if _, err := tx.ExecContext(ctx, deleteQuery, id, userID); err != nil {
			er.Logger.Errorf("Error deleting like: %v", err)
			return false, 0, myErr.ErrDBInternal
		}

		decQuery := fmt.Sprintf(
			"UPDATE %s SET likes = GREATEST(COALESCE(likes, 0) - 1, 0) WHERE %s = $1 RETURNING likes",
			t.Table, t.IDColumn,
		)
		if err := tx.QueryRowContext(ctx, decQuery, id).Scan(&likes); err != nil {
			er.Logger.Errorf("Error decrementing likes: %v", err)
			return false, 0, myErr.ErrDBInternal
		}
		liked = false
	} else {
		insertQuery := fmt.Sprintf(
			"INSERT INTO %s (%s, user_id) VALUES ($1, $2)",
			t.LikesTable, t.LikesFK,
		)
		if _, err := tx.ExecContext(ctx, insertQuery, id, userID); err != nil {
			er.Logger.Errorf("Error inserting like: %v", err)
			return false, 0, myErr.ErrDBInternal
		}

		incQuery := fmt.Sprintf(
			"UPDATE %s SET likes = COALESCE(likes, 0) + 1 WHERE %s = $1 RETURNING likes",
			t.Table, t.IDColumn,
		)
		if err := tx.QueryRowContext(ctx, incQuery, id).Scan(&likes); err != nil {
			er.Logger.Errorf("Error incrementing likes: %v", err)
			return false, 0, myErr.ErrDBInternal
		}
		liked = true
	}

	if err := tx.Commit(); err != nil {
		er.Logger.Errorf("Error committing like transaction: %v", err)
		return false, 0, myErr.ErrDBInternal
	}

	return liked, likes, nil
}
