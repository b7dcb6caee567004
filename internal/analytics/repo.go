package analytics

import (
	"database/sql"

	"go.uber.org/zap"
	"golang.org/x/net/context"

	myErr "campusmarket/internal/types/errors"
)

type PreferenceDBRepository struct {
	DB     *sql.DB
	Logger *zap.SugaredLogger
}

func NewPreferenceDBRepository(db *sql.DB, l *zap.SugaredLogger) *PreferenceDBRepository {
	return &PreferenceDBRepository{
		DB:     db,
		Logger: l,
	}
}

func (pr *PreferenceDBRepository) AddWeight(ctx context.Context, userID int64, category string, delta int64) error {
	query := `
	INSERT INTO user_preferences (user_id, category, weight, updated_at)
	VALUES ($1, $2, $3, NOW())
	ON CONFLICT (user_id, category)
	DO UPDATE SET weight = user_preferences.weight + EXCLUDED.weight, updated_at = NOW()
	`

	if _, err := pr.DB.ExecContext(ctx, query, userID, category, delta); err != nil {
		pr.Logger.Errorf("Error upserting preference for user %d: %v", userID, err)
		return myErr.ErrDBInternal
	}

	return nil
}

func (pr *PreferenceDBRepository) TopCategories(ctx context.Context, userID int64, limit int) ([]Preference, error) {
	query := `
	SELECT user_id, category, weight
	FROM user_preferences
	WHERE user_id = $1
	ORDER BY weight DESC, category ASC
	LIMIT $2
	`

	rows, err := pr.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		pr.Logger.Errorf("Error fetching preferences for user %d: %v", userID, err)
		return nil, myErr.ErrDBInternal
	}
	defer rows.Close() // nolint:errcheck

	prefs := []Preference{}
	for rows.Next() {
		var p Preference
		if err := rows.Scan(&p.UserID, &p.Category, &p.Weight); err != nil {
			pr.Logger.Errorf("Error scanning preference row: %v", err)
			return nil, myErr.ErrDBInternal
		}
		prefs = append(prefs, p)
	}

	if err := rows.Err(); err != nil {
		pr.Logger.Errorf("Error iterating preference rows: %v", err)
		return nil, myErr.ErrDBInternal
	}

	return prefs, nil
}
