package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"
)

// UserIDRepository stores previously resolved username -> user id mappings.
// Entries have no TTL; a fresh lookup overwrites the old value.
type UserIDRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewUserIDRepository(sqlDB *sql.DB, logger zerolog.Logger) *UserIDRepository {
	return &UserIDRepository{db: sqlDB, logger: logger}
}

func (r *UserIDRepository) Get(ctx context.Context, username string) (int64, error) {
	var userID int64
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id FROM cached_user_ids WHERE username = ?", username,
	).Scan(&userID)
	if err == sql.ErrNoRows {
		r.logger.Debug().Str("username", username).Msg("user id not cached")
		return 0, err
	}
	if err != nil {
		r.logger.Error().Err(err).Str("username", username).Msg("failed to read cached user id")
		return 0, err
	}

	r.logger.Debug().Str("username", username).Int64("user_id", userID).Msg("cached user id hit")
	return userID, nil
}

func (r *UserIDRepository) Put(ctx context.Context, username string, userID int64) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cached_user_ids (username, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (username) DO UPDATE SET
			user_id = excluded.user_id,
			updated_at = excluded.updated_at`,
		username, userID, now, now,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("username", username).Int64("user_id", userID).Msg("failed to cache user id")
		return err
	}

	r.logger.Debug().Str("username", username).Int64("user_id", userID).Msg("user id cached")
	return nil
}
