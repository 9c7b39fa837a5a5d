package preference

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saferoute/saferoute/internal/recommend"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL preference repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves the stored preference for a session.
func (r *PostgresRepository) Get(ctx context.Context, sessionID string) (recommend.Preference, error) {
	query := `
		SELECT preference
		FROM session_preferences
		WHERE session_id = $1
	`

	var pref string
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(&pref)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}

	return recommend.Preference(pref), nil
}

// Set stores the preference for a session, replacing any prior value.
func (r *PostgresRepository) Set(ctx context.Context, sessionID string, pref recommend.Preference) error {
	query := `
		INSERT INTO session_preferences (session_id, preference, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (session_id)
		DO UPDATE SET preference = EXCLUDED.preference, updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query, sessionID, string(pref))
	return err
}
