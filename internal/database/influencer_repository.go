package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cryptocallout/cryptocallout-go/internal/models"
	"github.com/cryptocallout/cryptocallout-go/internal/utils"
)

// DatabasePool defines the interface for database pool operations.
// This interface allows for both real pool and mock pool implementations.
type DatabasePool interface {
	// QueryRow executes a query that is expected to return at most one row.
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	// Exec executes a query without returning any rows.
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	// Query executes a query that returns rows.
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

const influencerColumns = `id, handle, display_name, platform, avatar_url, follower_count, verified, created_at, updated_at`

// InfluencerRepository handles database operations for influencer identities.
type InfluencerRepository struct {
	pool DatabasePool
}

// NewInfluencerRepository creates a new influencer repository.
func NewInfluencerRepository(pool DatabasePool) *InfluencerRepository {
	return &InfluencerRepository{
		pool: pool,
	}
}

// List returns every tracked influencer ordered by handle.
func (r *InfluencerRepository) List(ctx context.Context) ([]models.Influencer, error) {
	query := `SELECT ` + influencerColumns + ` FROM influencers ORDER BY handle`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list influencers: %w", err)
	}
	defer rows.Close()

	var influencers []models.Influencer
	for rows.Next() {
		inf, err := scanInfluencer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan influencer: %w", err)
		}
		influencers = append(influencers, inf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read influencers: %w", err)
	}

	return influencers, nil
}

// Get returns one influencer by id. Returns utils.ErrNotFound when the id
// does not exist.
func (r *InfluencerRepository) Get(ctx context.Context, id string) (*models.Influencer, error) {
	query := `SELECT ` + influencerColumns + ` FROM influencers WHERE id = $1`

	inf, err := scanInfluencer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get influencer %s: %w", id, err)
	}

	return &inf, nil
}

func scanInfluencer(row pgx.Row) (models.Influencer, error) {
	var inf models.Influencer
	err := row.Scan(
		&inf.ID,
		&inf.Handle,
		&inf.DisplayName,
		&inf.Platform,
		&inf.AvatarURL,
		&inf.FollowerCount,
		&inf.Verified,
		&inf.CreatedAt,
		&inf.UpdatedAt,
	)
	return inf, err
}
