package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/cryptocallout/cryptocallout-go/internal/models"
	"github.com/cryptocallout/cryptocallout-go/internal/utils"
)

const predictionColumns = `id, influencer_id, coin_symbol, direction, price_at_prediction, target_price, price_at_resolution, status, predicted_at, resolved_at, created_at`

// PredictionRepository handles database operations for prediction records.
type PredictionRepository struct {
	pool DatabasePool
}

// NewPredictionRepository creates a new prediction repository.
func NewPredictionRepository(pool DatabasePool) *PredictionRepository {
	return &PredictionRepository{
		pool: pool,
	}
}

// ListAll returns the full prediction snapshot, oldest first. The scoring
// engine consumes this as a read-only slice.
func (r *PredictionRepository) ListAll(ctx context.Context) ([]models.PredictionRecord, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions ORDER BY predicted_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	return collectPredictions(rows)
}

// ListByInfluencer returns one influencer's predictions, oldest first.
func (r *PredictionRepository) ListByInfluencer(ctx context.Context, influencerID string) ([]models.PredictionRecord, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE influencer_id = $1 ORDER BY predicted_at`

	rows, err := r.pool.Query(ctx, query, influencerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions for influencer %s: %w", influencerID, err)
	}
	defer rows.Close()

	return collectPredictions(rows)
}

// List applies the list-endpoint filters with pagination and returns the
// page plus the unpaginated total count.
func (r *PredictionRepository) List(ctx context.Context, filter models.PredictionFilter) ([]models.PredictionRecord, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.InfluencerID != "" {
		where += " AND influencer_id = $" + strconv.Itoa(argIndex)
		args = append(args, filter.InfluencerID)
		argIndex++
	}
	if filter.CoinSymbol != "" {
		where += " AND coin_symbol = $" + strconv.Itoa(argIndex)
		args = append(args, filter.CoinSymbol)
		argIndex++
	}
	if filter.Status != "" {
		where += " AND status = $" + strconv.Itoa(argIndex)
		args = append(args, string(filter.Status))
		argIndex++
	}
	if filter.From != nil {
		where += " AND predicted_at >= $" + strconv.Itoa(argIndex)
		args = append(args, *filter.From)
		argIndex++
	}
	if filter.To != nil {
		where += " AND predicted_at <= $" + strconv.Itoa(argIndex)
		args = append(args, *filter.To)
		argIndex++
	}

	countQuery := `SELECT COUNT(*) FROM predictions` + where
	var totalCount int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count predictions: %w", err)
	}

	query := `SELECT ` + predictionColumns + ` FROM predictions` + where + ` ORDER BY predicted_at DESC`
	if filter.Limit > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.Limit
		}
		query += " LIMIT $" + strconv.Itoa(argIndex) + " OFFSET $" + strconv.Itoa(argIndex+1)
		args = append(args, filter.Limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	predictions, err := collectPredictions(rows)
	if err != nil {
		return nil, 0, err
	}
	return predictions, totalCount, nil
}

// Get returns one prediction by id. Returns utils.ErrNotFound when the id
// does not exist.
func (r *PredictionRepository) Get(ctx context.Context, id string) (*models.PredictionRecord, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE id = $1`

	p, err := scanPrediction(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get prediction %s: %w", id, err)
	}

	return &p, nil
}

// Insert stores a new pending prediction.
func (r *PredictionRepository) Insert(ctx context.Context, p *models.PredictionRecord) error {
	query := `
		INSERT INTO predictions (id, influencer_id, coin_symbol, direction, price_at_prediction, target_price, status, predicted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.InfluencerID,
		p.CoinSymbol,
		string(p.Direction),
		p.PriceAtPrediction,
		p.TargetPrice,
		string(p.Status),
		p.PredictedAt,
		p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}

	return nil
}

// Resolve applies the terminal transition in the store. The status guard in
// the WHERE clause makes the transition idempotent-safe: resolving an
// already-resolved prediction returns utils.ErrNotFound.
func (r *PredictionRepository) Resolve(ctx context.Context, id string, status models.PredictionStatus, priceAtResolution decimal.Decimal, resolvedAt time.Time) (*models.PredictionRecord, error) {
	query := `
		UPDATE predictions
		SET status = $2, price_at_resolution = $3, resolved_at = $4
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + predictionColumns

	p, err := scanPrediction(r.pool.QueryRow(ctx, query, id, string(status), priceAtResolution, resolvedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve prediction %s: %w", id, err)
	}

	return &p, nil
}

func collectPredictions(rows pgx.Rows) ([]models.PredictionRecord, error) {
	var predictions []models.PredictionRecord
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read predictions: %w", err)
	}
	return predictions, nil
}

func scanPrediction(row pgx.Row) (models.PredictionRecord, error) {
	var p models.PredictionRecord
	err := row.Scan(
		&p.ID,
		&p.InfluencerID,
		&p.CoinSymbol,
		&p.Direction,
		&p.PriceAtPrediction,
		&p.TargetPrice,
		&p.PriceAtResolution,
		&p.Status,
		&p.PredictedAt,
		&p.ResolvedAt,
		&p.CreatedAt,
	)
	return p, err
}
