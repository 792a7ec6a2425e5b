package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptocallout/cryptocallout-go/internal/models"
	"github.com/cryptocallout/cryptocallout-go/internal/utils"
)

// MockPoolAdapter wraps pgxmock.PgxPoolIface to implement DatabasePool.
type MockPoolAdapter struct {
	mock pgxmock.PgxPoolIface
}

func NewMockPoolAdapter(mock pgxmock.PgxPoolIface) DatabasePool {
	return &MockPoolAdapter{mock: mock}
}

func (m *MockPoolAdapter) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return m.mock.QueryRow(ctx, sql, args...)
}

func (m *MockPoolAdapter) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	result, err := m.mock.Exec(ctx, sql, args...)
	if err == nil {
		rows := result.RowsAffected()
		return pgconn.NewCommandTag(fmt.Sprintf("UPDATE %d", rows)), nil
	}
	return pgconn.CommandTag{}, err
}

func (m *MockPoolAdapter) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return m.mock.Query(ctx, sql, args...)
}

var predictionColumnList = []string{
	"id", "influencer_id", "coin_symbol", "direction", "price_at_prediction",
	"target_price", "price_at_resolution", "status", "predicted_at", "resolved_at", "created_at",
}

func predictionRow(mock pgxmock.PgxPoolIface, id string, status models.PredictionStatus) *pgxmock.Rows {
	predictedAt := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	var resolution *decimal.Decimal
	var resolvedAt *time.Time
	if status != models.PredictionStatusPending {
		res := decimal.NewFromInt(120)
		at := predictedAt.Add(48 * time.Hour)
		resolution = &res
		resolvedAt = &at
	}
	return mock.NewRows(predictionColumnList).AddRow(
		id, "inf-1", "BTC", "bullish", decimal.NewFromInt(100),
		nil, resolution, string(status), predictedAt, resolvedAt, predictedAt,
	)
}

func TestPredictionRepository_ListByInfluencer(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPredictionRepository(NewMockPoolAdapter(mock))

	mock.ExpectQuery("SELECT (.+) FROM predictions WHERE influencer_id").
		WithArgs("inf-1").
		WillReturnRows(predictionRow(mock, "pred-1", models.PredictionStatusCorrect))

	predictions, err := repo.ListByInfluencer(context.Background(), "inf-1")
	require.NoError(t, err)
	require.Len(t, predictions, 1)

	p := predictions[0]
	assert.Equal(t, "pred-1", p.ID)
	assert.Equal(t, models.PredictionStatusCorrect, p.Status)
	assert.Equal(t, models.DirectionBullish, p.Direction)
	require.NotNil(t, p.PriceAtResolution)
	assert.True(t, p.PriceAtResolution.Equal(decimal.NewFromInt(120)))
	assert.True(t, p.IsResolved())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPredictionRepository_GetNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPredictionRepository(NewMockPoolAdapter(mock))

	mock.ExpectQuery("SELECT (.+) FROM predictions WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, utils.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPredictionRepository_Resolve(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPredictionRepository(NewMockPoolAdapter(mock))

	resolvedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	price := decimal.NewFromInt(120)

	mock.ExpectQuery("UPDATE predictions").
		WithArgs("pred-1", "correct", price, resolvedAt).
		WillReturnRows(predictionRow(mock, "pred-1", models.PredictionStatusCorrect))

	p, err := repo.Resolve(context.Background(), "pred-1", models.PredictionStatusCorrect, price, resolvedAt)
	require.NoError(t, err)
	assert.Equal(t, models.PredictionStatusCorrect, p.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPredictionRepository_ResolveAlreadyResolved(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPredictionRepository(NewMockPoolAdapter(mock))

	// The status = 'pending' guard matches no rows for a resolved record.
	mock.ExpectQuery("UPDATE predictions").
		WithArgs("pred-1", "incorrect", decimal.NewFromInt(90), pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.Resolve(context.Background(), "pred-1", models.PredictionStatusIncorrect, decimal.NewFromInt(90), time.Now())
	assert.ErrorIs(t, err, utils.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPredictionRepository_Insert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPredictionRepository(NewMockPoolAdapter(mock))

	p, err := models.NewPredictionRecord("inf-1", "ETH", models.DirectionBearish, decimal.NewFromInt(3000), nil, time.Now())
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO predictions").
		WithArgs(p.ID, p.InfluencerID, p.CoinSymbol, "bearish", p.PriceAtPrediction, pgxmock.AnyArg(), "pending", p.PredictedAt, p.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Insert(context.Background(), p)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPredictionRepository_ListWithFilters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPredictionRepository(NewMockPoolAdapter(mock))

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM predictions").
		WithArgs("BTC", "correct").
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM predictions").
		WithArgs("BTC", "correct", 10, 0).
		WillReturnRows(predictionRow(mock, "pred-1", models.PredictionStatusCorrect))

	predictions, total, err := repo.List(context.Background(), models.PredictionFilter{
		CoinSymbol: "BTC",
		Status:     models.PredictionStatusCorrect,
		Page:       1,
		Limit:      10,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, predictions, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInfluencerRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewInfluencerRepository(NewMockPoolAdapter(mock))

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := mock.NewRows([]string{
		"id", "handle", "display_name", "platform", "avatar_url",
		"follower_count", "verified", "created_at", "updated_at",
	}).AddRow("inf-1", "moon_caller", "Moon Caller", "twitter", "", int64(125000), true, now, now)

	mock.ExpectQuery("SELECT (.+) FROM influencers ORDER BY handle").WillReturnRows(rows)

	influencers, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, influencers, 1)
	assert.Equal(t, "moon_caller", influencers[0].Handle)
	assert.True(t, influencers[0].Verified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInfluencerRepository_GetNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewInfluencerRepository(NewMockPoolAdapter(mock))

	mock.ExpectQuery("SELECT (.+) FROM influencers WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, utils.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
