package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/cryptocallout/cryptocallout-go/internal/database"
	"github.com/cryptocallout/cryptocallout-go/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// mockPool wraps pgxmock.PgxPoolIface to implement database.DatabasePool.
type mockPool struct {
	mock pgxmock.PgxPoolIface
}

func (m *mockPool) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return m.mock.QueryRow(ctx, sql, args...)
}

func (m *mockPool) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	result, err := m.mock.Exec(ctx, sql, args...)
	if err == nil {
		rows := result.RowsAffected()
		return pgconn.NewCommandTag(fmt.Sprintf("UPDATE %d", rows)), nil
	}
	return pgconn.CommandTag{}, err
}

func (m *mockPool) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return m.mock.Query(ctx, sql, args...)
}

func newMockPool(t *testing.T) (pgxmock.PgxPoolIface, database.DatabasePool) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, &mockPool{mock: mock}
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

var influencerColumnList = []string{
	"id", "handle", "display_name", "platform", "avatar_url",
	"follower_count", "verified", "created_at", "updated_at",
}

var predictionColumnList = []string{
	"id", "influencer_id", "coin_symbol", "direction", "price_at_prediction",
	"target_price", "price_at_resolution", "status", "predicted_at", "resolved_at", "created_at",
}

var baseTime = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

func addInfluencerRow(rows *pgxmock.Rows, id, handle string) *pgxmock.Rows {
	return rows.AddRow(id, handle, "Display "+handle, "twitter", "", int64(1000), false, baseTime, baseTime)
}

type predictionSpec struct {
	id           string
	influencerID string
	coin         string
	direction    models.PredictionDirection
	status       models.PredictionStatus
	entry        float64
	resolution   float64
	predictedAt  time.Time
}

func addPredictionRow(rows *pgxmock.Rows, spec predictionSpec) *pgxmock.Rows {
	var resolution *decimal.Decimal
	var resolvedAt *time.Time
	if spec.status != models.PredictionStatusPending {
		res := decimal.NewFromFloat(spec.resolution)
		at := spec.predictedAt.Add(24 * time.Hour)
		resolution = &res
		resolvedAt = &at
	}
	return rows.AddRow(
		spec.id, spec.influencerID, spec.coin, string(spec.direction),
		decimal.NewFromFloat(spec.entry), nil, resolution, string(spec.status),
		spec.predictedAt, resolvedAt, spec.predictedAt,
	)
}

func performGet(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func performJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
