package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptocallout/cryptocallout-go/internal/database"
	"github.com/cryptocallout/cryptocallout-go/internal/models"
)

func newSearchRouter(pool database.DatabasePool) *gin.Engine {
	handler := NewSearchHandler(
		database.NewInfluencerRepository(pool),
		database.NewPredictionRepository(pool),
		testLogger(),
	)
	router := gin.New()
	router.GET("/api/v1/search", handler.Search)
	return router
}

func expectSearchData(mock pgxmock.PgxPoolIface) {
	influencers := mock.NewRows(influencerColumnList)
	addInfluencerRow(influencers, "inf-1", "bitcoinmaxi")
	addInfluencerRow(influencers, "inf-2", "ethwhale")
	mock.ExpectQuery("SELECT (.+) FROM influencers ORDER BY handle").
		WillReturnRows(influencers)

	predictions := mock.NewRows(predictionColumnList)
	addPredictionRow(predictions, predictionSpec{
		id: "p-1", influencerID: "inf-1", coin: "BTC", direction: models.DirectionBullish,
		status: models.PredictionStatusPending, entry: 100, predictedAt: baseTime,
	})
	mock.ExpectQuery("SELECT (.+) FROM predictions ORDER BY predicted_at").
		WillReturnRows(predictions)
}

func TestSearch_MatchesInfluencersAndCoins(t *testing.T) {
	mock, pool := newMockPool(t)
	router := newSearchRouter(pool)
	expectSearchData(mock)

	w := performGet(router, "/api/v1/search?q=btc")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []models.SearchResult `json:"results"`
		Count   int                   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	require.NotNil(t, resp.Results[0].Coin)
	assert.Equal(t, "coin", resp.Results[0].Type)
	assert.Equal(t, "BTC", resp.Results[0].Coin.Symbol)
}

func TestSearch_CaseInsensitiveHandleMatch(t *testing.T) {
	mock, pool := newMockPool(t)
	router := newSearchRouter(pool)
	expectSearchData(mock)

	w := performGet(router, "/api/v1/search?q=ETHWHALE")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []models.SearchResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	require.NotNil(t, resp.Results[0].Influencer)
	assert.Equal(t, "influencer", resp.Results[0].Type)
	assert.Equal(t, "ethwhale", resp.Results[0].Influencer.Handle)
}

func TestSearch_MissingQuery(t *testing.T) {
	_, pool := newMockPool(t)
	router := newSearchRouter(pool)

	w := performGet(router, "/api/v1/search")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFoldString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercases", in: "BitcoinMaxi", want: "bitcoinmaxi"},
		{name: "width folds", in: "ＢＴＣ", want: "btc"},
		{name: "already folded", in: "eth", want: "eth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, foldString(tt.in))
		})
	}
}
