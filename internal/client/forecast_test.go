package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	applog "agritrack/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, upstream *httptest.Server) Client {
	t.Helper()
	return Client{
		Client:         &http.Client{Timeout: 200 * time.Millisecond},
		ForecastAPIURL: upstream.URL,
		Logger:         applog.NewLogger(applog.LevelOff, io.Discard),
	}
}

func TestForecastPredictSuccess(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"product":"Onion","date":"2024-05-01"}`, string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predicted_price": 28.5}`))
	}))
	defer upstream.Close()

	price, err := testClient(t, upstream).ForecastPredict(context.Background(), "Onion", "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, 28.5, price)
}

func TestForecastPredictUpstreamStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "no model for product"}`, http.StatusInternalServerError)
	}))
	defer upstream.Close()

	_, err := testClient(t, upstream).ForecastPredict(context.Background(), "Onion", "2024-05-01")
	var fErr *ForecastError
	require.ErrorAs(t, err, &fErr)
	assert.Equal(t, http.StatusInternalServerError, fErr.StatusCode)
	assert.Equal(t, "no model for product", fErr.Message)
}

func TestForecastPredictUpstreamErrorField(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": "unknown commodity"}`))
	}))
	defer upstream.Close()

	_, err := testClient(t, upstream).ForecastPredict(context.Background(), "Onion", "2024-05-01")
	var fErr *ForecastError
	require.ErrorAs(t, err, &fErr)
	assert.Equal(t, http.StatusOK, fErr.StatusCode)
	assert.Equal(t, "unknown commodity", fErr.Message)
}

func TestForecastPredictMissingPriceField(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	_, err := testClient(t, upstream).ForecastPredict(context.Background(), "Onion", "2024-05-01")
	var fErr *ForecastError
	require.ErrorAs(t, err, &fErr)
	assert.Equal(t, "no predicted price in response", fErr.Message)
}

func TestForecastPredictUndecodableBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer upstream.Close()

	_, err := testClient(t, upstream).ForecastPredict(context.Background(), "Onion", "2024-05-01")
	assert.ErrorIs(t, err, ErrForecastUnavailable)
}

func TestForecastPredictTimeout(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer upstream.Close()

	_, err := testClient(t, upstream).ForecastPredict(context.Background(), "Onion", "2024-05-01")
	assert.ErrorIs(t, err, ErrForecastUnavailable)
}

func TestForecastPredictConnectionRefused(t *testing.T) {
	upstream := httptest.NewServer(nil)
	upstream.Close()

	_, err := testClient(t, upstream).ForecastPredict(context.Background(), "Onion", "2024-05-01")
	assert.ErrorIs(t, err, ErrForecastUnavailable)
}

func TestForecastPredictNoRetry(t *testing.T) {
	var calls int
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}))
	defer upstream.Close()

	_, err := testClient(t, upstream).ForecastPredict(context.Background(), "Onion", "2024-05-01")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestForecastPriceTrend(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/price_trend", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "Atta (Wheat)", q.Get("product_name"))
		assert.Equal(t, "2024-01-01", q.Get("from_date"))
		assert.Equal(t, "2024-02-01", q.Get("to_date"))
		_, _ = w.Write([]byte(`[{"date":"2024-01-01","price":25.0},{"date":"2024-01-02","price":26.5}]`))
	}))
	defer upstream.Close()

	pts, err := testClient(t, upstream).ForecastPriceTrend(context.Background(), "Atta (Wheat)", "2024-01-01", "2024-02-01")
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.Equal(t, "2024-01-02", pts[1].Date)
	assert.Equal(t, 26.5, pts[1].Price)
}

func TestForecastPriceTrendUpstreamStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer upstream.Close()

	_, err := testClient(t, upstream).ForecastPriceTrend(context.Background(), "Onion", "2024-01-01", "2024-02-01")
	var fErr *ForecastError
	require.ErrorAs(t, err, &fErr)
	assert.Equal(t, http.StatusBadRequest, fErr.StatusCode)
}

func TestForecastPriceTrendContextCancelled(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer upstream.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := testClient(t, upstream).ForecastPriceTrend(ctx, "Onion", "2024-01-01", "2024-02-01")
	assert.ErrorIs(t, err, ErrForecastUnavailable)
}
