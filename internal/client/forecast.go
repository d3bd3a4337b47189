package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"agritrack/internal/misc"
	"agritrack/internal/model"

	"github.com/go-redis/redis/v9"
	"github.com/pkg/errors"
)

// ErrForecastUnavailable covers everything transport-level: connection
// refused, timeout, or a body that cannot be decoded. Callers surface
// it as "prediction service unavailable" and never see the raw cause.
var ErrForecastUnavailable = errors.New("forecast service unavailable")

// ForecastError is a request-level rejection from the forecast service,
// carrying the upstream status and its error message when present.
type ForecastError struct {
	StatusCode int
	Message    string
}

func (e *ForecastError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("forecast service rejected request (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("forecast service rejected request (status %d)", e.StatusCode)
}

type forecastPredictRequest struct {
	Product string `json:"product"`
	Date    string `json:"date"`
}

type forecastPredictResponse struct {
	PredictedPrice *float64 `json:"predicted_price"`
	Error          string   `json:"error"`
}

// ForecastPredict asks the forecast service for the predicted price of
// product on date (ISO format). The call is bounded by ctx and the
// Client's timeout; no retry is attempted.
func (c Client) ForecastPredict(ctx context.Context, product string, date string) (float64, error) {
	reqBody, err := json.Marshal(forecastPredictRequest{Product: product, Date: date})
	if err != nil {
		return 0, errors.Wrapf(err, "error marshalling predict request for product: %s, date: %s", product, date)
	}

	apiURL := c.ForecastAPIURL + "/predict"
	req, err := newRequest(http.MethodPost, apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return 0, errors.Wrapf(err, "error creating request to URL: %s", apiURL)
	}
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(ctx)

	c.Logger.Debugf("ForecastPredict: Sending request to %s, product: %s, date: %s", apiURL, product, date)
	resp, err := c.Do(req)
	if err != nil {
		return 0, errors.Wrapf(ErrForecastUnavailable, "error doing predict request, URL: %s, err: %v", apiURL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(http.MaxBytesReader(nil, resp.Body, 300*1024))
	if err != nil {
		return 0, errors.Wrapf(ErrForecastUnavailable, "error reading predict response body, status: %s, err: %v", resp.Status, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fErr := &ForecastError{StatusCode: resp.StatusCode}
		var predictResp forecastPredictResponse
		if err = json.Unmarshal(body, &predictResp); err == nil {
			fErr.Message = predictResp.Error
		}
		return 0, fErr
	}

	var predictResp forecastPredictResponse
	if err = json.Unmarshal(body, &predictResp); err != nil {
		return 0, errors.Wrapf(ErrForecastUnavailable,
			"error unmarshalling predict response body, status: %s, body:\n%s,\nerr: %v",
			resp.Status, misc.BytesLimit(body, 2000), err)
	}
	if predictResp.Error != "" {
		return 0, &ForecastError{StatusCode: resp.StatusCode, Message: predictResp.Error}
	}
	if predictResp.PredictedPrice == nil {
		return 0, &ForecastError{StatusCode: resp.StatusCode, Message: "no predicted price in response"}
	}
	return *predictResp.PredictedPrice, nil
}

// ForecastPriceTrend fetches the historical price series of product
// between fromDate and toDate. Results are cached in Redis for
// CacheTTL since the series only grows once a day.
func (c Client) ForecastPriceTrend(ctx context.Context, product string, fromDate string, toDate string) ([]model.PricePoint, error) {
	apiURL := fmt.Sprintf("%s/price_trend?product_name=%s&from_date=%s&to_date=%s",
		c.ForecastAPIURL, url.QueryEscape(product), url.QueryEscape(fromDate), url.QueryEscape(toDate))

	cacheKey := "FPT-" + apiURL
	if c.Redis != nil {
		cached, err := c.Redis.Get(ctx, cacheKey).Result()
		if err == nil {
			c.Logger.Infof("ForecastPriceTrend: Cache found, key: %s", cacheKey)
			var pts []model.PricePoint
			if err = json.Unmarshal([]byte(cached), &pts); err == nil {
				return pts, nil
			}
			c.Logger.Errorf("ForecastPriceTrend: Error unmarshalling cache, key: %s, err: %v", cacheKey, err)
		} else if !errors.Is(err, redis.Nil) {
			c.Logger.Errorf("ForecastPriceTrend: Error getting Redis cache with key: %s, err: %v", cacheKey, err)
		}
	}

	req, err := newRequest(http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "error creating request to URL: %s", apiURL)
	}
	req = req.WithContext(ctx)

	c.Logger.Debugf("ForecastPriceTrend: Sending request to %s", apiURL)
	resp, err := c.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrForecastUnavailable, "error doing price trend request, URL: %s, err: %v", apiURL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(http.MaxBytesReader(nil, resp.Body, 3000*1024))
	if err != nil {
		return nil, errors.Wrapf(ErrForecastUnavailable, "error reading price trend response body, status: %s, err: %v", resp.Status, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ForecastError{StatusCode: resp.StatusCode, Message: string(misc.BytesLimit(body, 200))}
	}

	var pts []model.PricePoint
	if err = json.Unmarshal(body, &pts); err != nil {
		return nil, errors.Wrapf(ErrForecastUnavailable,
			"error unmarshalling price trend response body, status: %s, body:\n%s,\nerr: %v",
			resp.Status, misc.BytesLimit(body, 2000), err)
	}

	if c.Redis != nil {
		if cacheVal, err := json.Marshal(pts); err == nil {
			if err = c.Redis.Set(ctx, cacheKey, cacheVal, c.CacheTTL).Err(); err != nil {
				c.Logger.Errorf("ForecastPriceTrend: Error setting Redis cache with key: %s, err: %v", cacheKey, err)
			}
		}
	}
	return pts, nil
}
