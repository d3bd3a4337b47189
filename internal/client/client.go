package client

import (
	"io"
	"net/http"
	"time"

	"github.com/go-redis/redis/v9"
)

type Client struct {
	*http.Client
	ForecastAPIURL string
	Redis          *redis.Client // nil disables trend caching
	CacheTTL       time.Duration
	Logger         logger
}

type logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Errorf(format string, v ...any)
}

func newRequest(method string, url string, body io.Reader) (*http.Request, error) {
	r, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	r.Header.Set("Accept", "application/json")
	return r, nil
}
