package server

import (
	"context"
	"testing"

	"agritrack/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestShouldNotify(t *testing.T) {
	a := model.PriceAlert{ThresholdPrice: 30}

	assert.True(t, shouldNotify(a, 30))
	assert.True(t, shouldNotify(a, 25))
	assert.False(t, shouldNotify(a, 31))

	// An unchanged price does not fire again.
	a.LastNotifiedPrice = 25
	assert.False(t, shouldNotify(a, 25))
	assert.True(t, shouldNotify(a, 24))
}

func TestCheckAlerts(t *testing.T) {
	db := &fakeDatastore{}
	fc := &fakeForecaster{trend: []model.PricePoint{
		{Date: "2024-01-01", Price: 32},
		{Date: "2024-01-02", Price: 28},
	}}
	s := newTestServer(db, fc, newFakeSessionStore())

	userID := primitive.NewObjectID()
	_, err := db.AlertUpsert(context.Background(), userID, "Onion", 30)
	require.NoError(t, err)
	_, err = db.AlertUpsert(context.Background(), userID, "Potato", 20)
	require.NoError(t, err)

	s.checkAlerts(context.Background())

	// Both products were checked against the latest trend point.
	assert.Equal(t, 2, fc.trendCalls)

	// The Onion alert fired at 28 and recorded it; the Potato alert
	// (threshold 20, price 28) did not.
	for _, a := range db.alerts {
		switch a.ProductName {
		case "Onion":
			assert.Equal(t, 28.0, a.LastNotifiedPrice)
		case "Potato":
			assert.Zero(t, a.LastNotifiedPrice)
		}
	}
}

func TestCheckAlertsNoProducts(t *testing.T) {
	fc := &fakeForecaster{}
	s := newTestServer(&fakeDatastore{}, fc, newFakeSessionStore())

	s.checkAlerts(context.Background())
	assert.Zero(t, fc.trendCalls)
}
