package server

import (
	"context"
	"time"

	"agritrack/internal/model"
)

// CheckAlertsInInterval periodically compares the latest known price of
// every commodity that has alerts against the thresholds users set.
func (s Server) CheckAlertsInInterval(ctx context.Context, ticker *time.Ticker) {
	for range ticker.C {
		s.checkAlerts(ctx)
	}
}

func (s Server) checkAlerts(ctx context.Context) {
	s.Logger.Info("checkAlerts: Starting to check PriceAlerts")
	products, err := s.DB.AlertProducts(ctx)
	if err != nil {
		s.Logger.Errorf("checkAlerts: Error getting products with alerts from DB, err: %v", err)
		return
	}
	s.Logger.Infof("checkAlerts: %d product(s) have active alerts", len(products))

	now := time.Now()
	fromDate := now.AddDate(0, 0, -35).Format(dateLayout)
	toDate := now.Format(dateLayout)

	for _, product := range products {
		time.Sleep(300 * time.Millisecond)

		pts, err := s.Forecast.ForecastPriceTrend(ctx, product, fromDate, toDate)
		if err != nil {
			s.Logger.Errorf("checkAlerts: Error getting price trend for product: %s, err: %v", product, err)
			continue
		}
		if len(pts) == 0 {
			s.Logger.Debugf("checkAlerts: No price data for product: %s", product)
			continue
		}
		latest := pts[len(pts)-1]

		alerts, err := s.DB.AlertsFindByProduct(ctx, product)
		if err != nil {
			s.Logger.Errorf("checkAlerts: Error finding PriceAlerts for product: %s, err: %v", product, err)
			continue
		}

		for _, a := range alerts {
			if !shouldNotify(a, latest.Price) {
				continue
			}
			s.Logger.Infof("checkAlerts: PriceAlert fired, product: %s is now %.2f (threshold %.2f), UserID: %s, AlertID: %s",
				product, latest.Price, a.ThresholdPrice, a.UserID.Hex(), a.ID.Hex())
			if err = s.DB.AlertLastNotifiedUpdate(ctx, a.ID, latest.Price); err != nil {
				s.Logger.Errorf("checkAlerts: Error updating LastNotifiedPrice for AlertID: %s, err: %v", a.ID.Hex(), err)
			}
		}
	}
	s.Logger.Info("checkAlerts: Finished checking PriceAlerts")
}

// shouldNotify fires when the price has crossed below the threshold and
// differs from the price the alert last fired at, so an unchanged price
// does not fire on every check.
func shouldNotify(a model.PriceAlert, price float64) bool {
	return price <= a.ThresholdPrice && price != a.LastNotifiedPrice
}
