package server

import (
	"encoding/json"
	"net/http"
	"time"

	"agritrack/internal/client"
	"agritrack/internal/model"

	"github.com/pkg/errors"
)

const dateLayout = "2006-01-02"

// writeForecastError maps a forecast client failure onto the uniform
// error shape: transport problems become a generic unavailability
// message, upstream rejections pass the upstream text through.
func (s Server) writeForecastError(w http.ResponseWriter, handlerName string, err error) {
	var fErr *client.ForecastError
	if errors.As(err, &fErr) {
		s.Logger.Debugf("%s: Forecast service rejected request, status: %d, message: %s",
			handlerName, fErr.StatusCode, fErr.Message)
		msg := fErr.Message
		if msg == "" {
			msg = "Prediction failed"
		}
		s.writeErrorResponse(w, msg, http.StatusBadGateway)
		return
	}
	if errors.Is(err, client.ErrForecastUnavailable) {
		s.Logger.Errorf("%s: Forecast service unavailable, err: %v", handlerName, err)
		s.writeErrorResponse(w, "Prediction service unavailable", http.StatusServiceUnavailable)
		return
	}
	s.Logger.Errorf("%s: Error calling forecast service, err: %v", handlerName, err)
	s.writeErrorResponse(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (s Server) predict() http.HandlerFunc {
	type request struct {
		Product string `json:"product"`
		Date    string `json:"date"`
	}
	type response struct {
		PredictedPrice float64 `json:"predicted_price"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("predict: Error decoding JSON, err: %v", err)
			s.writeErrorResponse(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		if !model.ValidCommodity(req.Product) {
			s.Logger.Debugf("predict: Invalid product: %s", req.Product)
			s.writeErrorResponse(w, "Invalid product", http.StatusBadRequest)
			return
		}
		if _, err := time.Parse(dateLayout, req.Date); err != nil {
			s.Logger.Debugf("predict: Invalid date: %s, err: %v", req.Date, err)
			s.writeErrorResponse(w, "Invalid date", http.StatusBadRequest)
			return
		}

		price, err := s.Forecast.ForecastPredict(r.Context(), req.Product, req.Date)
		if err != nil {
			s.writeForecastError(w, "predict", err)
			return
		}
		s.writeJsonResponse(w, response{PredictedPrice: price}, http.StatusOK)
	}
}

func (s Server) priceTrend() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		product := q.Get("product_name")
		fromDate := q.Get("from_date")
		toDate := q.Get("to_date")

		if !model.ValidCommodity(product) {
			s.Logger.Debugf("priceTrend: Invalid product: %s", product)
			s.writeErrorResponse(w, "Invalid product", http.StatusBadRequest)
			return
		}
		from, err := time.Parse(dateLayout, fromDate)
		if err != nil {
			s.Logger.Debugf("priceTrend: Invalid from_date: %s, err: %v", fromDate, err)
			s.writeErrorResponse(w, "Invalid from date", http.StatusBadRequest)
			return
		}
		to, err := time.Parse(dateLayout, toDate)
		if err != nil {
			s.Logger.Debugf("priceTrend: Invalid to_date: %s, err: %v", toDate, err)
			s.writeErrorResponse(w, "Invalid to date", http.StatusBadRequest)
			return
		}
		if to.Before(from) {
			s.Logger.Debugf("priceTrend: to_date %s before from_date %s", toDate, fromDate)
			s.writeErrorResponse(w, "Invalid date range", http.StatusBadRequest)
			return
		}

		pts, err := s.Forecast.ForecastPriceTrend(r.Context(), product, fromDate, toDate)
		if err != nil {
			s.writeForecastError(w, "priceTrend", err)
			return
		}
		if pts == nil {
			pts = []model.PricePoint{}
		}
		s.writeJsonResponse(w, pts, http.StatusOK)
	}
}

func (s Server) productList() http.HandlerFunc {
	type response struct {
		Products []string `json:"products"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJsonResponse(w, response{Products: model.Commodities}, http.StatusOK)
	}
}
