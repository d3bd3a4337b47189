package model

// PricePoint is one entry of a historical price series, as returned by
// the forecasting service's price trend endpoint.
type PricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}
