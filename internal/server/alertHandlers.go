package server

import (
	"encoding/json"
	"math"
	"net/http"

	"agritrack/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s Server) alertSet() http.HandlerFunc {
	type request struct {
		Product string  `json:"product"`
		Price   float64 `json:"price"`
	}
	type response struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		uc, err := getUserContext(r.Context())
		if err != nil {
			s.Logger.Errorf("alertSet: Error getting userContext, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("alertSet: Error decoding JSON, err: %v", err)
			s.writeErrorResponse(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		if !model.ValidCommodity(req.Product) {
			s.Logger.Debugf("alertSet: Invalid product: %s, UserID: %s", req.Product, uc.sess.UserID)
			s.writeErrorResponse(w, "Invalid product", http.StatusBadRequest)
			return
		}
		if req.Price <= 0 || math.IsInf(req.Price, 0) || math.IsNaN(req.Price) {
			s.Logger.Debugf("alertSet: Invalid threshold price: %v, UserID: %s", req.Price, uc.sess.UserID)
			s.writeErrorResponse(w, "Invalid threshold price", http.StatusBadRequest)
			return
		}

		userID, err := primitive.ObjectIDFromHex(uc.sess.UserID)
		if err != nil {
			s.Logger.Errorf("alertSet: Error creating ObjectID from hex: %s, err: %v", uc.sess.UserID, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		created, err := s.DB.AlertUpsert(r.Context(), userID, req.Product, req.Price)
		if err != nil {
			s.Logger.Errorf("alertSet: Error upserting PriceAlert for UserID: %s, product: %s, err: %v",
				uc.sess.UserID, req.Product, err)
			s.writeErrorResponse(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		if created {
			s.writeJsonResponse(w, response{Status: "created", Message: "Alert set successfully!"}, http.StatusCreated)
		} else {
			s.writeJsonResponse(w, response{Status: "updated", Message: "Alert updated successfully!"}, http.StatusOK)
		}
	}
}

func (s Server) alertRemove() http.HandlerFunc {
	type request struct {
		AlertID string `json:"alert_id"`
	}
	type response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		uc, err := getUserContext(r.Context())
		if err != nil {
			s.Logger.Errorf("alertRemove: Error getting userContext, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("alertRemove: Error decoding JSON, err: %v", err)
			s.writeErrorResponse(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		userID, err := primitive.ObjectIDFromHex(uc.sess.UserID)
		if err != nil {
			s.Logger.Errorf("alertRemove: Error creating ObjectID from hex: %s, err: %v", uc.sess.UserID, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		// Ownership is part of the delete predicate; an alert belonging
		// to another account looks exactly like a missing one.
		deleted, err := s.DB.AlertDelete(r.Context(), userID, req.AlertID)
		if err != nil {
			s.Logger.Debugf("alertRemove: Error deleting PriceAlert with ID: %s for UserID: %s, err: %v",
				req.AlertID, uc.sess.UserID, err)
			s.writeErrorResponse(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if !deleted {
			s.Logger.Debugf("alertRemove: PriceAlert with ID: %s not found for UserID: %s", req.AlertID, uc.sess.UserID)
			s.writeErrorResponse(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		s.writeJsonResponse(w, response{Success: true, Message: "Alert deleted successfully!"}, http.StatusOK)
	}
}

func (s Server) alertList() http.HandlerFunc {
	type response struct {
		Alerts []model.PriceAlert `json:"alerts"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		uc, err := getUserContext(r.Context())
		if err != nil {
			s.Logger.Errorf("alertList: Error getting userContext, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		userID, err := primitive.ObjectIDFromHex(uc.sess.UserID)
		if err != nil {
			s.Logger.Errorf("alertList: Error creating ObjectID from hex: %s, err: %v", uc.sess.UserID, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		alerts, err := s.DB.AlertsFindByUser(r.Context(), userID)
		if err != nil {
			s.Logger.Errorf("alertList: Error finding PriceAlerts for UserID: %s, err: %v", uc.sess.UserID, err)
			s.writeErrorResponse(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if alerts == nil {
			alerts = []model.PriceAlert{}
		}
		s.writeJsonResponse(w, response{Alerts: alerts}, http.StatusOK)
	}
}
