package server

import (
	"encoding/json"
	"net/http"
)

type accountSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (s Server) adminUserList() http.HandlerFunc {
	type response struct {
		Users []accountSummary `json:"users"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		us, err := s.DB.UsersFindAll(r.Context())
		if err != nil {
			s.Logger.Errorf("adminUserList: Error finding all Users, err: %v", err)
			s.writeErrorResponse(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		summaries := make([]accountSummary, 0, len(us))
		for _, u := range us {
			summaries = append(summaries, accountSummary{
				ID:       u.ID.Hex(),
				Username: u.Username,
				Email:    u.Email,
			})
		}
		s.writeJsonResponse(w, response{Users: summaries}, http.StatusOK)
	}
}

func (s Server) adminUserRemove() http.HandlerFunc {
	type request struct {
		UserID string `json:"user_id"`
	}
	type response struct {
		Status  string           `json:"status"`
		Message string           `json:"message"`
		Users   []accountSummary `json:"users"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("adminUserRemove: Error decoding JSON, err: %v", err)
			s.writeErrorResponse(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		deleted, err := s.DB.UserDelete(r.Context(), req.UserID)
		if err != nil {
			if deleted {
				// The account itself is gone, only the alert cleanup
				// failed. Treat the removal as done but log it.
				s.Logger.Errorf("adminUserRemove: User removed but alert cleanup failed for UserID: %s, err: %v",
					req.UserID, err)
			} else {
				s.Logger.Debugf("adminUserRemove: Error deleting User with ID: %s, err: %v", req.UserID, err)
				s.writeErrorResponse(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}
		}
		if !deleted {
			s.Logger.Debugf("adminUserRemove: User with ID: %s not found", req.UserID)
			s.writeJsonResponse(w, response{
				Status:  "danger",
				Message: "User not found",
			}, http.StatusNotFound)
			return
		}

		// The refreshed listing rides along so the directory view
		// reflects the removal within the same request.
		us, err := s.DB.UsersFindAll(r.Context())
		if err != nil {
			s.Logger.Errorf("adminUserRemove: Error refreshing User listing, err: %v", err)
			s.writeJsonResponse(w, response{
				Status:  "success",
				Message: "User deleted successfully",
			}, http.StatusOK)
			return
		}
		summaries := make([]accountSummary, 0, len(us))
		for _, u := range us {
			summaries = append(summaries, accountSummary{
				ID:       u.ID.Hex(),
				Username: u.Username,
				Email:    u.Email,
			})
		}
		s.writeJsonResponse(w, response{
			Status:  "success",
			Message: "User deleted successfully",
			Users:   summaries,
		}, http.StatusOK)
	}
}
