package server

import (
	"encoding/json"
	"net/http"
	"net/mail"

	"agritrack/internal/model"
	"agritrack/internal/session"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	redirectDashboard = "/dashboard"
	redirectAdmin     = "/admin"
	redirectLogin     = "/login"
)

// redirectForRole maps a role to its post-login destination.
func redirectForRole(role model.Role) string {
	if role == model.RoleAdmin {
		return redirectAdmin
	}
	return redirectDashboard
}

func (s Server) userRegister() http.HandlerFunc {
	type request struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	type response struct {
		Status string `json:"status"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("userRegister: Error decoding JSON, err: %v", err)
			s.writeErrorResponse(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if req.Username == "" || req.Password == "" {
			s.Logger.Debug("userRegister: Empty username or password")
			s.writeErrorResponse(w, "Username and password are required", http.StatusBadRequest)
			return
		}
		if _, err := mail.ParseAddress(req.Email); err != nil {
			s.Logger.Debugf("userRegister: Invalid email, err: %v", err)
			s.writeErrorResponse(w, "Invalid email", http.StatusBadRequest)
			return
		}

		cred, err := model.NewHashedCredential([]byte(req.Password))
		if err != nil {
			s.Logger.Errorf("userRegister: Error hashing password, err: %v", err)
			s.writeErrorResponse(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		u := model.User{
			Username:   req.Username,
			Email:      req.Email,
			Credential: cred,
			Role:       model.RoleUser,
		}
		if _, err := s.DB.UserInsert(r.Context(), u); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				s.Logger.Debugf("userRegister: Error duplicate key when inserting User, err: %v", err)
				s.writeErrorResponse(w, "Username or email already taken", http.StatusUnprocessableEntity)
				return
			}
			s.Logger.Errorf("userRegister: Error inserting User, err: %v", err)
			s.writeErrorResponse(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeJsonResponse(w, response{Status: "success"}, http.StatusCreated)
	}
}

func (s Server) userLogin() http.HandlerFunc {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	type response struct {
		Status   string `json:"status"`
		Redirect string `json:"redirect,omitempty"`
		Message  string `json:"message,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("userLogin: Error decoding JSON, err: %v", err)
			s.writeJsonResponse(w, response{Status: "error", Message: http.StatusText(http.StatusBadRequest)}, http.StatusBadRequest)
			return
		}
		if req.Email == "" || req.Password == "" {
			s.writeJsonResponse(w, response{Status: "error", Message: "Email and password are required"}, http.StatusBadRequest)
			return
		}

		// A missing account and a wrong password produce the same
		// response; the distinction only exists in the debug log.
		u, err := s.DB.UserFindByEmail(r.Context(), req.Email)
		if err != nil {
			s.Logger.Debugf("userLogin: Error finding User, err: %v", err)
			s.writeJsonResponse(w, response{Status: "error", Message: "Invalid email or password"}, http.StatusUnauthorized)
			return
		}
		if err = u.Credential.Verify([]byte(req.Password)); err != nil {
			s.Logger.Debugf("userLogin: Credential mismatch for User with email: %s, err: %v", u.Email, err)
			s.writeJsonResponse(w, response{Status: "error", Message: "Invalid email or password"}, http.StatusUnauthorized)
			return
		}

		// Legacy plaintext records are migrated to bcrypt on their first
		// successful login. The login itself does not fail if the
		// migration write does.
		if u.Credential.Format == model.FormatPlain {
			if cred, err := model.NewHashedCredential([]byte(req.Password)); err != nil {
				s.Logger.Errorf("userLogin: Error re-hashing legacy credential for UserID: %s, err: %v", u.ID.Hex(), err)
			} else if err = s.DB.UserCredentialUpdate(r.Context(), u.ID, cred); err != nil {
				s.Logger.Errorf("userLogin: Error migrating legacy credential for UserID: %s, err: %v", u.ID.Hex(), err)
			} else {
				s.Logger.Infof("userLogin: Migrated legacy credential to bcrypt for UserID: %s", u.ID.Hex())
			}
		}

		token, err := s.Sessions.Create(r.Context(), session.Session{
			UserID:   u.ID.Hex(),
			Username: u.Username,
			Email:    u.Email,
			Role:     u.Role,
		})
		if err != nil {
			s.Logger.Errorf("userLogin: Error creating Session for UserID: %s, err: %v", u.ID.Hex(), err)
			s.writeJsonResponse(w, response{Status: "error", Message: http.StatusText(http.StatusInternalServerError)}, http.StatusInternalServerError)
			return
		}

		s.setSessionCookie(w, token)
		s.writeJsonResponse(w, response{
			Status:   "success",
			Redirect: redirectForRole(u.Role),
		}, http.StatusOK)
	}
}

func (s Server) userLogout() http.HandlerFunc {
	type response struct {
		Success  bool   `json:"success"`
		Redirect string `json:"redirect"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		uc, err := getUserContext(r.Context())
		if err != nil {
			s.Logger.Errorf("userLogout: Error getting userContext, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		if err = s.Sessions.Destroy(r.Context(), uc.token); err != nil {
			s.Logger.Errorf("userLogout: Error destroying Session for UserID: %s, err: %v", uc.sess.UserID, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.clearSessionCookie(w)
		s.writeJsonResponse(w, response{Success: true, Redirect: redirectLogin}, http.StatusOK)
	}
}

func (s Server) userInfo() http.HandlerFunc {
	type response struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		uc, err := getUserContext(r.Context())
		if err != nil {
			s.Logger.Errorf("userInfo: Error getting userContext, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeJsonResponse(w, response{
			Username: uc.sess.Username,
			Email:    uc.sess.Email,
			Role:     string(uc.sess.Role),
		}, http.StatusOK)
	}
}
