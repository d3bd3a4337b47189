package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.loggingMw, s.maxBytesMw)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/user/register", s.userRegister()).Methods(http.MethodPost)
	api.HandleFunc("/user/login", s.userLogin()).Methods(http.MethodPost)

	userAPI := api.PathPrefix("/user").Subrouter()
	userAPI.Use(s.authMw)
	userAPI.HandleFunc("/logout", s.userLogout()).Methods(http.MethodPost)
	userAPI.HandleFunc("/info", s.userInfo()).Methods(http.MethodGet)
	userAPI.PathPrefix("").Handler(http.NotFoundHandler())

	alertAPI := api.PathPrefix("/alert").Subrouter()
	alertAPI.Use(s.authMw)
	alertAPI.HandleFunc("/set", s.alertSet()).Methods(http.MethodPost)
	alertAPI.HandleFunc("/remove", s.alertRemove()).Methods(http.MethodPost)
	alertAPI.HandleFunc("/get", s.alertList()).Methods(http.MethodGet)
	alertAPI.PathPrefix("").Handler(http.NotFoundHandler())

	marketAPI := api.PathPrefix("/market").Subrouter()
	marketAPI.Use(s.authMw)
	marketAPI.HandleFunc("/predict", s.predict()).Methods(http.MethodPost)
	marketAPI.HandleFunc("/trend", s.priceTrend()).Methods(http.MethodGet)
	marketAPI.HandleFunc("/products", s.productList()).Methods(http.MethodGet)
	marketAPI.PathPrefix("").Handler(http.NotFoundHandler())

	adminAPI := api.PathPrefix("/admin").Subrouter()
	adminAPI.Use(s.authMw, s.adminMw)
	adminAPI.HandleFunc("/user", s.adminUserList()).Methods(http.MethodGet)
	adminAPI.HandleFunc("/user/remove", s.adminUserRemove()).Methods(http.MethodPost)
	adminAPI.PathPrefix("").Handler(http.NotFoundHandler())

	return r
}
