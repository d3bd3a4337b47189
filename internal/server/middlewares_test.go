package server

import (
	"net/http"
	"testing"

	"agritrack/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtectedRoutesRequireSession(t *testing.T) {
	db := &fakeDatastore{}
	fc := &fakeForecaster{}
	s := newTestServer(db, fc, newFakeSessionStore())
	seedUser(t, db, "a@b.com", "secret", model.FormatHashed, model.RoleUser)

	cases := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/api/alert/set", `{"product":"Onion","price":30}`},
		{http.MethodPost, "/api/alert/remove", `{"alert_id":"62a000000000000000000000"}`},
		{http.MethodGet, "/api/alert/get", ""},
		{http.MethodPost, "/api/market/predict", `{"product":"Onion","date":"2024-05-01"}`},
		{http.MethodGet, "/api/market/trend?product_name=Onion&from_date=2024-01-01&to_date=2024-02-01", ""},
		{http.MethodPost, "/api/user/logout", ""},
		{http.MethodGet, "/api/admin/user", ""},
		{http.MethodPost, "/api/admin/user/remove", `{"user_id":"62a000000000000000000000"}`},
	}
	for _, c := range cases {
		// No cookie at all.
		w := doJSON(t, s.Router(), c.method, c.path, c.body, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", c.method, c.path)
		assert.Contains(t, w.Body.String(), `"/login"`, "%s %s", c.method, c.path)

		// A cookie that maps to no live session.
		w = doJSON(t, s.Router(), c.method, c.path, c.body, "stale-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", c.method, c.path)
	}

	// Nothing was mutated and no upstream call was made.
	assert.Len(t, db.users, 1)
	assert.Empty(t, db.alerts)
	assert.Zero(t, fc.predictCalls)
	assert.Zero(t, fc.trendCalls)
}

func TestAdminRoutesForbiddenForUserRole(t *testing.T) {
	db := &fakeDatastore{}
	s := newTestServer(db, &fakeForecaster{}, newFakeSessionStore())
	seedUser(t, db, "a@b.com", "secret", model.FormatHashed, model.RoleUser)
	victim := seedUser(t, db, "victim@b.com", "secret", model.FormatHashed, model.RoleUser)
	token := loginAs(t, s, "a@b.com")

	w := doJSON(t, s.Router(), http.MethodGet, "/api/admin/user", "", token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, s.Router(), http.MethodPost, "/api/admin/user/remove",
		`{"user_id":"`+victim.ID.Hex()+`"}`, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The victim account is untouched.
	require.Len(t, db.users, 2)
}

func TestExpiredSessionClearsCookie(t *testing.T) {
	db := &fakeDatastore{}
	s := newTestServer(db, &fakeForecaster{}, newFakeSessionStore())

	w := doJSON(t, s.Router(), http.MethodGet, "/api/alert/get", "", "stale-token")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
