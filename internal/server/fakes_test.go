package server

import (
	"context"
	"fmt"
	"io"
	"time"

	applog "agritrack/internal/logger"
	"agritrack/internal/model"
	"agritrack/internal/session"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// fakeDatastore is an in-memory Datastore keeping insertion order, so
// handler tests run without a live Mongo instance.
type fakeDatastore struct {
	users  []model.User
	alerts []model.PriceAlert
}

func (f *fakeDatastore) UserInsert(_ context.Context, u model.User) (string, error) {
	for _, e := range f.users {
		if e.Email == u.Email || e.Username == u.Username {
			return "", mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
		}
	}
	u.ID = primitive.NewObjectID()
	f.users = append(f.users, u)
	return u.ID.Hex(), nil
}

func (f *fakeDatastore) UserFindByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, errors.Wrapf(mongo.ErrNoDocuments, "error finding User with email: %s", email)
}

func (f *fakeDatastore) UserFindByID(_ context.Context, id string) (model.User, error) {
	for _, u := range f.users {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return model.User{}, errors.Wrapf(mongo.ErrNoDocuments, "error finding User with ID: %s", id)
}

func (f *fakeDatastore) UserCredentialUpdate(_ context.Context, userID primitive.ObjectID, cred model.Credential) error {
	for i, u := range f.users {
		if u.ID == userID {
			f.users[i].Credential = cred
			return nil
		}
	}
	return errors.New("no documents modified")
}

func (f *fakeDatastore) UsersFindAll(_ context.Context) ([]model.User, error) {
	return append([]model.User{}, f.users...), nil
}

func (f *fakeDatastore) UserDelete(_ context.Context, userID string) (bool, error) {
	for i, u := range f.users {
		if u.ID.Hex() == userID {
			objID := u.ID
			f.users = append(f.users[:i], f.users[i+1:]...)
			kept := f.alerts[:0]
			for _, a := range f.alerts {
				if a.UserID != objID {
					kept = append(kept, a)
				}
			}
			f.alerts = kept
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDatastore) AlertUpsert(_ context.Context, userID primitive.ObjectID, product string, threshold float64) (bool, error) {
	for i, a := range f.alerts {
		if a.UserID == userID && a.ProductName == product {
			f.alerts[i].ThresholdPrice = threshold
			return false, nil
		}
	}
	f.alerts = append(f.alerts, model.PriceAlert{
		ID:             primitive.NewObjectID(),
		UserID:         userID,
		ProductName:    product,
		ThresholdPrice: threshold,
	})
	return true, nil
}

func (f *fakeDatastore) AlertDelete(_ context.Context, userID primitive.ObjectID, alertID string) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(alertID)
	if err != nil {
		return false, errors.Wrapf(err, "error creating ObjectID from hex: %s", alertID)
	}
	for i, a := range f.alerts {
		if a.ID == objID && a.UserID == userID {
			f.alerts = append(f.alerts[:i], f.alerts[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDatastore) AlertsFindByUser(_ context.Context, userID primitive.ObjectID) ([]model.PriceAlert, error) {
	var as []model.PriceAlert
	for _, a := range f.alerts {
		if a.UserID == userID {
			as = append(as, a)
		}
	}
	return as, nil
}

func (f *fakeDatastore) AlertsFindByProduct(_ context.Context, product string) ([]model.PriceAlert, error) {
	var as []model.PriceAlert
	for _, a := range f.alerts {
		if a.ProductName == product {
			as = append(as, a)
		}
	}
	return as, nil
}

func (f *fakeDatastore) AlertProducts(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var ps []string
	for _, a := range f.alerts {
		if !seen[a.ProductName] {
			seen[a.ProductName] = true
			ps = append(ps, a.ProductName)
		}
	}
	return ps, nil
}

func (f *fakeDatastore) AlertLastNotifiedUpdate(_ context.Context, alertID primitive.ObjectID, price float64) error {
	for i, a := range f.alerts {
		if a.ID == alertID {
			f.alerts[i].LastNotifiedPrice = price
			return nil
		}
	}
	return errors.New("no documents modified")
}

type fakeSessionStore struct {
	sessions map[string]session.Session
	counter  int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]session.Session{}}
}

func (f *fakeSessionStore) Create(_ context.Context, sess session.Session) (string, error) {
	f.counter++
	token := fmt.Sprintf("token-%d", f.counter)
	f.sessions[token] = sess
	return token, nil
}

func (f *fakeSessionStore) Get(_ context.Context, token string) (session.Session, error) {
	sess, ok := f.sessions[token]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	return sess, nil
}

func (f *fakeSessionStore) Destroy(_ context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

type fakeForecaster struct {
	price      float64
	predictErr error
	trend      []model.PricePoint
	trendErr   error

	predictCalls int
	trendCalls   int
}

func (f *fakeForecaster) ForecastPredict(_ context.Context, _ string, _ string) (float64, error) {
	f.predictCalls++
	if f.predictErr != nil {
		return 0, f.predictErr
	}
	return f.price, nil
}

func (f *fakeForecaster) ForecastPriceTrend(_ context.Context, _ string, _ string, _ string) ([]model.PricePoint, error) {
	f.trendCalls++
	if f.trendErr != nil {
		return nil, f.trendErr
	}
	return f.trend, nil
}

func newTestServer(db *fakeDatastore, fc *fakeForecaster, ss *fakeSessionStore) Server {
	return Server{
		DB:         db,
		Forecast:   fc,
		Sessions:   ss,
		Logger:     applog.NewLogger(applog.LevelOff, io.Discard),
		SessionTTL: 30 * time.Minute,
	}
}
