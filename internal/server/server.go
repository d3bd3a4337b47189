package server

import (
	"context"
	"time"

	"agritrack/internal/model"
	"agritrack/internal/session"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Server struct {
	DB           Datastore
	Forecast     Forecaster
	Sessions     SessionStore
	Logger       logger
	SessionTTL   time.Duration
	SecureCookie bool
}

// Datastore is the slice of the database layer the handlers use.
type Datastore interface {
	UserInsert(ctx context.Context, u model.User) (string, error)
	UserFindByEmail(ctx context.Context, email string) (model.User, error)
	UserFindByID(ctx context.Context, id string) (model.User, error)
	UserCredentialUpdate(ctx context.Context, userID primitive.ObjectID, cred model.Credential) error
	UsersFindAll(ctx context.Context) ([]model.User, error)
	UserDelete(ctx context.Context, userID string) (bool, error)

	AlertUpsert(ctx context.Context, userID primitive.ObjectID, product string, threshold float64) (bool, error)
	AlertDelete(ctx context.Context, userID primitive.ObjectID, alertID string) (bool, error)
	AlertsFindByUser(ctx context.Context, userID primitive.ObjectID) ([]model.PriceAlert, error)
	AlertsFindByProduct(ctx context.Context, product string) ([]model.PriceAlert, error)
	AlertProducts(ctx context.Context) ([]string, error)
	AlertLastNotifiedUpdate(ctx context.Context, alertID primitive.ObjectID, price float64) error
}

type Forecaster interface {
	ForecastPredict(ctx context.Context, product string, date string) (float64, error)
	ForecastPriceTrend(ctx context.Context, product string, fromDate string, toDate string) ([]model.PricePoint, error)
}

type SessionStore interface {
	Create(ctx context.Context, sess session.Session) (string, error)
	Get(ctx context.Context, token string) (session.Session, error)
	Destroy(ctx context.Context, token string) error
}

type logger interface {
	Debug(v ...any)
	Info(v ...any)
	Error(v ...any)
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Errorf(format string, v ...any)
}
