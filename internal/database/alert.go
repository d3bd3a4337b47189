package database

import (
	"context"
	"time"

	"agritrack/internal/model"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AlertUpsert sets the threshold for (userID, product) in a single
// conditional write. The unique index on (user_id, product_name)
// guarantees at most one alert per pair even under concurrent
// submissions. Returns true when a new alert was created.
func (db Database) AlertUpsert(ctx context.Context, userID primitive.ObjectID, product string, threshold float64) (created bool, err error) {
	now := primitive.NewDateTimeFromTime(time.Now())
	res, err := db.Collection(CollectionPriceAlerts).UpdateOne(
		ctx,
		bson.M{
			"user_id":      userID,
			"product_name": product,
		},
		bson.M{
			"$set": bson.M{
				"threshold_price": threshold,
				"updated_at":      now,
			},
			"$setOnInsert": bson.M{
				"user_id":      userID,
				"product_name": product,
				"created_at":   now,
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, errors.Wrapf(err, "error upserting PriceAlert for UserID: %s, product: %s", userID.Hex(), product)
	}
	return res.UpsertedCount > 0, nil
}

// AlertDelete removes an alert only when it belongs to userID. The
// owner is part of the delete predicate, so an alertID owned by another
// account yields (false, nil) without touching the alert.
func (db Database) AlertDelete(ctx context.Context, userID primitive.ObjectID, alertID string) (deleted bool, err error) {
	objID, err := primitive.ObjectIDFromHex(alertID)
	if err != nil {
		return false, errors.Wrapf(err, "error creating ObjectID from hex: %s", alertID)
	}

	res, err := db.Collection(CollectionPriceAlerts).DeleteOne(ctx, bson.M{
		"_id":     objID,
		"user_id": userID,
	})
	if err != nil {
		return false, errors.Wrapf(err, "error deleting PriceAlert with ID: %s for UserID: %s", alertID, userID.Hex())
	}
	return res.DeletedCount > 0, nil
}

func (db Database) AlertsFindByUser(ctx context.Context, userID primitive.ObjectID) ([]model.PriceAlert, error) {
	var as []model.PriceAlert
	cur, err := db.Collection(CollectionPriceAlerts).Find(
		ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "error getting cursor to find PriceAlerts for UserID: %s", userID.Hex())
	}
	if err = cur.All(ctx, &as); err != nil {
		return nil, errors.Wrapf(err, "error getting PriceAlerts from cursor for UserID: %s", userID.Hex())
	}
	return as, nil
}

func (db Database) AlertsFindByProduct(ctx context.Context, product string) ([]model.PriceAlert, error) {
	var as []model.PriceAlert
	cur, err := db.Collection(CollectionPriceAlerts).Find(ctx, bson.M{"product_name": product})
	if err != nil {
		return nil, errors.Wrapf(err, "error getting cursor to find PriceAlerts for product: %s", product)
	}
	if err = cur.All(ctx, &as); err != nil {
		return nil, errors.Wrapf(err, "error getting PriceAlerts from cursor for product: %s", product)
	}
	return as, nil
}

// AlertProducts returns the distinct products that have at least one alert.
func (db Database) AlertProducts(ctx context.Context) ([]string, error) {
	vals, err := db.Collection(CollectionPriceAlerts).Distinct(ctx, "product_name", bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "error getting distinct PriceAlert products")
	}
	ps := make([]string, 0, len(vals))
	for _, v := range vals {
		if p, ok := v.(string); ok {
			ps = append(ps, p)
		}
	}
	return ps, nil
}

// AlertLastNotifiedUpdate records the price an alert last fired at so a
// price that stays below the threshold does not re-fire every check.
func (db Database) AlertLastNotifiedUpdate(ctx context.Context, alertID primitive.ObjectID, price float64) error {
	res, err := db.Collection(CollectionPriceAlerts).UpdateOne(
		ctx,
		bson.M{"_id": alertID},
		bson.M{"$set": bson.M{
			"last_notified_price": price,
			"updated_at":          primitive.NewDateTimeFromTime(time.Now()),
		}},
	)
	if err != nil {
		return errors.Wrapf(err, "error updating LastNotifiedPrice for PriceAlert with ID: %s", alertID.Hex())
	}
	if res.ModifiedCount == 0 {
		return errors.Wrapf(ErrNoDocumentsModified, "updating LastNotifiedPrice for PriceAlert with ID: %s", alertID.Hex())
	}
	return nil
}
