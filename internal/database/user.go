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

func (db Database) UserInsert(ctx context.Context, u model.User) (id string, err error) {
	u.CreatedAt = primitive.NewDateTimeFromTime(time.Now())
	u.UpdatedAt = primitive.NewDateTimeFromTime(time.Now())

	r, err := db.Collection(CollectionUsers).InsertOne(ctx, u)
	if err != nil {
		return "", errors.Wrapf(err, "error inserting User with email: %s", u.Email)
	}
	return r.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (db Database) UserFindByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := db.Collection(CollectionUsers).FindOne(ctx, bson.M{"email": email}).Decode(&u)
	return u, errors.Wrapf(err, "error finding User with email: %s", email)
}

func (db Database) UserFindByID(ctx context.Context, id string) (model.User, error) {
	var u model.User

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return u, errors.Wrapf(err, "error creating ObjectID from hex: %s", id)
	}

	err = db.Collection(CollectionUsers).FindOne(ctx, bson.M{"_id": objID}).Decode(&u)
	return u, errors.Wrapf(err, "error finding User with ID: %s", id)
}

// UserCredentialUpdate replaces a User's stored Credential, used to
// migrate legacy plaintext records to bcrypt after a successful login.
func (db Database) UserCredentialUpdate(ctx context.Context, userID primitive.ObjectID, cred model.Credential) error {
	res, err := db.Collection(CollectionUsers).UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{
			"credential": cred,
			"updated_at": primitive.NewDateTimeFromTime(time.Now()),
		}},
	)
	if err != nil {
		return errors.Wrapf(err, "error updating Credential for User with ID: %s", userID.Hex())
	}
	if res.ModifiedCount == 0 {
		return errors.Wrapf(ErrNoDocumentsModified, "updating Credential for User with ID: %s", userID.Hex())
	}
	return nil
}

func (db Database) UsersFindAll(ctx context.Context) ([]model.User, error) {
	var us []model.User
	cur, err := db.Collection(CollectionUsers).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "error getting cursor to find all Users")
	}
	if err = cur.All(ctx, &us); err != nil {
		return nil, errors.Wrap(err, "error getting all Users from cursor")
	}
	return us, nil
}

// UserDelete removes a User and all of their PriceAlerts. Returns
// (false, nil) when no User with the given ID exists.
func (db Database) UserDelete(ctx context.Context, userID string) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, errors.Wrapf(err, "error creating ObjectID from hex: %s", userID)
	}

	res, err := db.Collection(CollectionUsers).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return false, errors.Wrapf(err, "error deleting User with ID: %s", userID)
	}
	if res.DeletedCount == 0 {
		return false, nil
	}

	if _, err = db.Collection(CollectionPriceAlerts).DeleteMany(ctx, bson.M{"user_id": objID}); err != nil {
		return true, errors.Wrapf(err, "error deleting PriceAlerts of removed User with ID: %s", userID)
	}
	return true, nil
}
