package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// PriceAlert is a user's threshold for one commodity. At most one alert
// exists per (UserID, ProductName) pair, enforced by a unique index.
type PriceAlert struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID `bson:"user_id" json:"-"`
	ProductName       string             `bson:"product_name" json:"product_name"`
	ThresholdPrice    float64            `bson:"threshold_price" json:"threshold_price"`
	LastNotifiedPrice float64            `bson:"last_notified_price" json:"-"`
	CreatedAt         primitive.DateTime `bson:"created_at" json:"-"`
	UpdatedAt         primitive.DateTime `bson:"updated_at" json:"-"`
}
