package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Request is a broadcast made by one user ("who wants a ride") for others to acknowledge.
type Request struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DateCreated time.Time          `bson:"date_created" json:"date_created"`
	RequestType string             `bson:"request_type" json:"request_type"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Location    interface{}        `bson:"location" json:"location"`
}
