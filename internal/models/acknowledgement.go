package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Acknowledgement records that a user responded to a request. At most one per (request, user).
type Acknowledgement struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequestID primitive.ObjectID `bson:"request_id" json:"request_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// AcknowledgementView is one row of the acknowledgement listing for a request.
type AcknowledgementView struct {
	UserID         primitive.ObjectID `json:"user_id"`
	UserName       string             `json:"user_name"`
	AcknowledgedAt time.Time          `json:"acknowledged_at"`
	LastLocation   interface{}        `json:"last_location"`
}
