package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity is one stored heartbeat of an authenticated user. Every heartbeat appends a new one.
type Activity struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	AccessToken string             `bson:"access_token,omitempty" json:"-"`
	DeviceID    string             `bson:"device_id,omitempty" json:"device_id,omitempty"`
	Location    interface{}        `bson:"location" json:"location"`
	LastSeen    time.Time          `bson:"last_seen" json:"last_seen"`
}

// DevicePresence is the single current-state record kept for an anonymous device or access token.
type DevicePresence struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DeviceID    string             `bson:"device_id,omitempty" json:"device_id,omitempty"`
	AccessToken string             `bson:"access_token,omitempty" json:"-"`
	Location    interface{}        `bson:"location" json:"location"`
	LastSeen    time.Time          `bson:"last_seen" json:"last_seen"`
}
