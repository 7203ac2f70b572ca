package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account together with its last known presence.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserName       string             `bson:"user_name" json:"user_name"`
	Email          string             `bson:"email" json:"email"`
	HashedPassword string             `bson:"password" json:"-"`
	Token          string             `bson:"token" json:"-"`
	LastLocation   interface{}        `bson:"last_location,omitempty" json:"last_location,omitempty"`
	LastDeviceID   string             `bson:"last_device_id,omitempty" json:"last_device_id,omitempty"`
	LastSeen       *time.Time         `bson:"last_seen,omitempty" json:"last_seen,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

// Presence is the denormalized "current state" copied onto a user by each heartbeat.
type Presence struct {
	Location interface{}
	DeviceID string
	SeenAt   time.Time
}

// Credentials is what register and login hand back to the caller.
type Credentials struct {
	UserName string `json:"user_name"`
	Token    string `json:"token"`
}
