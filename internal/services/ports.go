package services

import (
	"context"
	"time"

	"github.com/Dias221467/presence-tracker/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The store contracts below are satisfied by the MongoDB repositories and by memstore.
// Implementations report missing documents as repository.ErrNotFound and unique
// violations as the matching repository.ErrDuplicate* sentinel.

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByUserName(ctx context.Context, userName string) (*models.User, error)
	GetUserByToken(ctx context.Context, token string) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	UpdatePresence(ctx context.Context, id primitive.ObjectID, p models.Presence) error
}

type ActivityStore interface {
	CreateActivity(ctx context.Context, activity *models.Activity) error
	GetUserActivities(ctx context.Context, userID primitive.ObjectID, limit int) ([]models.Activity, error)
}

type DevicePresenceStore interface {
	UpsertDevicePresence(ctx context.Context, deviceID, accessToken string, location interface{}, seen time.Time) (bool, error)
}

type RequestStore interface {
	CreateRequest(ctx context.Context, req *models.Request) (*models.Request, error)
	GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.Request, error)
}

type AcknowledgementStore interface {
	CreateAcknowledgement(ctx context.Context, ack *models.Acknowledgement) (*models.Acknowledgement, error)
	GetAcknowledgementsByRequest(ctx context.Context, requestID primitive.ObjectID) ([]models.Acknowledgement, error)
}
