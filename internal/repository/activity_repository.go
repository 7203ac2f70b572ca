package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/presence-tracker/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ActivityRepository struct {
	collection *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{
		collection: db.Collection(activitiesCollection),
	}
}

// CreateActivity appends a heartbeat to the user's history.
func (r *ActivityRepository) CreateActivity(ctx context.Context, activity *models.Activity) error {
	result, err := r.collection.InsertOne(ctx, activity)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert activity")
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		activity.ID = id
	}
	return nil
}

// GetUserActivities fetches the most recent heartbeats of a user, newest first.
func (r *ActivityRepository) GetUserActivities(ctx context.Context, userID primitive.ObjectID, limit int) ([]models.Activity, error) {
	filter := bson.M{"user_id": userID}
	sort := bson.D{{Key: "last_seen", Value: -1}}

	opts := options.Find().SetSort(sort).SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activities: %w", err)
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %w", err)
	}
	return activities, nil
}

// DevicePresenceRepository keeps one current-state document per anonymous device or token.
type DevicePresenceRepository struct {
	collection *mongo.Collection
}

func NewDevicePresenceRepository(db *mongo.Database) *DevicePresenceRepository {
	return &DevicePresenceRepository{
		collection: db.Collection(devicePresenceCollection),
	}
}

// UpsertDevicePresence sets location and last_seen on the document keyed by deviceID, or by
// accessToken when deviceID is empty, inserting it when absent. The bool reports whether a
// new document was written.
func (r *DevicePresenceRepository) UpsertDevicePresence(ctx context.Context, deviceID, accessToken string, location interface{}, seen time.Time) (bool, error) {
	filter := bson.M{"device_id": deviceID}
	if deviceID == "" {
		filter = bson.M{"access_token": accessToken}
	}
	update := bson.M{"$set": bson.M{
		"location":  location,
		"last_seen": seen,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil && isDuplicateKeyErr(err) {
		// Two concurrent upserts raced on the unique index; the loser retries as a plain update.
		result, err = r.collection.UpdateOne(ctx, filter, update)
	}
	if err != nil {
		logrus.WithError(err).Error("Failed to upsert device presence")
		return false, fmt.Errorf("failed to upsert device presence: %w", err)
	}
	return result.UpsertedCount > 0, nil
}
