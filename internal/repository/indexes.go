package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection           = "users"
	activitiesCollection      = "activities"
	devicePresenceCollection  = "device_presence"
	requestsCollection        = "requests"
	acknowledgementCollection = "acknowledgements"

	idxUserName       = "user_name_unique"
	idxEmail          = "email_unique"
	idxToken          = "token_unique"
	idxDeviceID       = "device_id_unique"
	idxAccessToken    = "access_token_unique"
	idxAckRequestUser = "request_user_unique"
)

// IndexModels lists the indexes each collection needs. The unique ones back every
// uniqueness rule of the service; writes rely on them instead of read-then-insert checks.
func IndexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "user_name", Value: 1}}, Options: options.Index().SetName(idxUserName).SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName(idxEmail).SetUnique(true)},
			{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetName(idxToken).SetUnique(true)},
		},
		activitiesCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "last_seen", Value: -1}}, Options: options.Index().SetName("user_last_seen")},
		},
		devicePresenceCollection: {
			{
				Keys: bson.D{{Key: "device_id", Value: 1}},
				Options: options.Index().SetName(idxDeviceID).SetUnique(true).
					SetPartialFilterExpression(bson.M{"device_id": bson.M{"$exists": true}}),
			},
			{
				Keys: bson.D{{Key: "access_token", Value: 1}},
				Options: options.Index().SetName(idxAccessToken).SetUnique(true).
					SetPartialFilterExpression(bson.M{"access_token": bson.M{"$exists": true}}),
			},
		},
		requestsCollection: {
			{Keys: bson.D{{Key: "date_created", Value: -1}}, Options: options.Index().SetName("date_created_desc")},
		},
		acknowledgementCollection: {
			{
				Keys:    bson.D{{Key: "request_id", Value: 1}, {Key: "user_id", Value: 1}},
				Options: options.Index().SetName(idxAckRequestUser).SetUnique(true),
			},
		},
	}
}

// EnsureIndexes is called at startup and is idempotent. Errors are aggregated so every
// problem is visible and startup can fail fast.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	var problems []string

	for coll, models := range IndexModels() {
		names, err := db.Collection(coll).Indexes().CreateMany(ctx, models)
		if err != nil {
			logrus.WithError(err).WithField("collection", coll).Error("Failed to ensure indexes")
			problems = append(problems, coll+": "+err.Error())
			continue
		}
		logrus.WithFields(logrus.Fields{
			"collection": coll,
			"indexes":    names,
		}).Info("Indexes ensured")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
