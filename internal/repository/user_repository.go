package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dias221467/presence-tracker/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository handles database operations related to users.
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection(usersCollection),
	}
}

// CreateUser inserts a new user. Unique index violations come back as
// ErrDuplicateUserName, ErrDuplicateEmail or ErrDuplicateToken.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if isDuplicateKeyErr(err) {
			return nil, userDuplicateErr(err)
		}
		logrus.WithError(err).Error("Failed to insert user into database")
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logrus.Error("Failed to cast inserted ID to ObjectID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	user.ID = insertedID

	logrus.WithField("userID", user.ID.Hex()).Info("User inserted successfully")
	return user, nil
}

func userDuplicateErr(err error) error {
	switch duplicateIndex(err, idxUserName, idxEmail, idxToken) {
	case idxEmail:
		return ErrDuplicateEmail
	case idxToken:
		return ErrDuplicateToken
	default:
		return ErrDuplicateUserName
	}
}

// GetUserByUserName retrieves a user by user_name.
func (r *UserRepository) GetUserByUserName(ctx context.Context, userName string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"user_name": userName})
}

// GetUserByToken retrieves the user owning an access token.
func (r *UserRepository) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"token": token})
}

// GetUserByID retrieves a user by their ID.
func (r *UserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		logrus.WithError(err).Warn("Failed to find user")
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// GetUsersByIDs fetches user details for a list of ObjectIDs.
func (r *UserRepository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users by IDs: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// UpdatePresence copies the latest heartbeat onto the user record.
func (r *UserRepository) UpdatePresence(ctx context.Context, id primitive.ObjectID, p models.Presence) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"last_location":  p.Location,
		"last_device_id": p.DeviceID,
		"last_seen":      p.SeenAt,
	}})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"userID": id.Hex(),
			"error":  err,
		}).Error("Failed to update user presence")
		return fmt.Errorf("failed to update user presence: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
