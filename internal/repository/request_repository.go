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

type RequestRepository struct {
	collection *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{
		collection: db.Collection(requestsCollection),
	}
}

func (r *RequestRepository) CreateRequest(ctx context.Context, req *models.Request) (*models.Request, error) {
	req.DateCreated = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, req)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert request")
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	req.ID = insertedID

	return req, nil
}

func (r *RequestRepository) GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.Request, error) {
	var req models.Request
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find request: %w", err)
	}
	return &req, nil
}

type AcknowledgementRepository struct {
	collection *mongo.Collection
}

func NewAcknowledgementRepository(db *mongo.Database) *AcknowledgementRepository {
	return &AcknowledgementRepository{
		collection: db.Collection(acknowledgementCollection),
	}
}

// CreateAcknowledgement inserts an acknowledgement; a second one for the same
// (request, user) pair fails with ErrDuplicateAcknowledgement.
func (r *AcknowledgementRepository) CreateAcknowledgement(ctx context.Context, ack *models.Acknowledgement) (*models.Acknowledgement, error) {
	ack.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, ack)
	if err != nil {
		if isDuplicateKeyErr(err) {
			return nil, ErrDuplicateAcknowledgement
		}
		logrus.WithError(err).Error("Failed to insert acknowledgement")
		return nil, fmt.Errorf("failed to create acknowledgement: %w", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	ack.ID = insertedID

	return ack, nil
}

func (r *AcknowledgementRepository) GetAcknowledgementsByRequest(ctx context.Context, requestID primitive.ObjectID) ([]models.Acknowledgement, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"request_id": requestID})
	if err != nil {
		return nil, fmt.Errorf("failed to find acknowledgements: %w", err)
	}
	defer cursor.Close(ctx)

	var acks []models.Acknowledgement
	for cursor.Next(ctx) {
		var ack models.Acknowledgement
		if err := cursor.Decode(&ack); err != nil {
			return nil, err
		}
		acks = append(acks, ack)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate acknowledgements: %w", err)
	}

	return acks, nil
}
