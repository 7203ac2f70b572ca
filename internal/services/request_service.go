package services

import (
	"context"
	"fmt"

	"github.com/Dias221467/presence-tracker/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestService handles broadcast requests.
type RequestService struct {
	repo RequestStore
}

func NewRequestService(repo RequestStore) *RequestService {
	return &RequestService{repo: repo}
}

// CreateRequest stores a request made by user. request_type and location are free-form.
func (s *RequestService) CreateRequest(ctx context.Context, user *models.User, requestType string, location interface{}) (primitive.ObjectID, error) {
	req, err := s.repo.CreateRequest(ctx, &models.Request{
		RequestType: requestType,
		UserID:      user.ID,
		Location:    location,
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to create request in service")
		return primitive.NilObjectID, fmt.Errorf("failed to create request: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"request_id":   req.ID.Hex(),
		"user_id":      user.ID.Hex(),
		"request_type": requestType,
	}).Info("Request created")
	return req.ID, nil
}

// ListRequests is a placeholder listing: it always returns an empty slice.
func (s *RequestService) ListRequests(ctx context.Context) ([]models.Request, error) {
	return []models.Request{}, nil
}
