package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dias221467/presence-tracker/internal/models"
	"github.com/Dias221467/presence-tracker/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AcknowledgementService lets users acknowledge requests and lists who did.
type AcknowledgementService struct {
	acks     AcknowledgementStore
	requests RequestStore
	users    UserStore
}

func NewAcknowledgementService(acks AcknowledgementStore, requests RequestStore, users UserStore) *AcknowledgementService {
	return &AcknowledgementService{
		acks:     acks,
		requests: requests,
		users:    users,
	}
}

// AckRequest records that user acknowledged the request with id requestID.
func (s *AcknowledgementService) AckRequest(ctx context.Context, user *models.User, requestID string) (primitive.ObjectID, error) {
	req, err := s.lookupRequest(ctx, requestID)
	if err != nil {
		return primitive.NilObjectID, err
	}

	ack, err := s.acks.CreateAcknowledgement(ctx, &models.Acknowledgement{
		RequestID: req.ID,
		UserID:    user.ID,
	})
	if errors.Is(err, repository.ErrDuplicateAcknowledgement) {
		return primitive.NilObjectID, conflictError("request already acknowledged")
	}
	if err != nil {
		logrus.WithError(err).Error("Failed to acknowledge request in service")
		return primitive.NilObjectID, fmt.Errorf("failed to acknowledge request: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"request_id": req.ID.Hex(),
		"user_id":    user.ID.Hex(),
	}).Info("Request acknowledged")
	return ack.ID, nil
}

// ListAcknowledgements returns one row per acknowledgement of the request, each carrying
// the acknowledging user's name and last known location. Order is unspecified.
func (s *AcknowledgementService) ListAcknowledgements(ctx context.Context, requestID string) ([]models.AcknowledgementView, error) {
	req, err := s.lookupRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	acks, err := s.acks.GetAcknowledgementsByRequest(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list acknowledgements: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(acks))
	for _, a := range acks {
		ids = append(ids, a.UserID)
	}
	users, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve acknowledging users: %w", err)
	}
	byID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	views := make([]models.AcknowledgementView, 0, len(acks))
	for _, a := range acks {
		u, ok := byID[a.UserID]
		if !ok {
			logrus.WithField("user_id", a.UserID.Hex()).Warn("Acknowledgement references a missing user")
			continue
		}
		views = append(views, models.AcknowledgementView{
			UserID:         u.ID,
			UserName:       u.UserName,
			AcknowledgedAt: a.CreatedAt,
			LastLocation:   u.LastLocation,
		})
	}
	return views, nil
}

func (s *AcknowledgementService) lookupRequest(ctx context.Context, requestID string) (*models.Request, error) {
	if requestID == "" {
		return nil, validationError("request_id is required")
	}

	id, err := primitive.ObjectIDFromHex(requestID)
	if err != nil {
		return nil, notFoundError("request not found")
	}

	req, err := s.requests.GetRequestByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFoundError("request not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find request: %w", err)
	}
	return req, nil
}
