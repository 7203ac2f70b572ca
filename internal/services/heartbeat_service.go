package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/presence-tracker/internal/models"
	"github.com/sirupsen/logrus"
)

// IdentityKind tags who is sending a heartbeat.
type IdentityKind int

const (
	IdentityDevice IdentityKind = iota + 1
	IdentityAccessToken
	IdentityUser
)

// HeartbeatIdentity is the sender of a heartbeat. Device and AccessToken identities are
// anonymous and keep a single current-state record; User identities append history.
type HeartbeatIdentity struct {
	Kind        IdentityKind
	DeviceID    string
	AccessToken string
	User        *models.User
}

// AnonymousIdentity picks the identity for an unauthenticated heartbeat. device_id wins
// when both are supplied.
func AnonymousIdentity(deviceID, accessToken string) (HeartbeatIdentity, error) {
	switch {
	case deviceID != "":
		return HeartbeatIdentity{Kind: IdentityDevice, DeviceID: deviceID}, nil
	case accessToken != "":
		return HeartbeatIdentity{Kind: IdentityAccessToken, AccessToken: accessToken}, nil
	default:
		return HeartbeatIdentity{}, validationError("bad request")
	}
}

// UserIdentity builds the identity for an authenticated heartbeat.
func UserIdentity(user *models.User, deviceID, token string) HeartbeatIdentity {
	return HeartbeatIdentity{Kind: IdentityUser, User: user, DeviceID: deviceID, AccessToken: token}
}

// BeatResult tells whether a heartbeat created a record or updated an existing one.
type BeatResult int

const (
	BeatCreated BeatResult = iota + 1
	BeatUpdated
)

// HeartbeatService records location pings.
type HeartbeatService struct {
	activities ActivityStore
	devices    DevicePresenceStore
	users      UserStore
	now        func() time.Time
}

func NewHeartbeatService(activities ActivityStore, devices DevicePresenceStore, users UserStore) *HeartbeatService {
	return &HeartbeatService{
		activities: activities,
		devices:    devices,
		users:      users,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Beat records a heartbeat for identity.
func (s *HeartbeatService) Beat(ctx context.Context, identity HeartbeatIdentity, location interface{}) (BeatResult, error) {
	seen := s.now()

	switch identity.Kind {
	case IdentityDevice, IdentityAccessToken:
		created, err := s.devices.UpsertDevicePresence(ctx, identity.DeviceID, identity.AccessToken, location, seen)
		if err != nil {
			return 0, err
		}
		if created {
			return BeatCreated, nil
		}
		return BeatUpdated, nil

	case IdentityUser:
		if identity.User == nil {
			return 0, fmt.Errorf("user heartbeat without user")
		}
		if err := s.recordUserBeat(ctx, identity, location, seen); err != nil {
			return 0, err
		}
		return BeatCreated, nil

	default:
		return 0, validationError("bad request")
	}
}

func (s *HeartbeatService) recordUserBeat(ctx context.Context, identity HeartbeatIdentity, location interface{}, seen time.Time) error {
	userID := identity.User.ID

	activity := &models.Activity{
		UserID:      userID,
		AccessToken: identity.AccessToken,
		DeviceID:    identity.DeviceID,
		Location:    location,
		LastSeen:    seen,
	}
	if err := s.activities.CreateActivity(ctx, activity); err != nil {
		logrus.WithError(err).Error("Failed to record heartbeat in service")
		return err
	}

	err := s.users.UpdatePresence(ctx, userID, models.Presence{
		Location: location,
		DeviceID: identity.DeviceID,
		SeenAt:   seen,
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to update user presence in service")
		return err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":   userID.Hex(),
		"device_id": identity.DeviceID,
	}).Info("Heartbeat recorded")
	return nil
}

// GetRecentActivities returns the latest heartbeats of a user.
func (s *HeartbeatService) GetRecentActivities(ctx context.Context, user *models.User, limit int) ([]models.Activity, error) {
	if limit <= 0 || limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	return s.activities.GetUserActivities(ctx, user.ID, limit)
}

const maxActivityLimit = 100
