// Package memstore is an in-process implementation of every store contract the services
// depend on. It enforces the same uniqueness rules as the MongoDB indexes and reports the
// same repository error sentinels. Data lives only as long as the Store.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dias221467/presence-tracker/internal/models"
	"github.com/Dias221467/presence-tracker/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ackKey struct {
	requestID primitive.ObjectID
	userID    primitive.ObjectID
}

type Store struct {
	mu sync.RWMutex

	users      map[primitive.ObjectID]*models.User
	byUserName map[string]primitive.ObjectID
	byEmail    map[string]primitive.ObjectID
	byToken    map[string]primitive.ObjectID
	activities []models.Activity
	devices    map[string]*models.DevicePresence
	requests   map[primitive.ObjectID]*models.Request
	acks       []models.Acknowledgement
	ackIndex   map[ackKey]struct{}
}

func New() *Store {
	return &Store{
		users:      make(map[primitive.ObjectID]*models.User),
		byUserName: make(map[string]primitive.ObjectID),
		byEmail:    make(map[string]primitive.ObjectID),
		byToken:    make(map[string]primitive.ObjectID),
		devices:    make(map[string]*models.DevicePresence),
		requests:   make(map[primitive.ObjectID]*models.Request),
		ackIndex:   make(map[ackKey]struct{}),
	}
}

/* -------------------------------------------------------------------------- */
/* users                                                                      */
/* -------------------------------------------------------------------------- */

func (s *Store) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byUserName[user.UserName]; ok {
		return nil, repository.ErrDuplicateUserName
	}
	if _, ok := s.byEmail[user.Email]; ok {
		return nil, repository.ErrDuplicateEmail
	}
	if _, ok := s.byToken[user.Token]; ok {
		return nil, repository.ErrDuplicateToken
	}

	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()

	stored := *user
	s.users[stored.ID] = &stored
	s.byUserName[stored.UserName] = stored.ID
	s.byEmail[stored.Email] = stored.ID
	s.byToken[stored.Token] = stored.ID
	return user, nil
}

func (s *Store) GetUserByUserName(ctx context.Context, userName string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userByIndex(s.byUserName, userName)
}

func (s *Store) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userByIndex(s.byToken, token)
}

func (s *Store) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) userByIndex(index map[string]primitive.ObjectID, key string) (*models.User, error) {
	id, ok := index[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s.users[id]
	return &cp, nil
}

func (s *Store) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.User
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if u, ok := s.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *Store) UpdatePresence(ctx context.Context, id primitive.ObjectID, p models.Presence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	seen := p.SeenAt
	u.LastLocation = p.Location
	u.LastDeviceID = p.DeviceID
	u.LastSeen = &seen
	return nil
}

/* -------------------------------------------------------------------------- */
/* activities and device presence                                             */
/* -------------------------------------------------------------------------- */

func (s *Store) CreateActivity(ctx context.Context, activity *models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	activity.ID = primitive.NewObjectID()
	s.activities = append(s.activities, *activity)
	return nil
}

func (s *Store) GetUserActivities(ctx context.Context, userID primitive.ObjectID, limit int) ([]models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Activity
	for _, a := range s.activities {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LastSeen.After(out[j].LastSeen) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) UpsertDevicePresence(ctx context.Context, deviceID, accessToken string, location interface{}, seen time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := "device_id:" + deviceID
	if deviceID == "" {
		key = "access_token:" + accessToken
	} else {
		accessToken = ""
	}

	if d, ok := s.devices[key]; ok {
		d.Location = location
		d.LastSeen = seen
		return false, nil
	}

	s.devices[key] = &models.DevicePresence{
		ID:          primitive.NewObjectID(),
		DeviceID:    deviceID,
		AccessToken: accessToken,
		Location:    location,
		LastSeen:    seen,
	}
	return true, nil
}

// DevicePresenceCount returns the number of anonymous presence records.
func (s *Store) DevicePresenceCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.devices)
}

/* -------------------------------------------------------------------------- */
/* requests and acknowledgements                                              */
/* -------------------------------------------------------------------------- */

func (s *Store) CreateRequest(ctx context.Context, req *models.Request) (*models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req.ID = primitive.NewObjectID()
	req.DateCreated = time.Now().UTC()
	stored := *req
	s.requests[stored.ID] = &stored
	return req, nil
}

func (s *Store) GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *Store) CreateAcknowledgement(ctx context.Context, ack *models.Acknowledgement) (*models.Acknowledgement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ackKey{requestID: ack.RequestID, userID: ack.UserID}
	if _, ok := s.ackIndex[key]; ok {
		return nil, repository.ErrDuplicateAcknowledgement
	}

	ack.ID = primitive.NewObjectID()
	ack.CreatedAt = time.Now().UTC()
	s.ackIndex[key] = struct{}{}
	s.acks = append(s.acks, *ack)
	return ack, nil
}

func (s *Store) GetAcknowledgementsByRequest(ctx context.Context, requestID primitive.ObjectID) ([]models.Acknowledgement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Acknowledgement
	for _, a := range s.acks {
		if a.RequestID == requestID {
			out = append(out, a)
		}
	}
	return out, nil
}
