package services

import (
	"context"
	"testing"

	"github.com/Dias221467/presence-tracker/internal/models"
	"github.com/Dias221467/presence-tracker/internal/repository/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerUser(t *testing.T, store *memstore.Store, name string) *models.User {
	t.Helper()
	ctx := context.Background()
	users := NewUserService(store)
	creds, err := users.RegisterUser(ctx, name, "secret1", name+"@example.com")
	require.NoError(t, err)
	user, err := users.Authenticate(ctx, creds.Token)
	require.NoError(t, err)
	return user
}

func TestBeat_UserAppendsHistoryAndUpdatesPresence(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	svc := NewHeartbeatService(store, store, store)
	user := registerUser(t, store, "alice")

	res, err := svc.Beat(ctx, UserIdentity(user, "D1", user.Token), "L1")
	require.NoError(t, err)
	assert.Equal(t, BeatCreated, res)

	res, err = svc.Beat(ctx, UserIdentity(user, "D1", user.Token), "L2")
	require.NoError(t, err)
	assert.Equal(t, BeatCreated, res)

	updated, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "L2", updated.LastLocation)
	assert.Equal(t, "D1", updated.LastDeviceID)
	require.NotNil(t, updated.LastSeen)

	history, err := svc.GetRecentActivities(ctx, user, 0)
	require.NoError(t, err)
	assert.Len(t, history, 2)
	for _, a := range history {
		assert.Equal(t, user.ID, a.UserID)
		assert.Equal(t, "D1", a.DeviceID)
	}
}

func TestBeat_AnonymousDeviceUpserts(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	svc := NewHeartbeatService(store, store, store)

	id, err := AnonymousIdentity("D1", "")
	require.NoError(t, err)
	assert.Equal(t, IdentityDevice, id.Kind)

	res, err := svc.Beat(ctx, id, map[string]interface{}{"lat": 1.0, "lng": 2.0})
	require.NoError(t, err)
	assert.Equal(t, BeatCreated, res)

	res, err = svc.Beat(ctx, id, map[string]interface{}{"lat": 3.0, "lng": 4.0})
	require.NoError(t, err)
	assert.Equal(t, BeatUpdated, res)

	tokenID, err := AnonymousIdentity("", "tok")
	require.NoError(t, err)
	assert.Equal(t, IdentityAccessToken, tokenID.Kind)

	res, err = svc.Beat(ctx, tokenID, "somewhere")
	require.NoError(t, err)
	assert.Equal(t, BeatCreated, res)

	assert.Equal(t, 2, store.DevicePresenceCount())
}

func TestAnonymousIdentity_DevicePreferred(t *testing.T) {
	id, err := AnonymousIdentity("D1", "tok")
	require.NoError(t, err)
	assert.Equal(t, IdentityDevice, id.Kind)
	assert.Equal(t, "D1", id.DeviceID)
}

func TestAnonymousIdentity_RequiresOne(t *testing.T) {
	_, err := AnonymousIdentity("", "")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.Equal(t, "bad request", err.Error())
}
