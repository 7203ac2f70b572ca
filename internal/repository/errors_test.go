package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func dupWriteErr(index string) error {
	return mongo.WriteException{WriteErrors: mongo.WriteErrors{{
		Code:    11000,
		Message: fmt.Sprintf("E11000 duplicate key error collection: presence.users index: %s dup key", index),
	}}}
}

func TestIsDuplicateKeyErr(t *testing.T) {
	assert.False(t, isDuplicateKeyErr(nil))
	assert.False(t, isDuplicateKeyErr(errors.New("connection refused")))
	assert.True(t, isDuplicateKeyErr(dupWriteErr(idxEmail)))
	assert.True(t, isDuplicateKeyErr(mongo.CommandError{Code: 11000, Message: "dup"}))
	assert.True(t, isDuplicateKeyErr(fmt.Errorf("wrapped: %w", dupWriteErr(idxUserName))))
}

func TestUserDuplicateErr(t *testing.T) {
	assert.Equal(t, ErrDuplicateUserName, userDuplicateErr(dupWriteErr(idxUserName)))
	assert.Equal(t, ErrDuplicateEmail, userDuplicateErr(dupWriteErr(idxEmail)))
	assert.Equal(t, ErrDuplicateToken, userDuplicateErr(dupWriteErr(idxToken)))
}

func TestIndexModels_UniqueConstraints(t *testing.T) {
	unique := map[string]bool{}
	for _, models := range IndexModels() {
		for _, m := range models {
			opts := m.Options
			if opts == nil || opts.Name == nil {
				t.Fatalf("index without a name: %+v", m.Keys)
			}
			unique[*opts.Name] = opts.Unique != nil && *opts.Unique
		}
	}

	for _, name := range []string{idxUserName, idxEmail, idxToken, idxDeviceID, idxAccessToken, idxAckRequestUser} {
		assert.True(t, unique[name], "expected %s to be unique", name)
	}
}
