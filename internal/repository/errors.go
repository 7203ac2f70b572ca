package repository

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound                 = errors.New("document not found")
	ErrDuplicateUserName        = errors.New("user_name already exists")
	ErrDuplicateEmail           = errors.New("email already exists")
	ErrDuplicateToken           = errors.New("token already issued")
	ErrDuplicateAcknowledgement = errors.New("request already acknowledged by user")
)

// isDuplicateKeyErr reports whether err is an E11000 duplicate key error.
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	return strings.Contains(err.Error(), "E11000")
}

// duplicateIndex returns the name of the unique index that rejected the write, if the
// server reported it.
func duplicateIndex(err error, names ...string) string {
	msg := err.Error()
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			msg += " " + e.Message
		}
	}
	for _, name := range names {
		if strings.Contains(msg, name) {
			return name
		}
	}
	return ""
}
