package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/Dias221467/presence-tracker/internal/models"
	"github.com/Dias221467/presence-tracker/pkg/logger"
)

// MaxBodyBytes caps how much of a request body is read.
const MaxBodyBytes = 1 << 20

// Authenticator resolves the user owning a bearer token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthedHandlerFunc is a handler that runs with an already resolved user.
type AuthedHandlerFunc func(w http.ResponseWriter, r *http.Request, user *models.User)

// TokenAuth wraps handlers that require a valid token.
type TokenAuth struct {
	auth    Authenticator
	onError func(w http.ResponseWriter, err error)
}

// NewTokenAuth creates a TokenAuth; onError renders authentication failures.
func NewTokenAuth(auth Authenticator, onError func(w http.ResponseWriter, err error)) *TokenAuth {
	return &TokenAuth{auth: auth, onError: onError}
}

// Wrap resolves the caller's user from the request token and passes it to next.
func (a *TokenAuth) Wrap(next AuthedHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := TokenFromRequest(r)
		if err != nil {
			logger.Log.WithError(err).Warn("Failed to read request body")
			a.onError(w, err)
			return
		}

		user, err := a.auth.Authenticate(r.Context(), token)
		if err != nil {
			logger.Log.WithField("path", r.URL.Path).Warn("Authentication failed")
			a.onError(w, err)
			return
		}

		next(w, r, user)
	}
}

// TokenFromRequest returns the "token" field of the JSON body, falling back to the
// "token" query parameter. The body is buffered and restored for the next reader.
func TokenFromRequest(r *http.Request) (string, error) {
	if r.Body != nil {
		body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes))
		if err != nil {
			return "", err
		}
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		var payload struct {
			Token string `json:"token"`
		}
		if json.Unmarshal(body, &payload) == nil && payload.Token != "" {
			return payload.Token, nil
		}
	}
	return r.URL.Query().Get("token"), nil
}
