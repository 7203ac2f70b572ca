package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Dias221467/presence-tracker/internal/services"
	"github.com/Dias221467/presence-tracker/pkg/logger"
	"github.com/Dias221467/presence-tracker/pkg/middleware"
)

type messageResponse struct {
	Message string `json:"message"`
}

// Responder renders JSON bodies and maps service errors onto status codes.
type Responder struct {
	// StrictStatusCodes maps auth, not-found and conflict errors to 401, 404 and 409
	// instead of the flat 400. Messages are the same either way.
	StrictStatusCodes bool
}

func (rs Responder) JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.WithError(err).Warn("Failed to encode response")
	}
}

func (rs Responder) Error(w http.ResponseWriter, err error) {
	svcErr, ok := services.AsError(err)
	if !ok {
		logger.Log.WithError(err).Error("Internal error")
		rs.JSON(w, http.StatusInternalServerError, messageResponse{Message: "internal server error"})
		return
	}
	rs.JSON(w, rs.status(svcErr.Kind), messageResponse{Message: svcErr.Message})
}

func (rs Responder) status(kind services.ErrorKind) int {
	if !rs.StrictStatusCodes {
		return http.StatusBadRequest
	}
	switch kind {
	case services.KindAuth:
		return http.StatusUnauthorized
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// invalidPayload is rendered when a body cannot be decoded.
var invalidPayload = &services.Error{Kind: services.KindValidation, Message: "invalid request payload"}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v interface{}) error {
	err := json.NewDecoder(io.LimitReader(r.Body, middleware.MaxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	logger.Log.WithError(err).Warn("Failed to decode request body")
	return invalidPayload
}
