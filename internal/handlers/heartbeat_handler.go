package handlers

import (
	"net/http"
	"strconv"

	"github.com/Dias221467/presence-tracker/internal/models"
	"github.com/Dias221467/presence-tracker/internal/services"
	"github.com/Dias221467/presence-tracker/pkg/logger"
)

// HeartbeatHandler records location pings.
type HeartbeatHandler struct {
	Service *services.HeartbeatService
	resp    Responder
}

func NewHeartbeatHandler(service *services.HeartbeatService, resp Responder) *HeartbeatHandler {
	return &HeartbeatHandler{Service: service, resp: resp}
}

type heartbeatRequest struct {
	DeviceID    string      `json:"device_id"`
	Token       string      `json:"token"`
	AccessToken string      `json:"access_token"`
	Location    interface{} `json:"location"`
}

// HeartbeatHandler handles POST /heartbeat for an authenticated user. Every call appends
// to the user's history and answers 201.
func (h *HeartbeatHandler) HeartbeatHandler(w http.ResponseWriter, r *http.Request, user *models.User) {
	var body heartbeatRequest
	if err := decode(r, &body); err != nil {
		h.resp.Error(w, err)
		return
	}
	if body.DeviceID == "" && body.Token == "" {
		h.resp.Error(w, &services.Error{Kind: services.KindValidation, Message: "bad request"})
		return
	}

	identity := services.UserIdentity(user, body.DeviceID, user.Token)
	if _, err := h.Service.Beat(r.Context(), identity, body.Location); err != nil {
		h.resp.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// AnonymousHeartbeatHandler handles POST /legacy/heartbeat. The caller is identified by
// device_id or access_token; 201 means a record was created, 202 that it was updated.
func (h *HeartbeatHandler) AnonymousHeartbeatHandler(w http.ResponseWriter, r *http.Request) {
	var body heartbeatRequest
	if err := decode(r, &body); err != nil {
		h.resp.Error(w, err)
		return
	}

	identity, err := services.AnonymousIdentity(body.DeviceID, body.AccessToken)
	if err != nil {
		h.resp.Error(w, err)
		return
	}

	result, err := h.Service.Beat(r.Context(), identity, body.Location)
	if err != nil {
		h.resp.Error(w, err)
		return
	}

	if result == services.BeatUpdated {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// ActivitiesHandler handles GET /activities, the caller's own recent heartbeats.
func (h *HeartbeatHandler) ActivitiesHandler(w http.ResponseWriter, r *http.Request, user *models.User) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	activities, err := h.Service.GetRecentActivities(r.Context(), user, limit)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch activities")
		h.resp.Error(w, err)
		return
	}
	if activities == nil {
		activities = []models.Activity{}
	}

	h.resp.JSON(w, http.StatusOK, map[string]interface{}{"objects": activities})
}
