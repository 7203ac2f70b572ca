package handlers

import (
	"net/http"

	"github.com/Dias221467/presence-tracker/internal/models"
	"github.com/Dias221467/presence-tracker/internal/services"
	"github.com/Dias221467/presence-tracker/pkg/logger"
)

// RequestHandler manages broadcast requests and their acknowledgements.
type RequestHandler struct {
	Requests *services.RequestService
	Acks     *services.AcknowledgementService
	resp     Responder
}

func NewRequestHandler(requests *services.RequestService, acks *services.AcknowledgementService, resp Responder) *RequestHandler {
	return &RequestHandler{Requests: requests, Acks: acks, resp: resp}
}

type requestIDBody struct {
	RequestID string `json:"request_id"`
}

// ListRequestsHandler handles GET /requests.
func (h *RequestHandler) ListRequestsHandler(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Requests.ListRequests(r.Context())
	if err != nil {
		h.resp.Error(w, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, map[string]interface{}{"objects": requests})
}

// CreateRequestHandler handles POST /requests.
func (h *RequestHandler) CreateRequestHandler(w http.ResponseWriter, r *http.Request, user *models.User) {
	var body struct {
		RequestType string      `json:"request_type"`
		Location    interface{} `json:"location"`
	}
	if err := decode(r, &body); err != nil {
		h.resp.Error(w, err)
		return
	}

	id, err := h.Requests.CreateRequest(r.Context(), user, body.RequestType, body.Location)
	if err != nil {
		h.resp.Error(w, err)
		return
	}

	h.resp.JSON(w, http.StatusCreated, map[string]string{"request_id": id.Hex()})
}

// AckRequestHandler handles POST /ack_request.
func (h *RequestHandler) AckRequestHandler(w http.ResponseWriter, r *http.Request, user *models.User) {
	var body requestIDBody
	if err := decode(r, &body); err != nil {
		h.resp.Error(w, err)
		return
	}

	id, err := h.Acks.AckRequest(r.Context(), user, body.RequestID)
	if err != nil {
		logger.Log.WithError(err).Warnf("User %s failed to acknowledge request %s", user.ID.Hex(), body.RequestID)
		h.resp.Error(w, err)
		return
	}

	h.resp.JSON(w, http.StatusOK, map[string]string{"acknowledgment_id": id.Hex()})
}

// ListAcknowledgementsHandler handles POST /acknowledgements.
func (h *RequestHandler) ListAcknowledgementsHandler(w http.ResponseWriter, r *http.Request, user *models.User) {
	var body requestIDBody
	if err := decode(r, &body); err != nil {
		h.resp.Error(w, err)
		return
	}

	rows, err := h.Acks.ListAcknowledgements(r.Context(), body.RequestID)
	if err != nil {
		h.resp.Error(w, err)
		return
	}

	logger.Log.Infof("User %s listed %d acknowledgements of request %s", user.ID.Hex(), len(rows), body.RequestID)
	h.resp.JSON(w, http.StatusOK, rows)
}
