package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Dias221467/presence-tracker/internal/services"
	"github.com/Dias221467/presence-tracker/pkg/middleware"
	"github.com/gorilla/mux"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Users           *services.UserService
	Heartbeats      *services.HeartbeatService
	Requests        *services.RequestService
	Acks            *services.AcknowledgementService
	Ping            func(ctx context.Context) error
	Responder       Responder
	RequestTimeout  time.Duration
	LegacyHeartbeat bool
}

// NewRouter wires every route of the service.
func NewRouter(d Deps) *mux.Router {
	userHandler := NewUserHandler(d.Users, d.Responder)
	heartbeatHandler := NewHeartbeatHandler(d.Heartbeats, d.Responder)
	requestHandler := NewRequestHandler(d.Requests, d.Acks, d.Responder)
	healthHandler := NewHealthHandler(d.Ping, d.Responder)

	auth := middleware.NewTokenAuth(d.Users, d.Responder.Error)

	router := mux.NewRouter()

	router.HandleFunc("/health", healthHandler.HealthHandler).Methods("GET")

	router.HandleFunc("/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/login", userHandler.LoginUserHandler).Methods("POST")

	router.HandleFunc("/heartbeat", auth.Wrap(heartbeatHandler.HeartbeatHandler)).Methods("POST")
	router.HandleFunc("/activities", auth.Wrap(heartbeatHandler.ActivitiesHandler)).Methods("GET")
	if d.LegacyHeartbeat {
		router.HandleFunc("/legacy/heartbeat", heartbeatHandler.AnonymousHeartbeatHandler).Methods("POST")
	}

	router.HandleFunc("/requests", requestHandler.ListRequestsHandler).Methods("GET")
	router.HandleFunc("/requests", auth.Wrap(requestHandler.CreateRequestHandler)).Methods("POST")
	router.HandleFunc("/ack_request", auth.Wrap(requestHandler.AckRequestHandler)).Methods("POST")
	router.HandleFunc("/acknowledgements", auth.Wrap(requestHandler.ListAcknowledgementsHandler)).Methods("POST")

	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.Timeout(d.RequestTimeout))

	return router
}

// HealthHandler reports whether the store is reachable.
type HealthHandler struct {
	ping func(ctx context.Context) error
	resp Responder
}

func NewHealthHandler(ping func(ctx context.Context) error, resp Responder) *HealthHandler {
	return &HealthHandler{ping: ping, resp: resp}
}

func (h *HealthHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		if err := h.ping(r.Context()); err != nil {
			h.resp.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	h.resp.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
