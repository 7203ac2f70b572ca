package handlers

import (
	"net/http"

	"github.com/Dias221467/presence-tracker/internal/services"
	log "github.com/sirupsen/logrus"
)

// UserHandler handles registration and login.
type UserHandler struct {
	Service *services.UserService
	resp    Responder
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(service *services.UserService, resp Responder) *UserHandler {
	return &UserHandler{
		Service: service,
		resp:    resp,
	}
}

// RegisterUserHandler handles POST /register.
func (h *UserHandler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("RegisterUserHandler called")
	var body struct {
		UserName string `json:"user_name"`
		Password string `json:"password"`
		Email    string `json:"email"`
	}
	if err := decode(r, &body); err != nil {
		h.resp.Error(w, err)
		return
	}

	creds, err := h.Service.RegisterUser(r.Context(), body.UserName, body.Password, body.Email)
	if err != nil {
		log.WithError(err).Warn("Failed to register user")
		h.resp.Error(w, err)
		return
	}

	h.resp.JSON(w, http.StatusOK, creds)
}

// LoginUserHandler handles POST /login.
func (h *UserHandler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("LoginUserHandler called")
	var credentials struct {
		UserName string `json:"user_name"`
		Password string `json:"password"`
	}
	if err := decode(r, &credentials); err != nil {
		h.resp.Error(w, err)
		return
	}

	creds, err := h.Service.LoginUser(r.Context(), credentials.UserName, credentials.Password)
	if err != nil {
		log.WithError(err).Warn("Authentication failed")
		h.resp.Error(w, err)
		return
	}

	h.resp.JSON(w, http.StatusOK, creds)
}
