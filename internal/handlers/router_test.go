package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dias221467/presence-tracker/internal/repository/memstore"
	"github.com/Dias221467/presence-tracker/internal/services"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router *mux.Router
	store  *memstore.Store
}

func newTestServer(t *testing.T, strict bool) *testServer {
	t.Helper()
	store := memstore.New()
	router := NewRouter(Deps{
		Users:           services.NewUserService(store),
		Heartbeats:      services.NewHeartbeatService(store, store, store),
		Requests:        services.NewRequestService(store),
		Acks:            services.NewAcknowledgementService(store, store, store),
		Responder:       Responder{StrictStatusCodes: strict},
		LegacyHeartbeat: true,
	})
	return &testServer{router: router, store: store}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) register(t *testing.T, name string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/register", map[string]string{
		"user_name": name,
		"password":  "secret1",
		"email":     name + "@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		UserName string `json:"user_name"`
		Token    string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, name, resp.UserName)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Message
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t, false)
	token := s.register(t, "alice")

	w := s.do(t, http.MethodPost, "/login", map[string]string{"user_name": "alice", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_name":"alice","token":"`+token+`"}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/login", map[string]string{"user_name": "alice", "password": "nope-nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "password or user_name wrong", message(t, w))
}

func TestRegister_DuplicateAndInvalid(t *testing.T) {
	s := newTestServer(t, false)
	s.register(t, "alice")

	w := s.do(t, http.MethodPost, "/register", map[string]string{
		"user_name": "alice", "password": "secret1", "email": "x@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "user_name already exists", message(t, w))

	w = s.do(t, http.MethodPost, "/register", map[string]string{
		"user_name": "al", "password": "secret1", "email": "x@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, message(t, w), "user_name")

	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request payload", message(t, rec))
}

func TestHeartbeat_Authenticated(t *testing.T) {
	s := newTestServer(t, false)
	token := s.register(t, "alice")

	w := s.do(t, http.MethodPost, "/heartbeat", map[string]interface{}{
		"token": token, "device_id": "D1", "location": "L1",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/heartbeat?token="+token, map[string]interface{}{
		"device_id": "D1", "location": "L2",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	user, err := s.store.GetUserByToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "L2", user.LastLocation)

	w = s.do(t, http.MethodGet, "/activities?token="+token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		Objects []map[string]interface{} `json:"objects"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Len(t, history.Objects, 2)
}

func TestHeartbeat_Rejections(t *testing.T) {
	s := newTestServer(t, false)
	token := s.register(t, "alice")

	w := s.do(t, http.MethodPost, "/heartbeat", map[string]interface{}{"location": "L1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "token is required", message(t, w))

	w = s.do(t, http.MethodPost, "/heartbeat", map[string]interface{}{"token": "forged", "device_id": "D1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid token", message(t, w))

	// token only in the query and neither identity field in the body
	w = s.do(t, http.MethodPost, "/heartbeat?token="+token, map[string]interface{}{"location": "L1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "bad request", message(t, w))
}

func TestLegacyHeartbeat(t *testing.T) {
	s := newTestServer(t, false)

	w := s.do(t, http.MethodPost, "/legacy/heartbeat", map[string]interface{}{"device_id": "D1", "location": "L1"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/legacy/heartbeat", map[string]interface{}{"device_id": "D1", "location": "L2"})
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = s.do(t, http.MethodPost, "/legacy/heartbeat", map[string]interface{}{"location": "L2"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestsAndAcknowledgements(t *testing.T) {
	s := newTestServer(t, false)
	owner := s.register(t, "owner")
	alice := s.register(t, "alice")
	bobby := s.register(t, "bobby")

	w := s.do(t, http.MethodPost, "/requests", map[string]interface{}{
		"token": owner, "request_type": "ride", "location": map[string]float64{"lat": 1, "lng": 2},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		RequestID string `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.RequestID)

	w = s.do(t, http.MethodGet, "/requests", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"objects":[]}`, w.Body.String())

	for _, tok := range []string{alice, bobby} {
		w = s.do(t, http.MethodPost, "/ack_request", map[string]string{"token": tok, "request_id": created.RequestID})
		require.Equal(t, http.StatusOK, w.Code)
		var ack map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))
		assert.NotEmpty(t, ack["acknowledgment_id"])
	}

	w = s.do(t, http.MethodPost, "/ack_request", map[string]string{"token": alice, "request_id": created.RequestID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "request already acknowledged", message(t, w))

	w = s.do(t, http.MethodPost, "/acknowledgements", map[string]string{"token": owner, "request_id": created.RequestID})
	require.Equal(t, http.StatusOK, w.Code)
	var rows []struct {
		UserID         string      `json:"user_id"`
		UserName       string      `json:"user_name"`
		AcknowledgedAt string      `json:"acknowledged_at"`
		LastLocation   interface{} `json:"last_location"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	names := []string{rows[0].UserName, rows[1].UserName}
	assert.ElementsMatch(t, []string{"alice", "bobby"}, names)
}

func TestAckRequest_UnknownRequest(t *testing.T) {
	s := newTestServer(t, false)
	token := s.register(t, "alice")

	w := s.do(t, http.MethodPost, "/ack_request", map[string]string{"token": token})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "request_id is required", message(t, w))

	w = s.do(t, http.MethodPost, "/ack_request", map[string]string{"token": token, "request_id": "64b7f0000000000000000000"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "request not found", message(t, w))
}

func TestStrictStatusCodes(t *testing.T) {
	s := newTestServer(t, true)
	token := s.register(t, "alice")

	w := s.do(t, http.MethodPost, "/heartbeat", map[string]interface{}{"token": "forged", "device_id": "D1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid token", message(t, w))

	w = s.do(t, http.MethodPost, "/ack_request", map[string]string{"token": token, "request_id": "64b7f0000000000000000000"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/register", map[string]string{
		"user_name": "alice", "password": "secret1", "email": "x@example.com",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, false)
	w := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	down := NewRouter(Deps{
		Users:     services.NewUserService(memstore.New()),
		Ping:      func(ctx context.Context) error { return errors.New("down") },
		Responder: Responder{},
	})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	down.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestResponder_InternalError(t *testing.T) {
	w := httptest.NewRecorder()
	Responder{}.Error(w, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", message(t, w))
}
