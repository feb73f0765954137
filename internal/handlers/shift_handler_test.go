package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qc-backend/internal/models"
	"qc-backend/internal/services"
)

// stubShiftStore backs the handler tests with one in-memory shift.
type stubShiftStore struct {
	shift     *models.Shift
	duplicate bool
}

func (s *stubShiftStore) Get(ctx context.Context, shiftID int) (*models.Shift, error) {
	if s.shift != nil && s.shift.ID == shiftID {
		return s.shift, nil
	}
	return nil, nil
}

func (s *stubShiftStore) GetActive(ctx context.Context, shiftID int) (*models.Shift, error) {
	return s.Get(ctx, shiftID)
}

func (s *stubShiftStore) CheckDuplicate(ctx context.Context, date string, shiftNumber int) (bool, error) {
	return s.duplicate, nil
}

func (s *stubShiftStore) Create(ctx context.Context, shift *models.Shift) error {
	shift.ID = 1
	s.shift = shift
	return nil
}

func (s *stubShiftStore) Close(ctx context.Context, shiftID int, endTime string) (bool, error) {
	return s.shift != nil && s.shift.ID == shiftID, nil
}

func (s *stubShiftStore) CloseWindow(ctx context.Context, date string, shiftNumber int, endTime string) (int, error) {
	return 0, nil
}

func (s *stubShiftStore) CloseExpiredBefore(ctx context.Context, date, endTime string) (int, error) {
	return 0, nil
}

func (s *stubShiftStore) List(ctx context.Context, limit int) ([]*models.Shift, error) {
	if s.shift == nil {
		return nil, nil
	}
	return []*models.Shift{s.shift}, nil
}

type stubTotalsStore struct{}

func (stubTotalsStore) GetShiftTotals(ctx context.Context, shiftID int) (*models.ShiftTotals, error) {
	return &models.ShiftTotals{}, nil
}

func newTestShiftHandler(store *stubShiftStore) *ShiftHandler {
	return NewShiftHandler(
		services.NewShiftService(store, false),
		services.NewStatisticsService(stubTotalsStore{}),
	)
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestCreateShiftHandler(t *testing.T) {
	h := newTestShiftHandler(&stubShiftStore{})

	rr := postJSON(t, h.CreateShift, "/api/shifts", models.CreateShiftRequest{
		Date:            "2020-01-10",
		ShiftNumber:     1,
		ControllerNames: []string{"Ivanova"},
	})

	require.Equal(t, http.StatusCreated, rr.Code)

	var shift models.Shift
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &shift))
	assert.Equal(t, 1, shift.ID)
	assert.Equal(t, models.ShiftStatusActive, shift.Status)
}

func TestCreateShiftHandlerValidationErrors(t *testing.T) {
	h := newTestShiftHandler(&stubShiftStore{})

	rr := postJSON(t, h.CreateShift, "/api/shifts", models.CreateShiftRequest{})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var body struct {
		Error  string   `json:"error"`
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Validation failed", body.Error)
	assert.NotEmpty(t, body.Errors)
}

func TestCreateShiftHandlerDuplicateConflict(t *testing.T) {
	h := newTestShiftHandler(&stubShiftStore{duplicate: true})

	rr := postJSON(t, h.CreateShift, "/api/shifts", models.CreateShiftRequest{
		Date:            "2020-01-10",
		ShiftNumber:     1,
		ControllerNames: []string{"Ivanova"},
	})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestCreateShiftHandlerBadBody(t *testing.T) {
	h := newTestShiftHandler(&stubShiftStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/shifts", bytes.NewReader([]byte("{")))
	rr := httptest.NewRecorder()
	h.CreateShift(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestValidateShiftHandler(t *testing.T) {
	h := newTestShiftHandler(&stubShiftStore{})

	rr := postJSON(t, h.ValidateShift, "/api/shifts/validate", models.ValidateShiftRequest{
		ShiftNumber: 7,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Valid  bool     `json:"valid"`
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.False(t, body.Valid)
	assert.Contains(t, body.Errors, "shift number must be 1 or 2")
}

func TestGetShiftHandlerNotFound(t *testing.T) {
	h := newTestShiftHandler(&stubShiftStore{})

	router := mux.NewRouter()
	router.HandleFunc("/api/shifts/{id:[0-9]+}", h.GetShift).Methods("GET")

	req := httptest.NewRequest(http.MethodGet, "/api/shifts/42", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCloseShiftHandler(t *testing.T) {
	store := &stubShiftStore{}
	h := newTestShiftHandler(store)

	rr := postJSON(t, h.CreateShift, "/api/shifts", models.CreateShiftRequest{
		Date:            "2020-01-10",
		ShiftNumber:     2,
		ControllerNames: []string{"Ivanova"},
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	router := mux.NewRouter()
	router.HandleFunc("/api/shifts/{id:[0-9]+}/close", h.CloseShift).Methods("POST")

	req := httptest.NewRequest(http.MethodPost, "/api/shifts/1/close", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/shifts/9/close", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
