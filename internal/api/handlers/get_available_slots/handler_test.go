package get_available_slots

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type stubUseCase struct {
	req  *getAvailableSlots.Request
	resp *getAvailableSlots.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	s.req = req
	return s.resp, s.err
}

func serve(uc *stubUseCase, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/providers/{providerId}/availability", NewHandler(uc, logger.Nop()).Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_OK(t *testing.T) {
	uc := &stubUseCase{resp: &getAvailableSlots.Response{
		Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), ProviderID: 7, ServiceID: 3,
		DurationMinutes: 30, GranularityMinutes: 15,
		Slots: []getAvailableSlots.Slot{{StartTime: "09:00", EndTime: "09:30"}},
	}}

	rec := serve(uc, "/providers/7/availability?serviceId=3&date=2026-03-02&granularity=15")
	require.Equal(t, http.StatusOK, rec.Code)

	var body AvailableSlotsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "2026-03-02", body.Date)
	assert.Equal(t, []AvailableSlot{{StartTime: "09:00", EndTime: "09:30"}}, body.Slots)
	assert.Equal(t, 15, uc.req.GranularityMinutes)
	assert.Equal(t, int64(7), uc.req.ProviderID)
}

func TestHandle_EmptyListIsNotAnError(t *testing.T) {
	uc := &stubUseCase{resp: &getAvailableSlots.Response{Slots: []getAvailableSlots.Slot{}}}

	rec := serve(uc, "/providers/7/availability?serviceId=3&date=2026-03-01")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slots":[]`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		status int
	}{
		{"missing service", "/providers/7/availability?date=2026-03-02", nil, http.StatusBadRequest},
		{"missing date", "/providers/7/availability?serviceId=3", nil, http.StatusBadRequest},
		{"bad date", "/providers/7/availability?serviceId=3&date=02.03.2026", nil, http.StatusBadRequest},
		{"bad provider", "/providers/x/availability?serviceId=3&date=2026-03-02", nil, http.StatusBadRequest},
		{"validation", "/providers/7/availability?serviceId=3&date=2026-03-02&granularity=1",
			fmt.Errorf("%w: granularity", domain.ErrValidation), http.StatusBadRequest},
		{"provider not found", "/providers/7/availability?serviceId=3&date=2026-03-02",
			getAvailableSlots.ErrProviderNotFound, http.StatusNotFound},
		{"service not found", "/providers/7/availability?serviceId=3&date=2026-03-02",
			getAvailableSlots.ErrServiceNotFound, http.StatusNotFound},
		{"internal", "/providers/7/availability?serviceId=3&date=2026-03-02",
			getAvailableSlots.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubUseCase{err: tt.err}, tt.target)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
