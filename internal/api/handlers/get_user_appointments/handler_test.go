package get_user_appointments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type stubService struct {
	req *models.GetUserAppointmentsRequest
	err error
}

func (s *stubService) GetUserAppointments(_ context.Context, req *models.GetUserAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.req = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.AppointmentListResponse{Appointments: []models.AppointmentResponse{}}, nil
}

func serve(svc *stubService, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/users/{userId}/appointments", NewHandler(svc, logger.Nop()).Handle)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), 42))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := &stubService{}

	rec := serve(svc, "/users/42/appointments?status=scheduled")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
	assert.Equal(t, int64(42), svc.req.RequesterID)
	assert.Equal(t, "scheduled", *svc.req.Status)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, serve(&stubService{err: appointments.ErrAccessDenied}, "/users/43/appointments").Code)
	assert.Equal(t, http.StatusBadRequest, serve(&stubService{err: appointments.ErrInvalidInput}, "/users/42/appointments?status=x").Code)
	assert.Equal(t, http.StatusBadRequest, serve(&stubService{}, "/users/abc/appointments").Code)
}
