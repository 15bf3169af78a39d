package cancel_appointment

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
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
	req *models.CancelAppointmentRequest
	err error
}

func (s *stubService) Cancel(_ context.Context, id int64, req *models.CancelAppointmentRequest) (*models.AppointmentResponse, error) {
	s.req = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.AppointmentResponse{ID: id, Status: "cancelled"}, nil
}

func serve(svc *stubService, body io.Reader) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/appointments/{appointmentId}/cancel", NewHandler(svc, logger.Nop()).Handle)

	req := httptest.NewRequest(http.MethodPatch, "/appointments/5/cancel", body)
	req = req.WithContext(middleware.WithUserID(req.Context(), 42))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_WithReason(t *testing.T) {
	svc := &stubService{}

	rec := serve(svc, strings.NewReader(`{"cancellationReason":"sick"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"cancelled"`)
	assert.Equal(t, int64(42), svc.req.UserID)
	assert.Equal(t, "sick", *svc.req.CancellationReason)
}

func TestHandle_EmptyBody(t *testing.T) {
	svc := &stubService{}

	rec := serve(svc, http.NoBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.req.CancellationReason)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", appointments.ErrAppointmentNotFound, http.StatusNotFound},
		{"forbidden", appointments.ErrAccessDenied, http.StatusForbidden},
		{"terminal", appointments.ErrCannotCancel, http.StatusConflict},
		{"internal", appointments.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubService{err: tt.err}, http.NoBody)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandle_InvalidBody(t *testing.T) {
	rec := serve(&stubService{}, strings.NewReader(`{"cancellationReason":`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
