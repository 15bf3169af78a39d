package delete_time_off

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
)

const (
	msgInvalidProviderID = "некорректный ID провайдера"
	msgInvalidTimeOffID  = "некорректный ID отсутствия"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgForbidden         = "доступ запрещен"
	msgProviderNotFound  = "провайдер не найден"
	msgTimeOffNotFound   = "отсутствие не найдено"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/providers/{providerId}/time-off/{timeOffId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID, err := handlers.PathInt64(r, "providerId")
	if err != nil {
		h.logger.Warn("DELETE /providers/{id}/time-off/{timeOffId} - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	timeOffID, err := handlers.PathInt64(r, "timeOffId")
	if err != nil {
		h.logger.Warn("DELETE /providers/{id}/time-off/{timeOffId} - Invalid time off ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTimeOffID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /providers/{id}/time-off/{timeOffId} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.DeleteTimeOff(r.Context(), providerID, timeOffID, userID); err != nil {
		switch {
		case errors.Is(err, schedule.ErrTimeOffNotFound):
			h.logger.Warn("DELETE /providers/{id}/time-off/{timeOffId} - Time off not found: provider_id=%d, time_off_id=%d",
				providerID, timeOffID)
			handlers.RespondNotFound(w, msgTimeOffNotFound)

		case errors.Is(err, schedule.ErrProviderNotFound):
			h.logger.Warn("DELETE /providers/{id}/time-off/{timeOffId} - Provider not found: provider_id=%d", providerID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("DELETE /providers/{id}/time-off/{timeOffId} - Access denied: provider_id=%d, user_id=%d",
				providerID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /providers/{id}/time-off/{timeOffId} - Failed to delete time off: time_off_id=%d, error=%v",
				timeOffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /providers/{id}/time-off/{timeOffId} - Time off deleted: provider_id=%d, time_off_id=%d",
		providerID, timeOffID)
	w.WriteHeader(http.StatusNoContent)
}
