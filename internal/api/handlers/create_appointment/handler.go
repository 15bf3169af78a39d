package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректный формат даты (YYYY-MM-DD) или времени начала (HH:MM)"
	msgSlotUnavailable    = "выбранный слот недоступен, обновите список свободных слотов"
	msgTransactionTimeout = "не удалось забронировать слот, повторите попытку"
	msgProviderNotFound   = "провайдер не найден"
	msgServiceNotFound    = "услуга не найдена"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
// 409 SLOT_UNAVAILABLE - нужно заново запросить слоты; 503 TRANSACTION_TIMEOUT - можно повторить запрос
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// X-User-ID опционален: без него запись создаётся на имя из тела запроса
	userID, _ := middleware.GetUserID(r.Context())

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSlotUnavailable):
			h.logger.Warn("POST /appointments - Slot unavailable: provider_id=%d, date=%s, time=%s",
				req.ProviderID, req.Date, req.StartTime)
			handlers.RespondSlotUnavailable(w, msgSlotUnavailable)

		case errors.Is(err, domain.ErrTransactionTimeout):
			h.logger.Warn("POST /appointments - Transaction timeout: provider_id=%d, date=%s", req.ProviderID, req.Date)
			handlers.RespondTransactionTimeout(w, msgTransactionTimeout)

		case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrOutOfRange):
			h.logger.Warn("POST /appointments - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createAppointment.ErrProviderNotFound):
			h.logger.Warn("POST /appointments - Provider not found: provider_id=%d", req.ProviderID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: provider_id=%d, service_id=%d", req.ProviderID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: provider_id=%d, error=%v", req.ProviderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, provider_id=%d",
		result.Appointment.ID, req.ProviderID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainAppointment(result.Appointment))
}
