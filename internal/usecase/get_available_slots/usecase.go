package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
)

// UseCase use case для получения доступных слотов
type UseCase struct {
	catalogRepo        CatalogRepository
	scheduleReader     ScheduleReader
	appointmentRepo    AppointmentRepository
	defaultGranularity int
	timeProvider       TimeProvider
	logger             Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalogRepo CatalogRepository,
	scheduleReader ScheduleReader,
	appointmentRepo AppointmentRepository,
	defaultGranularity int,
	logger Logger,
) *UseCase {
	if defaultGranularity <= 0 {
		defaultGranularity = domain.DefaultSlotGranularityMinutes
	}
	return &UseCase{
		catalogRepo:        catalogRepo,
		scheduleReader:     scheduleReader,
		appointmentRepo:    appointmentRepo,
		defaultGranularity: defaultGranularity,
		timeProvider:       &RealTimeProvider{},
		logger:             logger,
	}
}

// Execute вычисляет свободные слоты провайдера на дату
// Закрытый день, прошедшая дата и отсутствие места дают пустой список, а не ошибку
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%d, provider=%d, service=%d, date=%s",
		req.UserID, req.ProviderID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	date := domain.DateOnly(req.Date)

	// 2. Получаем провайдера
	provider, err := uc.catalogRepo.GetProvider(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrProviderNotFound) {
			uc.logger.Warn("GetAvailableSlots: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	// 3. Получаем услугу
	service, err := uc.catalogRepo.GetService(ctx, req.ProviderID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// Шаг запроса не мельче сетки провайдера, иначе бронирование отклонит слот
	granularity := provider.SlotStep(req.GranularityMinutes, uc.defaultGranularity)

	response := &Response{
		Date:               date,
		ProviderID:         req.ProviderID,
		ServiceID:          req.ServiceID,
		DurationMinutes:    service.DurationMinutes,
		GranularityMinutes: granularity,
		Slots:              []Slot{},
	}

	// 4. Прошедшая дата - без обращения к расписанию
	now := uc.timeProvider.Now()
	if availability.IsPastDate(date, now, provider.Location()) {
		uc.logger.Info("GetAvailableSlots: date %s is in the past", date.Format(domain.DateFormat))
		return response, nil
	}

	// 5. Рабочие часы на день недели
	hours, err := uc.scheduleReader.GetBusinessHours(ctx, req.ProviderID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get business hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get business hours: %v", ErrInternal, err)
	}

	dayHours := domain.FindBusinessHours(hours, date.Weekday())
	if _, open := dayHours.Window(); !open {
		uc.logger.Info("GetAvailableSlots: provider=%d is closed on %s", req.ProviderID, date.Format(domain.DateFormat))
		return response, nil
	}

	// 6. Отсутствия, покрывающие дату
	timeOff, err := uc.scheduleReader.GetTimeOff(ctx, req.ProviderID, date, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get time off: %v", err)
		return nil, fmt.Errorf("%w: failed to get time off: %v", ErrInternal, err)
	}

	// 7. Активные записи на дату
	appointments, err := uc.appointmentRepo.GetByProviderWithFilter(ctx, domain.AppointmentsFilter{
		ProviderID: req.ProviderID,
		StartDate:  &date,
		EndDate:    &date,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 8. Кандидаты минус занятые интервалы
	slots, err := availability.Available(availability.Input{
		Date:               date,
		DurationMinutes:    service.DurationMinutes,
		GranularityMinutes: granularity,
		Hours:              dayHours,
		TimeOff:            timeOff,
		Now:                now,
		Location:           provider.Location(),
		MinNoticeMinutes:   provider.MinBookingNoticeMinutes,
	}, appointments)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to calculate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to calculate slots: %v", ErrInternal, err)
	}

	for _, s := range slots {
		response.Slots = append(response.Slots, Slot{StartTime: s.Start, EndTime: s.End})
	}

	uc.logger.Info("GetAvailableSlots: %d slots for provider=%d, service=%d, date=%s",
		len(response.Slots), req.ProviderID, req.ServiceID, date.Format(domain.DateFormat))

	return response, nil
}
