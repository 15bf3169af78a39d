package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifications"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// UseCase use case бронирования слота
type UseCase struct {
	catalogRepo        CatalogRepository
	scheduleRepo       ScheduleRepository
	appointmentRepo    AppointmentRepository
	txManager          TransactionManager
	notifier           Notifier
	clients            ClientDirectory
	metrics            Metrics
	defaultGranularity int
	timeProvider       TimeProvider
	logger             Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalogRepo CatalogRepository,
	scheduleRepo ScheduleRepository,
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	notifier Notifier,
	clients ClientDirectory,
	metrics Metrics,
	defaultGranularity int,
	logger Logger,
) *UseCase {
	if defaultGranularity <= 0 {
		defaultGranularity = domain.DefaultSlotGranularityMinutes
	}
	return &UseCase{
		catalogRepo:        catalogRepo,
		scheduleRepo:       scheduleRepo,
		appointmentRepo:    appointmentRepo,
		txManager:          txManager,
		notifier:           notifier,
		clients:            clients,
		metrics:            metrics,
		defaultGranularity: defaultGranularity,
		timeProvider:       &RealTimeProvider{},
		logger:             logger,
	}
}

// Execute атомарно проверяет доступность слота и создает запись
// Доступность пересчитывается внутри SERIALIZABLE транзакции под блокировкой (провайдер, дата).
// Проверка может опираться на снимок до чужого commit, окончательно пересечение отсекает
// ограничение EXCLUDE при вставке.
// Ошибки: domain.ErrSlotUnavailable - слот занят, нужно заново получить доступные слоты;
// domain.ErrTransactionTimeout - блокировку не удалось получить, операцию можно повторить
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: user=%d, provider=%d, service=%d, date=%s, time=%s",
		req.UserID, req.ProviderID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	date := domain.DateOnly(req.Date)

	// 2. Получаем провайдера и услугу
	provider, err := uc.catalogRepo.GetProvider(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrProviderNotFound) {
			uc.logger.Warn("CreateAppointment: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	service, err := uc.catalogRepo.GetService(ctx, req.ProviderID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("CreateAppointment: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}
	if err := service.Validate(); err != nil {
		uc.logger.Error("CreateAppointment: service id=%d is misconfigured: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 3. Интервал записи: переход через полночь запрещён
	window, err := domain.WindowFromDuration(req.StartTime, service.DurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateAppointment: invalid window %s + %d min: %v", req.StartTime, service.DurationMinutes, err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if availability.IsPastDate(date, now, provider.Location()) {
		uc.logger.Warn("CreateAppointment: date %s is in the past", date.Format(domain.DateFormat))
		uc.observe(metrics.BookingOutcomeSlotUnavailable)
		return nil, fmt.Errorf("%w: date %s is in the past", domain.ErrSlotUnavailable, date.Format(domain.DateFormat))
	}

	clientEmail, clientPhone := uc.clientContacts(ctx, req)

	var result *domain.Appointment

	// 4. Проверка и вставка в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Сериализуем вставки одного провайдера на одну дату
		if err := uc.appointmentRepo.LockProviderDate(txCtx, req.ProviderID, date); err != nil {
			uc.logger.Warn("CreateAppointment: failed to lock provider=%d date=%s: %v",
				req.ProviderID, date.Format(domain.DateFormat), err)
			return fmt.Errorf("%w: failed to lock: %w", ErrInternal, err)
		}

		// 4.2. Актуальное расписание
		hours, err := uc.scheduleRepo.GetBusinessHoursForDay(txCtx, req.ProviderID, date.Weekday())
		if err != nil && !errors.Is(err, scheduleRepo.ErrBusinessHoursNotFound) {
			uc.logger.Error("CreateAppointment: failed to get business hours: %v", err)
			return fmt.Errorf("%w: failed to get business hours: %w", ErrInternal, err)
		}

		timeOff, err := uc.scheduleRepo.GetTimeOff(txCtx, req.ProviderID, date, date)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get time off: %v", err)
			return fmt.Errorf("%w: failed to get time off: %w", ErrInternal, err)
		}

		// 4.3. Активные записи на дату с блокировкой (FOR UPDATE)
		existing, err := uc.appointmentRepo.GetByProviderWithFilter(txCtx, domain.AppointmentsFilter{
			ProviderID: req.ProviderID,
			StartDate:  &date,
			EndDate:    &date,
		})
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
		}

		// 4.4. Пересчитываем доступность на текущем состоянии
		slots, err := availability.Available(availability.Input{
			Date:               date,
			DurationMinutes:    service.DurationMinutes,
			GranularityMinutes: provider.Granularity(uc.defaultGranularity),
			Hours:              hours,
			TimeOff:            timeOff,
			Now:                now,
			Location:           provider.Location(),
			MinNoticeMinutes:   provider.MinBookingNoticeMinutes,
		}, existing)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to calculate slots: %v", err)
			return fmt.Errorf("%w: failed to calculate slots: %v", ErrInternal, err)
		}

		if _, ok := availability.Find(slots, window.Start); !ok {
			uc.logger.Warn("CreateAppointment: slot %s on %s is not available for provider=%d",
				window, date.Format(domain.DateFormat), req.ProviderID)
			return fmt.Errorf("%w: %s on %s", domain.ErrSlotUnavailable, window, date.Format(domain.DateFormat))
		}

		// 4.5. Создаем запись со снимком услуги
		appointment := &domain.Appointment{
			ProviderID:      req.ProviderID,
			ServiceID:       req.ServiceID,
			ClientName:      strings.TrimSpace(req.ClientName),
			ClientEmail:     clientEmail,
			ClientPhone:     clientPhone,
			Date:            date,
			StartTime:       window.Start,
			EndTime:         window.End,
			DurationMinutes: service.DurationMinutes,
			Status:          domain.StatusScheduled,
			ServiceName:     service.Name,
			ServicePrice:    service.Price,
			Notes:           req.Notes,
		}
		if req.UserID > 0 {
			userID := req.UserID
			appointment.ClientUserID = &userID
		}

		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			// Пересечение с записью, закоммиченной после нашего снимка
			if errors.Is(err, appointmentRepo.ErrSlotNotAvailable) {
				uc.logger.Warn("CreateAppointment: storage rejected overlapping slot %s: %v", window, err)
				return fmt.Errorf("%w: %s on %s", domain.ErrSlotUnavailable, window, date.Format(domain.DateFormat))
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, uc.classify(err)
	}

	uc.observe(metrics.BookingOutcomeCreated)
	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	// 5. Уведомление после commit, ошибки доставки на запись не влияют
	uc.notifier.Notify(ctx, notifications.EventAppointmentCreated, result)

	return &Response{Appointment: result}, nil
}

// clientContacts дополняет контакты из запроса профилем авторизованного клиента
// Недоступность UserService не мешает записи
func (uc *UseCase) clientContacts(ctx context.Context, req *Request) (email, phone *string) {
	email, phone = req.ClientEmail, req.ClientPhone
	if uc.clients == nil || req.UserID <= 0 || (email != nil && phone != nil) {
		return email, phone
	}

	user, err := uc.clients.GetUserWithGracefulDegradation(ctx, req.UserID)
	if err != nil {
		uc.logger.Warn("CreateAppointment: client profile unavailable for user=%d: %v", req.UserID, err)
		return email, phone
	}

	if email == nil {
		email = user.Email
	}
	if phone == nil {
		phone = user.Phone
	}
	return email, phone
}

// classify сводит ошибки транзакции к таксономии бронирования и учитывает их в метриках
func (uc *UseCase) classify(err error) error {
	switch {
	case errors.Is(err, domain.ErrSlotUnavailable):
		uc.observe(metrics.BookingOutcomeSlotUnavailable)
		return err
	case errors.Is(err, txmanager.ErrLockTimeout), errors.Is(err, txmanager.ErrSerializationFailure):
		uc.logger.Warn("CreateAppointment: transaction timeout: %v", err)
		uc.observe(metrics.BookingOutcomeTimeout)
		return fmt.Errorf("%w: %v", domain.ErrTransactionTimeout, err)
	default:
		uc.observe(metrics.BookingOutcomeError)
		if errors.Is(err, ErrInternal) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

func (uc *UseCase) observe(outcome string) {
	if uc.metrics != nil {
		uc.metrics.ObserveBooking(outcome)
	}
}
