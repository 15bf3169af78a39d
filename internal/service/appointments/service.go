package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifications"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	providerRepo    ProviderRepository
	txManager       TransactionManager
	notifier        Notifier
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	providerRepo ProviderRepository,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		providerRepo:    providerRepo,
		txManager:       txManager,
		notifier:        notifier,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Доступ есть у клиента записи и у владельца провайдера
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appointment, err := s.getAppointment(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkUserAccess(ctx, appointment, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appointment), nil
}

// GetUserAppointments получает историю записей клиента
// Клиент видит только свои записи
func (s *Service) GetUserAppointments(ctx context.Context, req *models.GetUserAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetUserAppointments: fetching appointments for user=%d, status=%v", req.UserID, req.Status)

	if req.RequesterID != req.UserID {
		s.logger.Warn("GetUserAppointments: user=%d requested appointments of user=%d", req.RequesterID, req.UserID)
		return nil, ErrAccessDenied
	}

	var status *domain.AppointmentStatus
	if req.Status != nil {
		parsed, err := domain.ParseAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserAppointments: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		status = &parsed
	}

	appointments, err := s.appointmentRepo.GetByUserID(ctx, req.UserID, status)
	if err != nil {
		s.logger.Error("GetUserAppointments: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserAppointments: successfully fetched %d appointments for user=%d", len(appointments), req.UserID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetProviderAppointments получает записи провайдера с фильтрацией по периоду и статусу
// Доступно только владельцу провайдера
func (s *Service) GetProviderAppointments(ctx context.Context, req *models.GetProviderAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetProviderAppointments: fetching appointments for provider=%d, user=%d, status=%v, includeInactive=%t",
		req.ProviderID, req.UserID, req.Status, req.IncludeInactive)

	if err := s.checkOwnerAccess(ctx, req.ProviderID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetProviderAppointments: invalid filter for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	appointments, err := s.appointmentRepo.GetByProviderWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetProviderAppointments: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetProviderAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetProviderAppointments: successfully fetched %d appointments for provider=%d", len(appointments), req.ProviderID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись
// Отменить может клиент записи или владелец провайдера, только из scheduled/confirmed.
// Отмена сразу освобождает интервал для новых записей
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", appointmentID, req.UserID)

	if req.CancellationReason != nil && len(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellationReason must be at most %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	var cancelled *domain.Appointment

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Строка блокируется до конца транзакции
		appointment, err := s.getAppointment(txCtx, "Cancel", appointmentID)
		if err != nil {
			return err
		}

		if err := s.checkUserAccess(txCtx, appointment, req.UserID); err != nil {
			s.logger.Warn("Cancel: access denied for user=%d to cancel appointment id=%d", req.UserID, appointmentID)
			return err
		}

		if !appointment.CanBeCancelled() {
			s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", appointmentID, appointment.Status)
			return ErrCannotCancel
		}

		if err := s.appointmentRepo.Cancel(txCtx, appointmentID, req.CancellationReason); err != nil {
			return s.mapRepoError("Cancel", appointmentID, err)
		}

		now := time.Now()
		appointment.Status = domain.StatusCancelled
		appointment.CancellationReason = req.CancellationReason
		appointment.CancelledAt = &now
		appointment.UpdatedAt = now
		cancelled = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", appointmentID)
	s.notifier.Notify(ctx, notifications.EventAppointmentCancelled, cancelled)

	return models.FromDomainAppointment(cancelled), nil
}

// UpdateStatus переводит запись в новый статус
// Доступно только владельцу провайдера, переход проверяется по машине состояний
func (s *Service) UpdateStatus(ctx context.Context, appointmentID int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by user=%d",
		appointmentID, req.Status, req.UserID)

	newStatus, err := domain.ParseAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, appointmentID)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var updated *domain.Appointment

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		appointment, err := s.getAppointment(txCtx, "UpdateStatus", appointmentID)
		if err != nil {
			return err
		}

		if err := s.checkOwnerAccess(txCtx, appointment.ProviderID, req.UserID); err != nil {
			return err
		}

		if !appointment.Status.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment id=%d",
				appointment.Status, newStatus, appointmentID)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appointment.Status, newStatus)
		}

		// Отмена через смену статуса тоже фиксирует время отмены
		if newStatus == domain.StatusCancelled {
			err = s.appointmentRepo.Cancel(txCtx, appointmentID, nil)
		} else {
			err = s.appointmentRepo.UpdateStatus(txCtx, appointmentID, newStatus)
		}
		if err != nil {
			return s.mapRepoError("UpdateStatus", appointmentID, err)
		}

		now := time.Now()
		if newStatus == domain.StatusCancelled {
			appointment.CancelledAt = &now
		}
		appointment.Status = newStatus
		appointment.UpdatedAt = now
		updated = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", appointmentID, newStatus)

	eventType := notifications.EventAppointmentStatusChanged
	if newStatus == domain.StatusCancelled {
		eventType = notifications.EventAppointmentCancelled
	}
	s.notifier.Notify(ctx, eventType, updated)

	return models.FromDomainAppointment(updated), nil
}

// Вспомогательные методы

func (s *Service) getAppointment(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}
	return appointment, nil
}

func (s *Service) mapRepoError(op string, id int64, err error) error {
	if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
		s.logger.Warn("%s: appointment id=%d not found during update", op, id)
		return ErrAppointmentNotFound
	}
	s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
}

// checkUserAccess проверяет, что пользователь - клиент записи или владелец провайдера
func (s *Service) checkUserAccess(ctx context.Context, appointment *domain.Appointment, userID int64) error {
	if appointment.IsClient(userID) {
		return nil
	}

	if err := s.checkOwnerAccess(ctx, appointment.ProviderID, userID); err != nil {
		if errors.Is(err, ErrInternal) {
			return err
		}
		return ErrAccessDenied
	}

	return nil
}

// checkOwnerAccess проверяет, что пользователь управляет провайдером
func (s *Service) checkOwnerAccess(ctx context.Context, providerID int64, userID int64) error {
	provider, err := s.providerRepo.GetProvider(ctx, providerID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrProviderNotFound) {
			s.logger.Warn("checkOwnerAccess: provider id=%d not found", providerID)
			return ErrProviderNotFound
		}
		s.logger.Error("checkOwnerAccess: failed to get provider id=%d: %v", providerID, err)
		return fmt.Errorf("%w: checkOwnerAccess - failed to get provider: %v", ErrInternal, err)
	}

	if !provider.IsOwner(userID) {
		s.logger.Warn("checkOwnerAccess: user=%d is not an owner of provider=%d", userID, providerID)
		return ErrAccessDenied
	}

	return nil
}
