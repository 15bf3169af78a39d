package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

// Service сервис управления расписанием провайдера
// Все операции доступны только владельцу провайдера
type Service struct {
	scheduleRepo ScheduleRepository
	providerRepo ProviderRepository
	cache        CacheInvalidator
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
// cache может быть nil, если кэш отключён
func NewService(
	scheduleRepo ScheduleRepository,
	providerRepo ProviderRepository,
	cache CacheInvalidator,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		providerRepo: providerRepo,
		cache:        cache,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetSchedule возвращает недельное расписание и отсутствия провайдера
func (s *Service) GetSchedule(ctx context.Context, providerID, userID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: fetching schedule for provider=%d by user=%d", providerID, userID)

	if err := s.checkOwnerAccess(ctx, providerID, userID); err != nil {
		return nil, err
	}

	hours, err := s.scheduleRepo.GetBusinessHours(ctx, providerID)
	if err != nil {
		s.logger.Error("GetSchedule: failed to get business hours for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: GetSchedule - failed to get business hours: %v", ErrInternal, err)
	}

	timeOff, err := s.scheduleRepo.ListTimeOff(ctx, providerID)
	if err != nil {
		s.logger.Error("GetSchedule: failed to get time off for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: GetSchedule - failed to get time off: %v", ErrInternal, err)
	}

	return &models.ScheduleResponse{
		ProviderID:    providerID,
		BusinessHours: models.FromDomainBusinessHours(hours),
		TimeOff:       models.FromDomainTimeOffList(timeOff),
	}, nil
}

// ReplaceBusinessHours полностью заменяет недельное расписание
// Дни без записи считаются закрытыми. Каждый день недели может встречаться один раз
func (s *Service) ReplaceBusinessHours(ctx context.Context, req *models.UpdateBusinessHoursRequest) ([]models.BusinessHoursItem, error) {
	s.logger.Info("ReplaceBusinessHours: replacing %d days for provider=%d by user=%d",
		len(req.Hours), req.ProviderID, req.UserID)

	// 1. Валидация
	hours := req.ToDomain()
	if err := validateBusinessHours(hours); err != nil {
		s.logger.Warn("ReplaceBusinessHours: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Права владельца
	if err := s.checkOwnerAccess(ctx, req.ProviderID, req.UserID); err != nil {
		return nil, err
	}

	// 3. Удаление и вставка одной транзакцией
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.scheduleRepo.ReplaceBusinessHours(txCtx, req.ProviderID, hours)
	})
	if err != nil {
		s.logger.Error("ReplaceBusinessHours: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: ReplaceBusinessHours - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "ReplaceBusinessHours", req.ProviderID)

	s.logger.Info("ReplaceBusinessHours: successfully replaced business hours for provider=%d", req.ProviderID)
	return models.FromDomainBusinessHours(hours), nil
}

// CreateTimeOff добавляет отсутствие (весь день или интервал внутри дня)
// Уже созданные записи не отменяются
func (s *Service) CreateTimeOff(ctx context.Context, req *models.CreateTimeOffRequest) (*models.TimeOffResponse, error) {
	s.logger.Info("CreateTimeOff: provider=%d, %s..%s by user=%d",
		req.ProviderID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat), req.UserID)

	timeOff := req.ToDomain()
	if err := timeOff.Validate(); err != nil {
		s.logger.Warn("CreateTimeOff: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.checkOwnerAccess(ctx, req.ProviderID, req.UserID); err != nil {
		return nil, err
	}

	created, err := s.scheduleRepo.CreateTimeOff(ctx, timeOff)
	if err != nil {
		s.logger.Error("CreateTimeOff: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: CreateTimeOff - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "CreateTimeOff", req.ProviderID)

	s.logger.Info("CreateTimeOff: successfully created time off id=%d", created.ID)
	return models.FromDomainTimeOff(created), nil
}

// DeleteTimeOff удаляет отсутствие провайдера
func (s *Service) DeleteTimeOff(ctx context.Context, providerID, timeOffID, userID int64) error {
	s.logger.Info("DeleteTimeOff: deleting time off id=%d of provider=%d by user=%d", timeOffID, providerID, userID)

	if err := s.checkOwnerAccess(ctx, providerID, userID); err != nil {
		return err
	}

	if err := s.scheduleRepo.DeleteTimeOff(ctx, providerID, timeOffID); err != nil {
		if errors.Is(err, scheduleRepo.ErrTimeOffNotFound) {
			s.logger.Warn("DeleteTimeOff: time off id=%d not found for provider=%d", timeOffID, providerID)
			return ErrTimeOffNotFound
		}
		s.logger.Error("DeleteTimeOff: repository error for time off id=%d: %v", timeOffID, err)
		return fmt.Errorf("%w: DeleteTimeOff - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "DeleteTimeOff", providerID)

	s.logger.Info("DeleteTimeOff: successfully deleted time off id=%d", timeOffID)
	return nil
}

// Вспомогательные методы

// invalidate сбрасывает кэш; устаревшие данные живут не дольше TTL, поэтому ошибка только логируется
func (s *Service) invalidate(ctx context.Context, op string, providerID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, providerID); err != nil {
		s.logger.Warn("%s: failed to invalidate schedule cache for provider=%d: %v", op, providerID, err)
	}
}

// checkOwnerAccess проверяет, что пользователь управляет провайдером
func (s *Service) checkOwnerAccess(ctx context.Context, providerID, userID int64) error {
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

// validateBusinessHours проверяет каждый день и отсутствие дублей
func validateBusinessHours(hours []*domain.BusinessHours) error {
	seen := make(map[time.Weekday]bool, len(hours))
	for _, h := range hours {
		if err := h.Validate(); err != nil {
			return err
		}
		if seen[h.DayOfWeek] {
			return fmt.Errorf("%w: duplicate entry for %s", domain.ErrValidation, h.DayOfWeek)
		}
		seen[h.DayOfWeek] = true
	}
	return nil
}
