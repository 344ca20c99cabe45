package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
)

// Service сервис для работы с расписанием тенанта
type Service struct {
	scheduleRepo ScheduleRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(scheduleRepo ScheduleRepository, logger Logger) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		logger:       logger,
	}
}

// Get возвращает расписание тенанта
func (s *Service) Get(ctx context.Context, tenantID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("Get: fetching schedule for tenant=%d", tenantID)

	if tenantID <= 0 {
		return nil, fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	config, err := s.scheduleRepo.GetByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrConfigNotFound) {
			s.logger.Warn("Get: tenant=%d has no schedule", tenantID)
			return nil, ErrConfigNotFound
		}
		s.logger.Error("Get: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainConfig(config), nil
}

// Update создает или изменяет расписание тенанта
// Для нового расписания непереданные поля берутся по умолчанию, рабочие дни и часы обязательны
func (s *Service) Update(ctx context.Context, tenantID int64, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Update: updating schedule for tenant=%d", tenantID)

	if tenantID <= 0 || req == nil {
		return nil, fmt.Errorf("%w: tenantID and request are required", ErrInvalidInput)
	}

	config, err := s.scheduleRepo.GetByTenant(ctx, tenantID)
	switch {
	case errors.Is(err, scheduleRepo.ErrConfigNotFound):
		config = &domain.ScheduleConfig{
			TenantID:            tenantID,
			SlotDurationMinutes: domain.DefaultSlotDurationMinutes,
			MinAdvanceHours:     domain.DefaultMinAdvanceHours,
			MaxAdvanceDays:      domain.DefaultMaxAdvanceDays,
		}
	case err != nil:
		s.logger.Error("Update: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	req.ApplyToConfig(config)

	if err := validateConfig(config); err != nil {
		s.logger.Warn("Update: validation failed for tenant=%d: %v", tenantID, err)
		return nil, err
	}

	updated, err := s.scheduleRepo.Upsert(ctx, config)
	if err != nil {
		s.logger.Error("Update: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated schedule for tenant=%d", tenantID)
	return models.FromDomainConfig(updated), nil
}

// validateConfig валидирует параметры расписания
func validateConfig(c *domain.ScheduleConfig) error {
	if len(c.WorkingDays) == 0 {
		return fmt.Errorf("%w: workingDays must not be empty", ErrInvalidInput)
	}

	seen := make(map[time.Weekday]bool, len(c.WorkingDays))
	for _, d := range c.WorkingDays {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("%w: workingDays must be between 0 and 6", ErrInvalidInput)
		}
		if seen[d] {
			return fmt.Errorf("%w: duplicate working day %d", ErrInvalidInput, d)
		}
		seen[d] = true
	}

	if err := c.StartTime.Validate(); err != nil || c.StartTime.IsZero() {
		return fmt.Errorf("%w: invalid startTime %q", ErrInvalidInput, c.StartTime)
	}

	if err := c.EndTime.Validate(); err != nil || c.EndTime.IsZero() {
		return fmt.Errorf("%w: invalid endTime %q", ErrInvalidInput, c.EndTime)
	}

	if c.StartTime.Minutes() >= c.EndTime.Minutes() {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}

	if c.SlotDurationMinutes < domain.MinSlotDurationMinutes || c.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slotDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}

	if c.MinAdvanceHours < domain.MinAdvanceHours || c.MinAdvanceHours > domain.MaxAdvanceHours {
		return fmt.Errorf("%w: minAdvanceHours must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceHours, domain.MaxAdvanceHours)
	}

	if c.MaxAdvanceDays < domain.MinAdvanceDays || c.MaxAdvanceDays > domain.MaxAdvanceDays {
		return fmt.Errorf("%w: maxAdvanceDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceDays, domain.MaxAdvanceDays)
	}

	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, c.Timezone)
		}
	}

	return nil
}
