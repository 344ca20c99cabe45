package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/schedule"
	catalogClient "github.com/m04kA/SMC-AvailabilityService/internal/integrations/catalogservice"
)

// UseCase use case для получения слотов на дату
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	blockedRepo  BlockedRangeRepository
	catalog      CatalogClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	blockedRepo BlockedRangeRepository,
	catalog CatalogClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		blockedRepo:  blockedRepo,
		catalog:      catalog,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute возвращает упорядоченный список слотов с признаком доступности
// "Нет свободных слотов" - нормальный результат, ошибка только для некорректного ввода и сбоев хранилища
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	date := availability.CivilDate(req.Date)
	uc.logger.Info("GetAvailableSlots: tenant=%d, service=%d, date=%s",
		req.TenantID, req.ServiceID, date.Format(domain.DateFormat))

	service, err := uc.catalog.GetService(ctx, req.TenantID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found for tenant=%d", req.ServiceID, req.TenantID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	resp := &Response{
		TenantID:               req.TenantID,
		ServiceID:              req.ServiceID,
		Date:                   date,
		ServiceDurationMinutes: service.DurationMinutes,
		Slots:                  []domain.TimeSlot{},
	}

	now := uc.timeProvider.Now()

	// Расписание, бронирования и блокировки читаются из одного снимка
	err = uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		config, err := uc.scheduleRepo.GetByTenant(txCtx, req.TenantID)
		if errors.Is(err, scheduleRepo.ErrConfigNotFound) {
			uc.logger.Info("GetAvailableSlots: tenant=%d has no schedule", req.TenantID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
		}
		resp.Configured = true

		if err := validateDate(date, now, config); err != nil {
			return err
		}

		resp.WorkingDay = config.IsWorkingDay(date)
		if !resp.WorkingDay {
			return nil
		}

		bookings, err := uc.bookingRepo.ListActiveByDate(txCtx, req.TenantID, date)
		if err != nil {
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		blocked, err := uc.blockedRepo.ListByDate(txCtx, req.TenantID, date)
		if err != nil {
			return fmt.Errorf("%w: failed to get blocked ranges: %v", ErrInternal, err)
		}

		resp.Slots = availability.Build(availability.Input{
			Date:                   date,
			Config:                 config,
			ServiceDurationMinutes: service.DurationMinutes,
			Bookings:               bookings,
			BlockedRanges:          blocked,
			Now:                    now,
		})
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrInvalidDate) || errors.Is(err, ErrDateTooFarInFuture) {
			uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
			return nil, err
		}
		uc.logger.Error("GetAvailableSlots: tenant=%d, date=%s: %v", req.TenantID, date.Format(domain.DateFormat), err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailableSlots: tenant=%d, date=%s, %d slots", req.TenantID, date.Format(domain.DateFormat), len(resp.Slots))

	return resp, nil
}

// validateRequest валидирует входные данные запроса
// Отсутствие тенанта никогда не заменяется значением по умолчанию
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет окно бронирования в часовом поясе тенанта
func validateDate(date, now time.Time, config *domain.ScheduleConfig) error {
	err := availability.ValidateDate(date, now, config.Location(), config.MaxAdvanceDays)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, availability.ErrDateInPast):
		return ErrInvalidDate
	case errors.Is(err, availability.ErrDateTooFar):
		return fmt.Errorf("%w: %v", ErrDateTooFarInFuture, err)
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
