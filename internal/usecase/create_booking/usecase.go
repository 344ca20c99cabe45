package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/booking"
	scheduleRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/schedule"
	catalogClient "github.com/m04kA/SMC-AvailabilityService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-AvailabilityService/pkg/txmanager"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Результаты коммита для метрик
const (
	outcomeCreated  = "created"
	outcomeReplayed = "replayed"
	outcomeConflict = "conflict"
	outcomeRejected = "rejected"
	outcomeTimeout  = "timeout"
	outcomeError    = "error"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	scheduleRepo  ScheduleRepository
	blockedRepo   BlockedRangeRepository
	catalog       CatalogClient
	txManager     TransactionManager
	cache         FullDatesCache
	metrics       Metrics
	commitTimeout time.Duration
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	blockedRepo BlockedRangeRepository,
	catalog CatalogClient,
	txManager TransactionManager,
	cache FullDatesCache,
	metrics Metrics,
	commitTimeout time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		scheduleRepo:  scheduleRepo,
		blockedRepo:   blockedRepo,
		catalog:       catalog,
		txManager:     txManager,
		cache:         cache,
		metrics:       metrics,
		commitTimeout: commitTimeout,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute резервирует слот
//
// Коммит выполняется в одной транзакции READ COMMITTED:
//  1. pg_advisory_xact_lock на (тенант, дата) сериализует коммиты одного дня
//  2. повтор с тем же ключом идемпотентности возвращает исходное бронирование
//  3. расписание, бронирования и блокировки перечитываются после блокировки,
//     поэтому видят все ранее зафиксированные коммиты, и слот проверяется заново
//  4. вставка защищена exclusion constraint на пересечение активных интервалов
//
// Коммит, не уложившийся в commitTimeout, откатывается и возвращает ErrCommitTimeout
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// нормализуем копию, запрос вызывающего не меняется
	normalized := *req
	normalized.Date = availability.CivilDate(req.Date)
	if normalized.Status == "" {
		normalized.Status = domain.StatusPending
	}
	req = &normalized

	uc.logger.Info("CreateBooking: tenant=%d, service=%d, date=%s, time=%s",
		req.TenantID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	service, err := uc.catalog.GetService(ctx, req.TenantID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found for tenant=%d", req.ServiceID, req.TenantID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	started := time.Now()
	resp, err := uc.commit(ctx, req, service)
	if errors.Is(err, errReplay) {
		resp, err = uc.replay(ctx, req)
	}

	outcome := uc.outcome(resp, err)
	uc.metrics.ObserveCommit(outcome, time.Since(started))

	if err != nil {
		switch outcome {
		case outcomeConflict:
			uc.metrics.BookingConflict()
			uc.logger.Warn("CreateBooking: tenant=%d, date=%s, time=%s: %v",
				req.TenantID, req.Date.Format(domain.DateFormat), req.StartTime, err)
		case outcomeRejected:
			uc.logger.Warn("CreateBooking: rejected: %v", err)
		default:
			uc.logger.Error("CreateBooking: commit failed: %v", err)
		}
		return nil, err
	}

	if resp.Replayed {
		uc.logger.Info("CreateBooking: replayed booking id=%d for idempotency key %q", resp.Booking.ID, req.IdempotencyKey)
		return resp, nil
	}

	uc.metrics.BookingCreated(string(resp.Booking.Status))

	if err := uc.cache.Invalidate(ctx, req.TenantID); err != nil {
		uc.logger.Warn("CreateBooking: failed to invalidate full dates cache for tenant=%d: %v", req.TenantID, err)
	}

	uc.logger.Info("CreateBooking: created booking id=%d", resp.Booking.ID)

	return resp, nil
}

// commit выполняет транзакционную часть с ограничением по времени
func (uc *UseCase) commit(ctx context.Context, req *Request, service *domain.ServiceDefinition) (*Response, error) {
	commitCtx, cancel := context.WithTimeout(ctx, uc.commitTimeout)
	defer cancel()

	var resp *Response
	fp := fingerprint(req)
	now := uc.timeProvider.Now()

	err := uc.txManager.Do(commitCtx, func(txCtx context.Context) error {
		if err := uc.bookingRepo.LockTenantDate(txCtx, req.TenantID, req.Date); err != nil {
			return storageErr("lock tenant date", err)
		}

		if req.IdempotencyKey != "" {
			replayed, err := uc.lookupIdempotent(txCtx, req.TenantID, req.IdempotencyKey, fp)
			if err != nil {
				return err
			}
			if replayed != nil {
				resp = &Response{Booking: replayed, Replayed: true}
				return nil
			}
		}

		config, err := uc.scheduleRepo.GetByTenant(txCtx, req.TenantID)
		if errors.Is(err, scheduleRepo.ErrConfigNotFound) {
			return ErrConfigMissing
		}
		if err != nil {
			return storageErr("get schedule", err)
		}

		if err := validateDate(req.Date, now, config); err != nil {
			return err
		}

		if !config.IsWorkingDay(req.Date) {
			return fmt.Errorf("%w: %s", ErrClosedDay, req.Date.Weekday())
		}

		bookings, err := uc.bookingRepo.ListActiveByDate(txCtx, req.TenantID, req.Date)
		if err != nil {
			return storageErr("list bookings", err)
		}

		blocked, err := uc.blockedRepo.ListByDate(txCtx, req.TenantID, req.Date)
		if err != nil {
			return storageErr("list blocked ranges", err)
		}

		slots := availability.Build(availability.Input{
			Date:                   req.Date,
			Config:                 config,
			ServiceDurationMinutes: service.DurationMinutes,
			Bookings:               bookings,
			BlockedRanges:          blocked,
			Now:                    now,
		})

		if err := checkSlot(slots, req.StartTime); err != nil {
			return err
		}

		booking := &domain.Booking{
			TenantID:        req.TenantID,
			ServiceID:       req.ServiceID,
			BookingDate:     req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: service.DurationMinutes,
			Status:          req.Status,
			Customer:        req.Customer,
		}
		if req.IdempotencyKey != "" {
			key := req.IdempotencyKey
			booking.IdempotencyKey = &key
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				return fmt.Errorf("%w: rejected by store: %v", ErrSlotConflict, err)
			}
			return storageErr("create booking", err)
		}

		if req.IdempotencyKey != "" {
			err := uc.bookingRepo.SaveIdempotencyRecord(txCtx, &domain.IdempotencyRecord{
				TenantID:    req.TenantID,
				Key:         req.IdempotencyKey,
				BookingID:   created.ID,
				Fingerprint: fp,
			})
			if errors.Is(err, bookingRepo.ErrDuplicateKey) {
				return errReplay
			}
			if err != nil {
				return storageErr("save idempotency key", err)
			}
		}

		resp = &Response{Booking: created}
		return nil
	})

	if err != nil {
		if commitCtx.Err() != nil && ctx.Err() == nil && !isDomainError(err) {
			return nil, fmt.Errorf("%w: exceeded %s: %v", ErrCommitTimeout, uc.commitTimeout, err)
		}
		if errors.Is(err, txmanager.ErrTransaction) {
			return nil, fmt.Errorf("%w: %v", ErrCommitTimeout, err)
		}
		return nil, err
	}

	return resp, nil
}

// replay обрабатывает гонку двух запросов с одним ключом на разные даты:
// проигравшая транзакция откатилась, возвращаем результат победившей
func (uc *UseCase) replay(ctx context.Context, req *Request) (*Response, error) {
	booking, err := uc.lookupIdempotent(ctx, req.TenantID, req.IdempotencyKey, fingerprint(req))
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: idempotency key %q vanished after conflict", ErrInternal, req.IdempotencyKey)
	}
	return &Response{Booking: booking, Replayed: true}, nil
}

// lookupIdempotent возвращает бронирование, созданное ранее с тем же ключом, или nil
func (uc *UseCase) lookupIdempotent(ctx context.Context, tenantID int64, key, fp string) (*domain.Booking, error) {
	rec, err := uc.bookingRepo.GetIdempotencyRecord(ctx, tenantID, key)
	if errors.Is(err, bookingRepo.ErrIdempotencyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get idempotency key", err)
	}

	if rec.Fingerprint != fp {
		return nil, fmt.Errorf("%w: key %q", ErrIdempotencyKeyReused, key)
	}

	booking, err := uc.bookingRepo.GetByID(ctx, tenantID, rec.BookingID)
	if err != nil {
		return nil, storageErr("get replayed booking", err)
	}

	return booking, nil
}

func (uc *UseCase) outcome(resp *Response, err error) string {
	switch {
	case err == nil && resp.Replayed:
		return outcomeReplayed
	case err == nil:
		return outcomeCreated
	case errors.Is(err, ErrSlotConflict):
		return outcomeConflict
	case errors.Is(err, ErrCommitTimeout):
		return outcomeTimeout
	case isDomainError(err):
		return outcomeRejected
	default:
		return outcomeError
	}
}

// checkSlot сопоставляет результат пересчёта доступности с ошибкой коммита
func checkSlot(slots []domain.TimeSlot, start types.TimeString) error {
	slot, ok := availability.Lookup(slots, start)
	if !ok {
		return fmt.Errorf("%w: %s is not on the slot grid", ErrInvalidTimeSlot, start)
	}

	if slot.Available {
		return nil
	}

	switch slot.Code {
	case domain.CodeAfterClosing:
		return fmt.Errorf("%w: %s", ErrInvalidTimeSlot, slot.Reason)
	case domain.CodeAdvanceNotice:
		return fmt.Errorf("%w: %s", ErrTooLateToBook, slot.Reason)
	default:
		return fmt.Errorf("%w: %s", ErrSlotConflict, slot.Reason)
	}
}

// storageErr отделяет недоступность хранилища от прочих ошибок
func storageErr(op string, err error) error {
	if errors.Is(err, bookingRepo.ErrUnavailable) {
		return fmt.Errorf("%w: %s: %v", ErrCommitTimeout, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}

func isDomainError(err error) bool {
	for _, target := range []error{
		ErrConfigMissing,
		ErrInvalidDate,
		ErrDateTooFarInFuture,
		ErrClosedDay,
		ErrInvalidTimeSlot,
		ErrTooLateToBook,
		ErrSlotConflict,
		ErrIdempotencyKeyReused,
		ErrInvalidInput,
		ErrServiceNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// validateRequest валидирует входные данные запроса
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

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil || req.StartTime == "24:00" {
		return fmt.Errorf("%w: invalid startTime format %q", ErrInvalidInput, req.StartTime)
	}

	switch req.Status {
	case "", domain.StatusPending, domain.StatusConfirmed:
	default:
		return fmt.Errorf("%w: initial status must be pending or confirmed", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Customer.Name) == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}

	if utf8.RuneCountInString(req.Customer.Name) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customer name exceeds %d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
	}

	if req.Customer.Phone != nil && utf8.RuneCountInString(*req.Customer.Phone) > domain.MaxPhoneLength {
		return fmt.Errorf("%w: customer phone exceeds %d characters", ErrInvalidInput, domain.MaxPhoneLength)
	}

	if req.Customer.Email != nil && utf8.RuneCountInString(*req.Customer.Email) > domain.MaxEmailLength {
		return fmt.Errorf("%w: customer email exceeds %d characters", ErrInvalidInput, domain.MaxEmailLength)
	}

	if req.Customer.Notes != nil && utf8.RuneCountInString(*req.Customer.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if len(req.IdempotencyKey) > domain.MaxIdempotencyKeyLen {
		return fmt.Errorf("%w: idempotency key exceeds %d bytes", ErrInvalidInput, domain.MaxIdempotencyKeyLen)
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
