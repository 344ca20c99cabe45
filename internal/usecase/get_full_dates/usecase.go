package get_full_dates

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/cache/fulldates"
)

// Результаты обращения к кэшу для метрик
const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

// computeTimeout ограничивает общий для всех ожидающих запрос к хранилищу
const computeTimeout = 10 * time.Second

// UseCase use case для получения заполненных дней
type UseCase struct {
	bookingRepo  BookingRepository
	cache        Cache
	txManager    TransactionManager
	metrics      Metrics
	ceiling      int
	maxRangeDays int
	group        singleflight.Group
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// ceiling <= 0 отключает признак заполненности
func NewUseCase(
	bookingRepo BookingRepository,
	cache Cache,
	txManager TransactionManager,
	metrics Metrics,
	ceiling int,
	maxRangeDays int,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		cache:        cache,
		txManager:    txManager,
		metrics:      metrics,
		ceiling:      ceiling,
		maxRangeDays: maxRangeDays,
		logger:       logger,
	}
}

// Execute возвращает дни диапазона, в которых число активных бронирований достигло потолка
// Признак считается по количеству, а не по свободным слотам
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	from := availability.CivilDate(req.From)
	to := availability.CivilDate(req.To)

	resp := &Response{
		TenantID: req.TenantID,
		From:     from,
		To:       to,
		Ceiling:  uc.ceiling,
		Dates:    []time.Time{},
	}

	if err := uc.validateRange(from, to); err != nil {
		uc.logger.Warn("GetFullDates: validation failed: %v", err)
		return nil, err
	}

	// Без тенанта и при выключенном потолке сигнала нет
	if req.TenantID <= 0 || uc.ceiling <= 0 {
		return resp, nil
	}

	key := fulldates.Key{TenantID: req.TenantID, From: from, To: to, Ceiling: uc.ceiling}

	cached, version, err := uc.cache.Get(ctx, key)
	switch {
	case err == nil:
		uc.metrics.FullDatesCache(cacheHit)
		resp.Dates = cached
		return resp, nil
	case errors.Is(err, fulldates.ErrCacheMiss):
		uc.metrics.FullDatesCache(cacheMiss)
	default:
		uc.metrics.FullDatesCache(cacheError)
		uc.logger.Warn("GetFullDates: cache unavailable for tenant=%d: %v", req.TenantID, err)
	}

	flightKey := strconv.FormatInt(req.TenantID, 10) + ":" + from.Format(domain.DateFormat) + ":" + to.Format(domain.DateFormat)
	// Запрос общий для всех ожидающих, поэтому не наследует отмену первого из них
	ch := uc.group.DoChan(flightKey, func() (interface{}, error) {
		computeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), computeTimeout)
		defer cancel()
		return uc.compute(computeCtx, req.TenantID, from, to)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		uc.logger.Warn("GetFullDates: tenant=%d: caller gone: %v", req.TenantID, ctx.Err())
		return nil, ctx.Err()
	}
	if res.Err != nil {
		uc.logger.Error("GetFullDates: tenant=%d, %s..%s: %v",
			req.TenantID, from.Format(domain.DateFormat), to.Format(domain.DateFormat), res.Err)
		return nil, res.Err
	}
	resp.Dates = res.Val.([]time.Time)

	// Запись под версией, прочитанной до вычисления: после инвалидации она не будет прочитана
	if err := uc.cache.Set(ctx, key, version, resp.Dates); err != nil {
		uc.logger.Warn("GetFullDates: failed to cache tenant=%d: %v", req.TenantID, err)
	}

	uc.logger.Info("GetFullDates: tenant=%d, %s..%s, %d full dates",
		req.TenantID, from.Format(domain.DateFormat), to.Format(domain.DateFormat), len(resp.Dates))

	return resp, nil
}

func (uc *UseCase) compute(ctx context.Context, tenantID int64, from, to time.Time) ([]time.Time, error) {
	var counts []domain.DayCount
	err := uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		counts, err = uc.bookingRepo.CountActiveByDateRange(txCtx, tenantID, from, to)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to count bookings: %v", ErrInternal, err)
	}
	return availability.FullDates(counts, uc.ceiling), nil
}

func (uc *UseCase) validateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}

	if to.Before(from) {
		return fmt.Errorf("%w: from must not be after to", ErrInvalidInput)
	}

	if uc.maxRangeDays > 0 {
		days := int(to.Sub(from).Hours()/24) + 1
		if days > uc.maxRangeDays {
			return fmt.Errorf("%w: range spans %d days, at most %d allowed", ErrInvalidInput, days, uc.maxRangeDays)
		}
	}

	return nil
}
