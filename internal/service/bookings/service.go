package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/bookings/models"
)

// Service сервис жизненного цикла бронирований
type Service struct {
	bookingRepo BookingRepository
	cache       FullDatesCache
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	cache FullDatesCache,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		cache:       cache,
		logger:      logger,
	}
}

// GetByID получает бронирование тенанта по ID
// Бронирование другого тенанта неотличимо от несуществующего
func (s *Service) GetByID(ctx context.Context, tenantID, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for tenant=%d", id, tenantID)

	booking, err := s.get(ctx, "GetByID", tenantID, id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// Confirm переводит бронирование pending -> confirmed
func (s *Service) Confirm(ctx context.Context, tenantID, id int64) (*models.BookingResponse, error) {
	s.logger.Info("Confirm: confirming booking id=%d for tenant=%d", id, tenantID)

	booking, err := s.transition(ctx, "Confirm", tenantID, id, domain.StatusConfirmed, nil)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Confirm: successfully confirmed booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// Cancel отменяет бронирование и освобождает его время
// Отменённое бронирование больше не меняет статус
func (s *Service) Cancel(ctx context.Context, tenantID, id int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d for tenant=%d", id, tenantID)

	var reason *string
	if req != nil {
		trimmed := strings.TrimSpace(req.CancellationReason)
		if utf8.RuneCountInString(trimmed) > domain.MaxReasonLength {
			return nil, fmt.Errorf("%w: cancellationReason exceeds %d characters", ErrInvalidInput, domain.MaxReasonLength)
		}
		if trimmed != "" {
			reason = &trimmed
		}
	}

	booking, err := s.transition(ctx, "Cancel", tenantID, id, domain.StatusCancelled, reason)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, tenantID); err != nil {
		s.logger.Warn("Cancel: failed to invalidate full dates cache for tenant=%d: %v", tenantID, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// transition выполняет условный переход статуса
// Если статус изменился между чтением и обновлением, переход повторно проверяется по свежему состоянию
func (s *Service) transition(ctx context.Context, op string, tenantID, id int64, to domain.BookingStatus, reason *string) (*domain.Booking, error) {
	for attempt := 0; attempt < 2; attempt++ {
		booking, err := s.get(ctx, op, tenantID, id)
		if err != nil {
			return nil, err
		}

		if !booking.CanTransitionTo(to) {
			s.logger.Warn("%s: booking id=%d cannot move from %s to %s", op, id, booking.Status, to)
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, to)
		}

		updated, err := s.bookingRepo.UpdateStatus(ctx, tenantID, id, booking.Status, to, reason)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
			return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
		}

		s.logger.Warn("%s: booking id=%d changed concurrently, re-reading", op, id)
	}

	return nil, fmt.Errorf("%w: booking id=%d keeps changing", ErrInvalidTransition, id)
}

func (s *Service) get(ctx context.Context, op string, tenantID, id int64) (*domain.Booking, error) {
	if tenantID <= 0 || id <= 0 {
		return nil, fmt.Errorf("%w: tenantID and bookingID must be positive", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found for tenant=%d", op, id, tenantID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	return booking, nil
}
