package blockedranges

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	blockedRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/blockedrange"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/blockedranges/models"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Service сервис администрирования заблокированных интервалов
// Блокировка действует на чтение и на коммит бронирований сразу после сохранения.
// Уже существующие бронирования в интервале не отменяются
type Service struct {
	repo   BlockedRangeRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса
func NewService(repo BlockedRangeRepository, logger Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Block сохраняет новый заблокированный интервал
func (s *Service) Block(ctx context.Context, tenantID int64, req *models.BlockRangeRequest) (*models.BlockedRangeResponse, error) {
	if tenantID <= 0 || req == nil {
		return nil, fmt.Errorf("%w: tenantID and request are required", ErrInvalidInput)
	}

	s.logger.Info("Block: tenant=%d, date=%s, %s-%s", tenantID, req.Date, req.StartTime, req.EndTime)

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, req.Date)
	}

	start, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startTime %q", ErrInvalidInput, req.StartTime)
	}

	end, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid endTime %q", ErrInvalidInput, req.EndTime)
	}

	reason := strings.TrimSpace(req.Reason)
	if utf8.RuneCountInString(reason) > domain.MaxReasonLength {
		return nil, fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	br := &domain.BlockedRange{
		TenantID:  tenantID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Reason:    reason,
	}

	if !br.IsValid() {
		s.logger.Warn("Block: startTime %s is not before endTime %s", start, end)
		return nil, fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}

	created, err := s.repo.Create(ctx, br)
	if err != nil {
		s.logger.Error("Block: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: Block - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Block: created blocked range id=%d", created.ID)
	return models.FromDomain(created), nil
}

// Unblock удаляет заблокированный интервал
func (s *Service) Unblock(ctx context.Context, tenantID, id int64) error {
	s.logger.Info("Unblock: tenant=%d, range id=%d", tenantID, id)

	if tenantID <= 0 || id <= 0 {
		return fmt.Errorf("%w: tenantID and rangeID must be positive", ErrInvalidInput)
	}

	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, blockedRepo.ErrRangeNotFound) {
			s.logger.Warn("Unblock: range id=%d not found for tenant=%d", id, tenantID)
			return ErrRangeNotFound
		}
		s.logger.Error("Unblock: repository error for range id=%d: %v", id, err)
		return fmt.Errorf("%w: Unblock - repository error: %v", ErrInternal, err)
	}

	return nil
}

// List возвращает интервалы тенанта на дату
func (s *Service) List(ctx context.Context, tenantID int64, date time.Time) (*models.BlockedRangeListResponse, error) {
	if tenantID <= 0 || date.IsZero() {
		return nil, fmt.Errorf("%w: tenantID and date are required", ErrInvalidInput)
	}

	ranges, err := s.repo.ListByDate(ctx, tenantID, date)
	if err != nil {
		s.logger.Error("List: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainList(ranges), nil
}
