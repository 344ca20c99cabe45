package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

type fakeRepo struct {
	bookings map[int64]*domain.Booking
	// raceTo меняет статус перед первым UpdateStatus, имитируя конкурентный переход
	raceTo  domain.BookingStatus
	updates int
	err     error
}

func (r *fakeRepo) GetByID(_ context.Context, tenantID, id int64) (*domain.Booking, error) {
	if r.err != nil {
		return nil, r.err
	}
	b, ok := r.bookings[id]
	if !ok || b.TenantID != tenantID {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, tenantID, id int64, from, to domain.BookingStatus, reason *string) (*domain.Booking, error) {
	r.updates++
	b := r.bookings[id]
	if r.raceTo != "" {
		b.Status = r.raceTo
		r.raceTo = ""
	}
	if b.TenantID != tenantID || b.Status != from {
		return nil, bookingRepo.ErrStatusConflict
	}
	b.Status = to
	if to == domain.StatusCancelled {
		now := time.Now()
		b.CancelledAt = &now
		b.CancellationReason = reason
	}
	cp := *b
	return &cp, nil
}

type stubCache struct{ calls int }

func (c *stubCache) Invalidate(context.Context, int64) error {
	c.calls++
	return nil
}

func newService(status domain.BookingStatus) (*Service, *fakeRepo, *stubCache) {
	repo := &fakeRepo{bookings: map[int64]*domain.Booking{
		7: {
			ID:              7,
			TenantID:        1,
			ServiceID:       3,
			BookingDate:     time.Date(2030, time.June, 3, 0, 0, 0, 0, time.UTC),
			StartTime:       "10:00",
			DurationMinutes: 45,
			Status:          status,
			Customer:        domain.Customer{Name: "Anna"},
		},
	}}
	cache := &stubCache{}
	return NewService(repo, cache, logger.NewNop()), repo, cache
}

func TestGetByID(t *testing.T) {
	svc, _, _ := newService(domain.StatusPending)

	resp, err := svc.GetByID(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, "2030-06-03", resp.BookingDate)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, "10:45", resp.EndTime)
	assert.Equal(t, "Anna", resp.Customer.Name)

	_, err = svc.GetByID(context.Background(), 2, 7)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = svc.GetByID(context.Background(), 0, 7)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    domain.BookingStatus
		confirm bool
		wantErr error
		want    domain.BookingStatus
	}{
		{"pending to confirmed", domain.StatusPending, true, nil, domain.StatusConfirmed},
		{"pending to cancelled", domain.StatusPending, false, nil, domain.StatusCancelled},
		{"confirmed to cancelled", domain.StatusConfirmed, false, nil, domain.StatusCancelled},
		{"confirmed to confirmed", domain.StatusConfirmed, true, ErrInvalidTransition, domain.StatusConfirmed},
		{"cancelled to confirmed", domain.StatusCancelled, true, ErrInvalidTransition, domain.StatusCancelled},
		{"cancelled to cancelled", domain.StatusCancelled, false, ErrInvalidTransition, domain.StatusCancelled},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, _ := newService(tc.from)

			var err error
			if tc.confirm {
				_, err = svc.Confirm(context.Background(), 1, 7)
			} else {
				_, err = svc.Cancel(context.Background(), 1, 7, &models.CancelBookingRequest{})
			}

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Zero(t, repo.updates)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.want, repo.bookings[7].Status)
		})
	}
}

func TestCancel_StoresReasonAndInvalidatesCache(t *testing.T) {
	svc, _, cache := newService(domain.StatusConfirmed)

	resp, err := svc.Cancel(context.Background(), 1, 7, &models.CancelBookingRequest{CancellationReason: "  client called  "})
	require.NoError(t, err)

	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "client called", *resp.CancellationReason)
	assert.NotNil(t, resp.CancelledAt)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, 1, cache.calls)
}

func TestCancel_ReasonTooLong(t *testing.T) {
	svc, _, _ := newService(domain.StatusPending)

	long := make([]rune, domain.MaxReasonLength+1)
	for i := range long {
		long[i] = 'я'
	}

	_, err := svc.Cancel(context.Background(), 1, 7, &models.CancelBookingRequest{CancellationReason: string(long)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestConfirm_LosesRaceToCancel(t *testing.T) {
	svc, repo, _ := newService(domain.StatusPending)
	repo.raceTo = domain.StatusCancelled

	_, err := svc.Confirm(context.Background(), 1, 7)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, domain.StatusCancelled, repo.bookings[7].Status)
}

func TestCancel_RetriesAfterConcurrentConfirm(t *testing.T) {
	svc, repo, _ := newService(domain.StatusPending)
	repo.raceTo = domain.StatusConfirmed

	resp, err := svc.Cancel(context.Background(), 1, 7, nil)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, 2, repo.updates)
}

func TestRepositoryFailure(t *testing.T) {
	svc, repo, _ := newService(domain.StatusPending)
	repo.err = errors.New("connection refused")

	_, err := svc.Confirm(context.Background(), 1, 7)
	assert.ErrorIs(t, err, ErrInternal)
}
