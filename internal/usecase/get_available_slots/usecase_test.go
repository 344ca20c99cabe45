package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/schedule"
	catalogClient "github.com/m04kA/SMC-AvailabilityService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

// 2030-06-03 - понедельник
var monday = time.Date(2030, time.June, 3, 0, 0, 0, 0, time.UTC)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type passthroughTx struct{ calls int }

func (p *passthroughTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

type stubSchedules struct {
	configs map[int64]*domain.ScheduleConfig
	err     error
}

func (s *stubSchedules) GetByTenant(_ context.Context, tenantID int64) (*domain.ScheduleConfig, error) {
	if s.err != nil {
		return nil, s.err
	}
	cfg, ok := s.configs[tenantID]
	if !ok {
		return nil, scheduleRepo.ErrConfigNotFound
	}
	return cfg, nil
}

type stubBookings struct {
	byTenant map[int64][]*domain.Booking
	err      error
}

func (s *stubBookings) ListActiveByDate(_ context.Context, tenantID int64, _ time.Time) ([]*domain.Booking, error) {
	return s.byTenant[tenantID], s.err
}

type stubBlocked struct {
	ranges []*domain.BlockedRange
}

func (s *stubBlocked) ListByDate(_ context.Context, _ int64, _ time.Time) ([]*domain.BlockedRange, error) {
	return s.ranges, nil
}

type stubCatalog struct {
	duration int
	err      error
}

func (s *stubCatalog) GetService(_ context.Context, tenantID, serviceID int64) (*domain.ServiceDefinition, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.ServiceDefinition{ID: serviceID, TenantID: tenantID, DurationMinutes: s.duration}, nil
}

type fixture struct {
	schedules *stubSchedules
	bookings  *stubBookings
	blocked   *stubBlocked
	catalog   *stubCatalog
	tx        *passthroughTx
	now       time.Time
}

func newFixture() *fixture {
	return &fixture{
		schedules: &stubSchedules{configs: map[int64]*domain.ScheduleConfig{
			1: {
				TenantID:            1,
				WorkingDays:         []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
				StartTime:           "09:00",
				EndTime:             "13:00",
				SlotDurationMinutes: 30,
			},
		}},
		bookings: &stubBookings{byTenant: map[int64][]*domain.Booking{}},
		blocked:  &stubBlocked{},
		catalog:  &stubCatalog{duration: 30},
		tx:       &passthroughTx{},
		now:      time.Date(2030, time.June, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) useCase() *UseCase {
	return NewUseCase(f.bookings, f.schedules, f.blocked, f.catalog, f.tx, logger.NewNop()).
		WithTimeProvider(fixedTime{now: f.now})
}

func (f *fixture) run(t *testing.T, req *Request) (*Response, error) {
	t.Helper()
	return f.useCase().Execute(context.Background(), req)
}

func availableTimes(slots []domain.TimeSlot) []string {
	out := make([]string, 0)
	for _, s := range slots {
		if s.Available {
			out = append(out, s.Time.String())
		}
	}
	return out
}

func TestExecute_AllSlotsFree(t *testing.T) {
	f := newFixture()

	resp, err := f.run(t, &Request{TenantID: 1, ServiceID: 5, Date: monday})
	require.NoError(t, err)

	assert.True(t, resp.Configured)
	assert.True(t, resp.WorkingDay)
	require.Len(t, resp.Slots, 8)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "12:00", "12:30"}, availableTimes(resp.Slots))
	assert.Equal(t, 1, f.tx.calls)
}

func TestExecute_ConfirmedBookingBlocksOnlyItsSlot(t *testing.T) {
	f := newFixture()
	f.bookings.byTenant[1] = []*domain.Booking{
		{TenantID: 1, BookingDate: monday, StartTime: "10:00", DurationMinutes: 30, Status: domain.StatusConfirmed},
	}

	resp, err := f.run(t, &Request{TenantID: 1, ServiceID: 5, Date: monday})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 8)
	assert.False(t, resp.Slots[2].Available)
	assert.Equal(t, "10:00", resp.Slots[2].Time.String())
	assert.Equal(t, domain.CodeBookingConflict, resp.Slots[2].Code)
	assert.True(t, resp.Slots[1].Available)
	assert.True(t, resp.Slots[3].Available)
}

func TestExecute_LongServiceFilteredAtClosing(t *testing.T) {
	f := newFixture()
	f.catalog.duration = 60

	resp, err := f.run(t, &Request{TenantID: 1, ServiceID: 5, Date: monday})
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "12:00"}, availableTimes(resp.Slots))
	assert.Equal(t, domain.CodeAfterClosing, resp.Slots[7].Code)
}

func TestExecute_AdvanceNoticeToday(t *testing.T) {
	f := newFixture()
	f.schedules.configs[1].MinAdvanceHours = 2
	f.now = time.Date(2030, time.June, 3, 8, 50, 0, 0, time.UTC)

	resp, err := f.run(t, &Request{TenantID: 1, ServiceID: 5, Date: monday})
	require.NoError(t, err)

	assert.Equal(t, []string{"11:00", "11:30", "12:00", "12:30"}, availableTimes(resp.Slots))
	for _, s := range resp.Slots[:4] {
		assert.Equal(t, domain.CodeAdvanceNotice, s.Code)
	}
}

func TestExecute_ClosedDay(t *testing.T) {
	f := newFixture()

	resp, err := f.run(t, &Request{TenantID: 1, ServiceID: 5, Date: monday.AddDate(0, 0, 5)})
	require.NoError(t, err)
	assert.True(t, resp.Configured)
	assert.False(t, resp.WorkingDay)
	assert.Empty(t, resp.Slots)
}

func TestExecute_ConfigMissingIsNoAvailability(t *testing.T) {
	f := newFixture()

	resp, err := f.run(t, &Request{TenantID: 2, ServiceID: 5, Date: monday})
	require.NoError(t, err)
	assert.False(t, resp.Configured)
	assert.Empty(t, resp.Slots)
}

func TestExecute_TenantIsolation(t *testing.T) {
	f := newFixture()
	f.schedules.configs[2] = f.schedules.configs[1]
	f.bookings.byTenant[2] = []*domain.Booking{
		{TenantID: 2, BookingDate: monday, StartTime: "09:00", DurationMinutes: 240, Status: domain.StatusConfirmed},
	}

	resp, err := f.run(t, &Request{TenantID: 1, ServiceID: 5, Date: monday})
	require.NoError(t, err)
	assert.Len(t, availableTimes(resp.Slots), 8)
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture()

	cases := []struct {
		name string
		req  *Request
		want error
	}{
		{"nil request", nil, ErrInvalidInput},
		{"missing tenant", &Request{ServiceID: 5, Date: monday}, ErrInvalidInput},
		{"negative tenant", &Request{TenantID: -1, ServiceID: 5, Date: monday}, ErrInvalidInput},
		{"missing service", &Request{TenantID: 1, Date: monday}, ErrInvalidInput},
		{"missing date", &Request{TenantID: 1, ServiceID: 5}, ErrInvalidInput},
		{"past date", &Request{TenantID: 1, ServiceID: 5, Date: monday.AddDate(0, 0, -7)}, ErrInvalidDate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.run(t, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestExecute_DateTooFar(t *testing.T) {
	f := newFixture()
	f.schedules.configs[1].MaxAdvanceDays = 1

	_, err := f.run(t, &Request{TenantID: 1, ServiceID: 5, Date: monday})
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_ServiceErrors(t *testing.T) {
	f := newFixture()

	f.catalog.err = catalogClient.ErrServiceNotFound
	_, err := f.run(t, &Request{TenantID: 1, ServiceID: 5, Date: monday})
	assert.ErrorIs(t, err, ErrServiceNotFound)

	f.catalog.err = catalogClient.ErrInternal
	_, err = f.run(t, &Request{TenantID: 1, ServiceID: 5, Date: monday})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_StorageFailureIsInternal(t *testing.T) {
	f := newFixture()
	f.bookings.err = errors.New("connection reset")

	_, err := f.run(t, &Request{TenantID: 1, ServiceID: 5, Date: monday})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_Idempotent(t *testing.T) {
	f := newFixture()
	f.bookings.byTenant[1] = []*domain.Booking{
		{TenantID: 1, BookingDate: monday, StartTime: "11:15", DurationMinutes: 20, Status: domain.StatusPending},
	}

	first, err := f.run(t, &Request{TenantID: 1, ServiceID: 5, Date: monday})
	require.NoError(t, err)
	second, err := f.run(t, &Request{TenantID: 1, ServiceID: 5, Date: monday})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
