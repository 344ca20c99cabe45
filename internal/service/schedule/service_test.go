package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

type memRepo struct {
	configs map[int64]*domain.ScheduleConfig
	upserts int
}

func (r *memRepo) GetByTenant(_ context.Context, tenantID int64) (*domain.ScheduleConfig, error) {
	c, ok := r.configs[tenantID]
	if !ok {
		return nil, scheduleRepo.ErrConfigNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memRepo) Upsert(_ context.Context, c *domain.ScheduleConfig) (*domain.ScheduleConfig, error) {
	r.upserts++
	cp := *c
	r.configs[c.TenantID] = &cp
	return c, nil
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestGet(t *testing.T) {
	repo := &memRepo{configs: map[int64]*domain.ScheduleConfig{
		1: {TenantID: 1, WorkingDays: []time.Weekday{time.Monday}, StartTime: "09:00", EndTime: "18:00", SlotDurationMinutes: 30},
	}}
	svc := NewService(repo, logger.NewNop())

	resp, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, resp.WorkingDays)
	assert.Equal(t, "UTC", resp.Timezone)

	_, err = svc.Get(context.Background(), 2)
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestUpdate_CreatesWithDefaults(t *testing.T) {
	repo := &memRepo{configs: map[int64]*domain.ScheduleConfig{}}
	svc := NewService(repo, logger.NewNop())

	resp, err := svc.Update(context.Background(), 5, &models.UpdateScheduleRequest{
		WorkingDays: []int{1, 2, 3, 4, 5},
		StartTime:   strPtr("09:00"),
		EndTime:     strPtr("18:00"),
		Timezone:    strPtr("Europe/Moscow"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultSlotDurationMinutes, resp.SlotDurationMinutes)
	assert.Equal(t, "Europe/Moscow", resp.Timezone)
	assert.Equal(t, 1, repo.upserts)
}

func TestUpdate_PartialKeepsOtherFields(t *testing.T) {
	repo := &memRepo{configs: map[int64]*domain.ScheduleConfig{
		1: {TenantID: 1, WorkingDays: []time.Weekday{time.Monday}, StartTime: "09:00", EndTime: "18:00", SlotDurationMinutes: 30},
	}}
	svc := NewService(repo, logger.NewNop())

	resp, err := svc.Update(context.Background(), 1, &models.UpdateScheduleRequest{SlotDurationMinutes: intPtr(15)})
	require.NoError(t, err)
	assert.Equal(t, 15, resp.SlotDurationMinutes)
	assert.Equal(t, "09:00", resp.StartTime)
	assert.Equal(t, []int{1}, resp.WorkingDays)
}

func TestUpdate_Validation(t *testing.T) {
	base := func() *models.UpdateScheduleRequest {
		return &models.UpdateScheduleRequest{
			WorkingDays: []int{1},
			StartTime:   strPtr("09:00"),
			EndTime:     strPtr("18:00"),
		}
	}

	cases := []struct {
		name   string
		mutate func(r *models.UpdateScheduleRequest)
	}{
		{"no working days", func(r *models.UpdateScheduleRequest) { r.WorkingDays = []int{} }},
		{"bad weekday", func(r *models.UpdateScheduleRequest) { r.WorkingDays = []int{7} }},
		{"duplicate weekday", func(r *models.UpdateScheduleRequest) { r.WorkingDays = []int{1, 1} }},
		{"missing start", func(r *models.UpdateScheduleRequest) { r.StartTime = nil }},
		{"bad end", func(r *models.UpdateScheduleRequest) { r.EndTime = strPtr("18:60") }},
		{"start after end", func(r *models.UpdateScheduleRequest) { r.StartTime = strPtr("19:00") }},
		{"start equals end", func(r *models.UpdateScheduleRequest) { r.StartTime = strPtr("18:00") }},
		{"slot too short", func(r *models.UpdateScheduleRequest) { r.SlotDurationMinutes = intPtr(1) }},
		{"notice too long", func(r *models.UpdateScheduleRequest) { r.MinAdvanceHours = intPtr(domain.MaxAdvanceHours + 1) }},
		{"negative horizon", func(r *models.UpdateScheduleRequest) { r.MaxAdvanceDays = intPtr(-1) }},
		{"unknown timezone", func(r *models.UpdateScheduleRequest) { r.Timezone = strPtr("Mars/Olympus") }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &memRepo{configs: map[int64]*domain.ScheduleConfig{}}
			svc := NewService(repo, logger.NewNop())

			req := base()
			tc.mutate(req)

			_, err := svc.Update(context.Background(), 1, req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Zero(t, repo.upserts)
		})
	}
}

func TestUpdate_EndOfDayAllowed(t *testing.T) {
	repo := &memRepo{configs: map[int64]*domain.ScheduleConfig{}}
	svc := NewService(repo, logger.NewNop())

	resp, err := svc.Update(context.Background(), 1, &models.UpdateScheduleRequest{
		WorkingDays: []int{6},
		StartTime:   strPtr("20:00"),
		EndTime:     strPtr("24:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "24:00", resp.EndTime)
}
