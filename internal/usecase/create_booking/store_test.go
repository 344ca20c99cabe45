package create_booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/booking"
	scheduleRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/schedule"
)

// memStore хранилище в памяти с тем же контрактом блокировок, что и PostgreSQL:
// LockTenantDate держит блокировку до конца транзакции, записи видны только после коммита
type memStore struct {
	mu       sync.Mutex
	locks    map[int64]chan struct{}
	bookings []*domain.Booking
	idem     map[string]*domain.IdempotencyRecord
	nextID   int64

	schedules map[int64]*domain.ScheduleConfig
	blocked   []*domain.BlockedRange

	// createErr возвращается из Create вместо вставки
	createErr error
}

func newMemStore() *memStore {
	return &memStore{
		locks:     make(map[int64]chan struct{}),
		idem:      make(map[string]*domain.IdempotencyRecord),
		schedules: make(map[int64]*domain.ScheduleConfig),
	}
}

type txState struct {
	held     []chan struct{}
	bookings []*domain.Booking
	idem     []*domain.IdempotencyRecord
}

type txKey struct{}

// Do реализует TransactionManager
func (s *memStore) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	tx := &txState{}
	defer func() {
		for _, ch := range tx.held {
			<-ch
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range tx.idem {
		k := idemKey(rec.TenantID, rec.Key)
		if _, exists := s.idem[k]; exists {
			return fmt.Errorf("%w: commit", bookingRepo.ErrDuplicateKey)
		}
	}
	for _, b := range tx.bookings {
		s.nextID++
		b.ID = s.nextID
		s.bookings = append(s.bookings, b)
	}
	for _, rec := range tx.idem {
		if rec.BookingID < 0 {
			rec.BookingID = tx.bookings[-rec.BookingID-1].ID
		}
		s.idem[idemKey(rec.TenantID, rec.Key)] = rec
	}
	return nil
}

func (s *memStore) lockChan(key int64) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[key] = ch
	}
	return ch
}

func (s *memStore) LockTenantDate(ctx context.Context, tenantID int64, date time.Time) error {
	tx, ok := ctx.Value(txKey{}).(*txState)
	if !ok {
		return bookingRepo.ErrTransaction
	}
	ch := s.lockChan(bookingRepo.AdvisoryKey(tenantID, date))
	select {
	case ch <- struct{}{}:
		tx.held = append(tx.held, ch)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", bookingRepo.ErrUnavailable, ctx.Err())
	}
}

func (s *memStore) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	tx := ctx.Value(txKey{}).(*txState)
	// ID выдаётся при коммите, до него используется временный
	b.ID = -int64(len(tx.bookings) + 1)
	tx.bookings = append(tx.bookings, b)
	return b, nil
}

func (s *memStore) GetByID(_ context.Context, tenantID, id int64) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.TenantID == tenantID && b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (s *memStore) ListActiveByDate(_ context.Context, tenantID int64, date time.Time) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if b.TenantID == tenantID && b.BookingDate.Equal(availability.CivilDate(date)) && b.IsActive() {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) GetIdempotencyRecord(_ context.Context, tenantID int64, key string) (*domain.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.idem[idemKey(tenantID, key)]
	if !ok {
		return nil, bookingRepo.ErrIdempotencyNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *memStore) SaveIdempotencyRecord(ctx context.Context, rec *domain.IdempotencyRecord) error {
	s.mu.Lock()
	_, exists := s.idem[idemKey(rec.TenantID, rec.Key)]
	s.mu.Unlock()
	if exists {
		return bookingRepo.ErrDuplicateKey
	}
	tx := ctx.Value(txKey{}).(*txState)
	tx.idem = append(tx.idem, rec)
	return nil
}

func (s *memStore) GetByTenant(_ context.Context, tenantID int64) (*domain.ScheduleConfig, error) {
	cfg, ok := s.schedules[tenantID]
	if !ok {
		return nil, scheduleRepo.ErrConfigNotFound
	}
	return cfg, nil
}

func (s *memStore) ListByDate(_ context.Context, tenantID int64, date time.Time) ([]*domain.BlockedRange, error) {
	out := make([]*domain.BlockedRange, 0)
	for _, r := range s.blocked {
		if r.TenantID == tenantID && r.Date.Equal(date) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) activeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.bookings {
		if b.IsActive() {
			n++
		}
	}
	return n
}

func idemKey(tenantID int64, key string) string {
	return fmt.Sprintf("%d/%s", tenantID, key)
}
