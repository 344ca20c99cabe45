// Package fulldates кэш заполненных дней в redis
//
// Ключи версионируются по тенанту: Invalidate увеличивает версию, и все ранее
// записанные диапазоны тенанта становятся недостижимыми, истекая по TTL.
// Значение, посчитанное до инвалидации, записывается под старой версией и не читается.
// Отсутствующая версия заводится от текущего времени в наносекундах, поэтому после
// вытеснения ключа версии новая версия больше любой прежней.
package fulldates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

const keyPrefix = "fulldates"

// Key параметры, от которых зависит результат
type Key struct {
	TenantID int64
	From     time.Time
	To       time.Time
	Ceiling  int
}

// Cache кэш заполненных дней
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

// New создает кэш с указанным TTL записей
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl, now: time.Now}
}

// Get возвращает закэшированные даты и текущую версию тенанта
// Версию нужно передать в Set после вычисления значения
func (c *Cache) Get(ctx context.Context, k Key) ([]time.Time, int64, error) {
	version, err := c.version(ctx, k.TenantID)
	if err != nil {
		return nil, 0, err
	}

	raw, err := c.rdb.Get(ctx, dataKey(k, version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, ErrCacheMiss
	}
	if err != nil {
		return nil, version, fmt.Errorf("%w: Get - read value: %v", ErrCache, err)
	}

	var encoded []string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, version, fmt.Errorf("%w: Get - decode value: %v", ErrCacheMiss, err)
	}

	dates := make([]time.Time, 0, len(encoded))
	for _, s := range encoded {
		d, err := time.Parse(domain.DateFormat, s)
		if err != nil {
			return nil, version, fmt.Errorf("%w: Get - decode date %q: %v", ErrCacheMiss, s, err)
		}
		dates = append(dates, d)
	}

	return dates, version, nil
}

// Set сохраняет даты под версией, полученной из Get
func (c *Cache) Set(ctx context.Context, k Key, version int64, dates []time.Time) error {
	encoded := make([]string, 0, len(dates))
	for _, d := range dates {
		encoded = append(encoded, d.Format(domain.DateFormat))
	}

	raw, err := json.Marshal(encoded)
	if err != nil {
		return fmt.Errorf("%w: Set - encode value: %v", ErrCache, err)
	}

	if err := c.rdb.Set(ctx, dataKey(k, version), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Set - write value: %v", ErrCache, err)
	}

	return nil
}

// Invalidate делает недостижимыми все закэшированные диапазоны тенанта
func (c *Cache) Invalidate(ctx context.Context, tenantID int64) error {
	// INCR по отсутствующему ключу дал бы 1 и оживил бы старые записи
	if _, err := c.version(ctx, tenantID); err != nil {
		return err
	}
	if err := c.rdb.Incr(ctx, versionKey(tenantID)).Err(); err != nil {
		return fmt.Errorf("%w: Invalidate - bump version: %v", ErrCache, err)
	}
	return nil
}

func (c *Cache) version(ctx context.Context, tenantID int64) (int64, error) {
	key := versionKey(tenantID)
	v, err := c.rdb.Get(ctx, key).Int64()
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("%w: read version: %v", ErrCache, err)
	}

	// SETNX: при гонке побеждает одно значение, остальные его перечитывают
	if err := c.rdb.SetNX(ctx, key, c.now().UnixNano(), 0).Err(); err != nil {
		return 0, fmt.Errorf("%w: seed version: %v", ErrCache, err)
	}
	v, err = c.rdb.Get(ctx, key).Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: read version: %v", ErrCache, err)
	}
	return v, nil
}

func versionKey(tenantID int64) string {
	return keyPrefix + ":ver:" + strconv.FormatInt(tenantID, 10)
}

func dataKey(k Key, version int64) string {
	return fmt.Sprintf("%s:v%d:%d:%s:%s:%d",
		keyPrefix, version, k.TenantID,
		k.From.Format(domain.DateFormat), k.To.Format(domain.DateFormat), k.Ceiling)
}
