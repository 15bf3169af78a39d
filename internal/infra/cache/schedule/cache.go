package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	cacheHours   = "business_hours"
	cacheTimeOff = "time_off"

	defaultTTL    = time.Minute
	defaultPrefix = "appt"
)

// Cache read-through кэш рабочих часов и отсутствий провайдера в Redis
// Ошибки Redis не прерывают чтение: данные берутся из источника
type Cache struct {
	rdb     redis.Cmdable
	source  Source
	ttl     time.Duration
	prefix  string
	metrics Metrics
	logger  Logger
}

// NewCache создает кэш расписания
func NewCache(rdb redis.Cmdable, source Source, ttl time.Duration, prefix string, metrics Metrics, logger Logger) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Cache{
		rdb:     rdb,
		source:  source,
		ttl:     ttl,
		prefix:  prefix,
		metrics: metrics,
		logger:  logger,
	}
}

// GetBusinessHours возвращает недельное расписание провайдера
func (c *Cache) GetBusinessHours(ctx context.Context, providerID int64) ([]*domain.BusinessHours, error) {
	var hours []*domain.BusinessHours
	err := c.readThrough(ctx, cacheHours, c.key(cacheHours, providerID), &hours, func() (err error) {
		hours, err = c.source.GetBusinessHours(ctx, providerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return hours, nil
}

// GetTimeOff возвращает отсутствия, которые могут пересекаться с периодом [from, to]
func (c *Cache) GetTimeOff(ctx context.Context, providerID int64, from, to time.Time) ([]*domain.TimeOff, error) {
	var all []*domain.TimeOff
	err := c.readThrough(ctx, cacheTimeOff, c.key(cacheTimeOff, providerID), &all, func() (err error) {
		all, err = c.source.ListTimeOff(ctx, providerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	from, to = domain.DateOnly(from), domain.DateOnly(to)
	result := make([]*domain.TimeOff, 0, len(all))
	for _, t := range all {
		if domain.DateOnly(t.StartDate).After(to) {
			continue
		}
		if !t.RecurringAnnually && domain.DateOnly(t.EndDate).Before(from) {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

// Invalidate удаляет закэшированное расписание провайдера
func (c *Cache) Invalidate(ctx context.Context, providerID int64) error {
	if err := c.rdb.Del(ctx, c.key(cacheHours, providerID), c.key(cacheTimeOff, providerID)).Err(); err != nil {
		return fmt.Errorf("%w: provider=%d: %v", ErrInvalidate, providerID, err)
	}
	return nil
}

// readThrough читает ключ из Redis в dest, при промахе вызывает load и сохраняет результат
// load заполняет dest из источника
func (c *Cache) readThrough(ctx context.Context, name, key string, dest interface{}, load func() error) error {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		jsonErr := json.Unmarshal(raw, dest)
		if jsonErr == nil {
			c.observe(name, true)
			return nil
		}
		c.logger.Warn("ScheduleCache: corrupted value key=%s: %v", key, jsonErr)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("ScheduleCache: get key=%s failed: %v", key, err)
	}

	c.observe(name, false)

	if err := load(); err != nil {
		return err
	}

	payload, err := json.Marshal(dest)
	if err != nil {
		c.logger.Error("ScheduleCache: marshal key=%s failed: %v", key, err)
		return nil
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("ScheduleCache: set key=%s failed: %v", key, err)
	}

	return nil
}

func (c *Cache) observe(name string, hit bool) {
	if c.metrics != nil {
		c.metrics.ObserveCache(name, hit)
	}
}

func (c *Cache) key(kind string, providerID int64) string {
	return fmt.Sprintf("%s:provider:%d:%s", c.prefix, providerID, kind)
}
