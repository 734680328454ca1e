package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/mockexam/booking-backend/internal/credits"
)

// ExamCache stores listing responses in Redis. A nil cache or nil client
// turns every call into a miss / no-op.
type ExamCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewExamCache(rdb *redis.Client, ttl time.Duration) *ExamCache {
	return &ExamCache{redis: rdb, ttl: ttl}
}

func examCacheKey(mockType string, includeCapacity, realtime bool) string {
	return fmt.Sprintf("mock_exams:available:%s:%t:%t", mockType, includeCapacity, realtime)
}

func (c *ExamCache) enabled() bool {
	return c != nil && c.redis != nil
}

// Get loads a cached listing into dest and reports whether it was present.
func (c *ExamCache) Get(ctx context.Context, mockType string, includeCapacity, realtime bool, dest any) bool {
	if !c.enabled() {
		return false
	}

	data, err := c.redis.Get(ctx, examCacheKey(mockType, includeCapacity, realtime)).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		log.Printf("[EXAMS] Cache read failed for %s: %v", mockType, err)
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("[EXAMS] Discarding corrupt cache entry for %s: %v", mockType, err)
		return false
	}
	return true
}

func (c *ExamCache) Set(ctx context.Context, mockType string, includeCapacity, realtime bool, value any) {
	if !c.enabled() {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("[EXAMS] Cache encode failed for %s: %v", mockType, err)
		return
	}
	if err := c.redis.Set(ctx, examCacheKey(mockType, includeCapacity, realtime), string(data), c.ttl).Err(); err != nil {
		log.Printf("[EXAMS] Cache write failed for %s: %v", mockType, err)
	}
}

// Invalidate drops every cached variant of a mock type's listing.
func (c *ExamCache) Invalidate(ctx context.Context, mockType string) {
	if !c.enabled() || mockType == "" {
		return
	}

	keys := make([]string, 0, 4)
	for _, includeCapacity := range []bool{false, true} {
		for _, realtime := range []bool{false, true} {
			keys = append(keys, examCacheKey(mockType, includeCapacity, realtime))
		}
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[EXAMS] Cache invalidation failed for %s: %v", mockType, err)
	}
}

// InvalidateAll drops the listings of every mock type.
func (c *ExamCache) InvalidateAll(ctx context.Context) {
	for _, mockType := range []string{credits.SituationalJudgment, credits.ClinicalSkills, credits.MiniMock} {
		c.Invalidate(ctx, mockType)
	}
}
