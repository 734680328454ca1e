package config

import (
	"os"
	"strconv"
	"time"
)

type BookingConfig struct {
	ExamsCacheTTL        time.Duration
	ReconcileConcurrency int
	RateLimitRequests    int
	RateLimitWindow      time.Duration
	ExamTimezone         string
	TaskTimeout          time.Duration
}

func LoadBookingConfig() *BookingConfig {
	return &BookingConfig{
		ExamsCacheTTL:        getEnvAsDuration("EXAMS_CACHE_TTL", 5*time.Minute),
		ReconcileConcurrency: getEnvAsInt("RECONCILE_CONCURRENCY", 5),
		RateLimitRequests:    getEnvAsInt("RATE_LIMIT_REQUESTS", 30),
		RateLimitWindow:      getEnvAsDuration("RATE_LIMIT_WINDOW", 1*time.Minute),
		ExamTimezone:         getEnv("EXAM_TIMEZONE", "America/Toronto"),
		TaskTimeout:          getEnvAsDuration("TASK_TIMEOUT", 30*time.Second),
	}
}

// Location resolves ExamTimezone, falling back to UTC for unknown zones.
func (c *BookingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.ExamTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			return duration
		}
	}
	return defaultVal
}
