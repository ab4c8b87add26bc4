package services

import "time"

// ActivityConfig holds tuning knobs for ActivityService
type ActivityConfig struct {
	MaxConcurrent    int // parallel monthly fetches
	UseCache         bool
	Location         *time.Location
	ProfileCacheSize int
	ProfileCacheTTL  time.Duration
}

func (c ActivityConfig) withDefaults() ActivityConfig {
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = 4
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.ProfileCacheSize <= 0 {
		c.ProfileCacheSize = 256
	}
	if c.ProfileCacheTTL <= 0 {
		c.ProfileCacheTTL = 10 * time.Minute
	}
	return c
}
