package models

import "time"

// CachedMonth describes one monthly archive page held in the local cache.
type CachedMonth struct {
	Month     YearMonth `json:"month"`
	Games     int       `json:"games"`
	FetchedAt time.Time `json:"fetched_at"`
}
