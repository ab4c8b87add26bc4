package models

import "time"

// Profile is the public Chess.com player profile.
type Profile struct {
	PlayerID   int64     `json:"player_id"`
	Username   string    `json:"username"`
	Name       string    `json:"name,omitempty"`
	URL        string    `json:"url,omitempty"`
	Country    string    `json:"country,omitempty"`
	Status     string    `json:"status,omitempty"`
	Followers  int       `json:"followers"`
	JoinedAt   time.Time `json:"joined_at"`
	LastOnline time.Time `json:"last_online"`
}
