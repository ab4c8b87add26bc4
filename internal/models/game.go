package models

import (
	"fmt"
	"time"
)

// UnknownTimeControl is the category used for games that carry no time control.
const UnknownTimeControl = "unknown"

// GameRecord is one completed game as handed to the activity analyzer.
type GameRecord struct {
	URL         string     `json:"url,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	TimeControl string     `json:"time_control,omitempty"`
}

// Category returns the time control, or UnknownTimeControl when it is absent.
func (g GameRecord) Category() string {
	if g.TimeControl == "" {
		return UnknownTimeControl
	}
	return g.TimeControl
}

// HasEndTime reports whether the record can be placed on a calendar day.
func (g GameRecord) HasEndTime() bool {
	return g.EndTime != nil && !g.EndTime.IsZero()
}

// YearMonth identifies one monthly archive page.
type YearMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// NewYearMonth returns the month that t falls in, in t's location.
func NewYearMonth(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// First returns midnight UTC of the first day of the month.
func (ym YearMonth) First() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Next returns the following month.
func (ym YearMonth) Next() YearMonth {
	return NewYearMonth(ym.First().AddDate(0, 1, 0))
}

// Before reports whether ym is strictly earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// String formats the month as YYYY-MM.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}
