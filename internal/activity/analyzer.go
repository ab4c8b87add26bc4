// Package activity derives activity statistics from a batch of game records.
//
// An Analyzer accumulates records across any number of AddGames calls and
// recomputes every metric from scratch on Analyze. All calendar bucketing
// (days, hours, streaks, last activity) uses the single location the
// Analyzer was built with, UTC unless WithLocation says otherwise.
//
// Metrics.TimeControl lists categories by the earliest end time seen for each,
// so the result does not depend on the order records were added in.
// Categories that only appear on records without an end time come last,
// sorted by name.
//
// An Analyzer is not safe for concurrent use.
package activity

import (
	"time"

	"github.com/vytor/chessactivity/internal/models"
)

// Analyzer owns an append-only batch of game records.
type Analyzer struct {
	games []models.GameRecord
	loc   *time.Location
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLocation sets the location used to derive calendar days and hours.
func WithLocation(loc *time.Location) Option {
	return func(a *Analyzer) {
		if loc != nil {
			a.loc = loc
		}
	}
}

// NewAnalyzer creates an empty Analyzer.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{loc: time.UTC}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AddGames appends records to the batch. Records are not validated here;
// missing fields are resolved to their defaults during analysis.
func (a *Analyzer) AddGames(records []models.GameRecord) {
	a.games = append(a.games, records...)
}

// Len returns the number of accumulated records.
func (a *Analyzer) Len() int {
	return len(a.games)
}

// Analyze computes the summary, time control breakdown and patterns of the
// current batch. It never fails; an empty batch yields zero values.
func (a *Analyzer) Analyze() Metrics {
	b := a.bucket()
	return Metrics{
		Summary:     b.summary(),
		TimeControl: b.timeControls(),
		Patterns:    b.patterns(),
	}
}

// HourlyDistribution returns the number of timestamped games per hour of day.
func (a *Analyzer) HourlyDistribution() [24]int {
	return a.bucket().hourly
}
