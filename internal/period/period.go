// Package period turns user supplied period expressions into concrete,
// inclusive date ranges.
//
// Two forms are recognised: an absolute calendar month ("2024-03") and a
// trailing window of N days ending on a reference date ("30d").
package period

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/vytor/chessactivity/internal/errors"
	"github.com/vytor/chessactivity/internal/models"
)

const (
	dateLayout    = "2006-01-02"
	secondsPerDay = 24 * 60 * 60
)

var (
	monthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)
	daysRe  = regexp.MustCompile(`^\d+d$`)
)

// DateRange is an inclusive pair of calendar dates. Both ends are stored as
// midnight UTC so that day arithmetic never crosses a DST boundary.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of days between Start and End (End - Start).
func (r DateRange) Days() int {
	return int((r.End.Unix() - r.Start.Unix()) / secondsPerDay)
}

// Contains reports whether t, seen as a calendar date in loc, falls inside the range.
func (r DateRange) Contains(t time.Time, loc *time.Location) bool {
	d := CivilDate(t, loc)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Months lists the calendar months overlapped by the range, oldest first.
func (r DateRange) Months() []models.YearMonth {
	return MonthsBetween(models.NewYearMonth(r.Start), models.NewYearMonth(r.End))
}

// UTCMonths returns the first and last UTC months that hold an instant of the
// range, reading its dates as days in loc. Outside UTC this can reach one
// month further than Months on either side.
func (r DateRange) UTCMonths(loc *time.Location) (first, last models.YearMonth) {
	if loc == nil {
		loc = time.UTC
	}
	from := time.Date(r.Start.Year(), r.Start.Month(), r.Start.Day(), 0, 0, 0, 0, loc)
	until := time.Date(r.End.Year(), r.End.Month(), r.End.Day()+1, 0, 0, 0, 0, loc).Add(-time.Nanosecond)
	return models.NewYearMonth(from.UTC()), models.NewYearMonth(until.UTC())
}

// MonthsBetween lists every month from first to last inclusive.
func MonthsBetween(first, last models.YearMonth) []models.YearMonth {
	var months []models.YearMonth
	for ym := first; !last.Before(ym); ym = ym.Next() {
		months = append(months, ym)
	}
	return months
}

// IsCalendarMonth reports whether the range covers exactly one whole month.
func (r DateRange) IsCalendarMonth() bool {
	return r.Start.Day() == 1 &&
		r.Start.Year() == r.End.Year() &&
		r.Start.Month() == r.End.Month() &&
		r.End.Equal(lastDayOfMonth(r.Start))
}

func (r DateRange) String() string {
	return r.Start.Format(dateLayout) + " - " + r.End.Format(dateLayout)
}

// MarshalJSON renders the range as {"start":"YYYY-MM-DD","end":"YYYY-MM-DD"}.
func (r DateRange) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"start":%q,"end":%q}`, r.Start.Format(dateLayout), r.End.Format(dateLayout))), nil
}

// CivilDate returns the calendar date of t in loc as midnight UTC.
func CivilDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Parse resolves expr against the current date.
func Parse(expr string) (DateRange, error) {
	return ParseAt(expr, time.Now())
}

// ParseAt resolves expr. ref is only used by the relative form; its calendar
// date, in ref's own location, becomes the end of the range.
func ParseAt(expr string, ref time.Time) (DateRange, error) {
	switch {
	case monthRe.MatchString(expr):
		year, _ := strconv.Atoi(expr[:4])
		month, _ := strconv.Atoi(expr[5:])
		if month < 1 || month > 12 {
			return DateRange{}, errors.NewInvalidPeriodError(expr)
		}
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		return DateRange{Start: start, End: lastDayOfMonth(start)}, nil

	case daysRe.MatchString(expr):
		days, err := strconv.Atoi(expr[:len(expr)-1])
		if err != nil || days <= 0 {
			return DateRange{}, errors.NewInvalidPeriodError(expr)
		}
		end := CivilDate(ref, ref.Location())
		start := end.AddDate(0, 0, -days)
		if start.After(end) {
			return DateRange{}, errors.NewInvalidPeriodError(expr)
		}
		return DateRange{Start: start, End: end}, nil
	}
	return DateRange{}, errors.NewInvalidPeriodError(expr)
}

func lastDayOfMonth(first time.Time) time.Time {
	return time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}
