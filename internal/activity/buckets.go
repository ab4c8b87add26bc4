package activity

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// category tracks one time control and the earliest instant it was seen at.
type category struct {
	name     string
	games    int
	first    time.Time
	hasFirst bool
}

// buckets is a single pass over the batch shared by every metric group.
type buckets struct {
	total      int
	daily      map[time.Time]int
	hourly     [24]int
	latest     time.Time
	latestDay  time.Time
	hasLatest  bool
	categories map[string]*category
}

func (a *Analyzer) bucket() buckets {
	b := buckets{
		total:      len(a.games),
		daily:      make(map[time.Time]int),
		categories: make(map[string]*category),
	}

	for _, g := range a.games {
		name := g.Category()
		c, ok := b.categories[name]
		if !ok {
			c = &category{name: name}
			b.categories[name] = c
		}
		c.games++

		if !g.HasEndTime() {
			continue
		}
		ts := *g.EndTime
		local := ts.In(a.loc)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)

		b.daily[day]++
		b.hourly[local.Hour()]++

		if !b.hasLatest || ts.After(b.latest) {
			b.latest = ts
			b.latestDay = day
			b.hasLatest = true
		}
		if !c.hasFirst || ts.Before(c.first) {
			c.first = ts
			c.hasFirst = true
		}
	}
	return b
}

func (b buckets) activeDays() int {
	return len(b.daily)
}

func (b buckets) summary() Summary {
	s := Summary{
		TotalGames: b.total,
		ActiveDays: b.activeDays(),
	}
	if s.ActiveDays > 0 {
		s.AveragePerDay = ratio1(s.TotalGames, s.ActiveDays)
	}
	for _, n := range b.daily {
		if n > s.PeakGames {
			s.PeakGames = n
		}
	}
	return s
}

// timeControls lists categories in order of first appearance on the timeline.
// Categories that only occur on records without an end time come last, by name.
func (b buckets) timeControls() []TimeControlStat {
	cats := make([]*category, 0, len(b.categories))
	for _, c := range b.categories {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		ci, cj := cats[i], cats[j]
		if ci.hasFirst != cj.hasFirst {
			return ci.hasFirst
		}
		if ci.hasFirst && !ci.first.Equal(cj.first) {
			return ci.first.Before(cj.first)
		}
		return ci.name < cj.name
	})

	activeDays := b.activeDays()
	out := make([]TimeControlStat, 0, len(cats))
	for _, c := range cats {
		stat := TimeControlStat{
			Format:  c.name,
			Games:   c.games,
			Percent: "0%",
		}
		if activeDays > 0 {
			stat.AvgPerDay = ratio1(c.games, activeDays)
		}
		if b.total > 0 {
			stat.Percent = formatDecimal(ratio1(c.games*100, b.total)) + "%"
		}
		out = append(out, stat)
	}
	return out
}

func (b buckets) patterns() Patterns {
	days := make([]time.Time, 0, len(b.daily))
	for d := range b.daily {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	p := Patterns{
		MostActiveHour: hourRange(b.peakHour()),
	}
	if day, ok := b.peakDay(days); ok {
		p.MostActiveDay = day.Format(dateLayout)
	}

	streak, gap := streaks(days)
	p.LongestStreak = fmt.Sprintf("%d days", streak)
	p.LongestBreak = fmt.Sprintf("%d days", gap)

	if b.hasLatest {
		p.LastActive = b.latestDay.Format(dateLayout)
	}
	return p
}

// peakDay picks the day with the most games; ties go to the earliest day.
// days must be sorted ascending.
func (b buckets) peakDay(days []time.Time) (time.Time, bool) {
	var best time.Time
	bestCount := 0
	for _, d := range days {
		if n := b.daily[d]; n > bestCount {
			best, bestCount = d, n
		}
	}
	return best, bestCount > 0
}

// peakHour picks the hour with the most games; ties go to the lowest hour.
// With no games it is hour 0.
func (b buckets) peakHour() int {
	best := 0
	for h := 1; h < len(b.hourly); h++ {
		if b.hourly[h] > b.hourly[best] {
			best = h
		}
	}
	return best
}

// streaks returns the longest run of consecutive days and the longest run of
// inactive days strictly between two active ones. days must be sorted and distinct.
func streaks(days []time.Time) (longestStreak, longestBreak int) {
	if len(days) == 0 {
		return 0, 0
	}

	longestStreak, current := 1, 1
	for i := 1; i < len(days); i++ {
		gap := int(days[i].Sub(days[i-1]).Hours() / 24)
		if gap == 1 {
			current++
			continue
		}
		if current > longestStreak {
			longestStreak = current
		}
		if gap-1 > longestBreak {
			longestBreak = gap - 1
		}
		current = 1
	}
	if current > longestStreak {
		longestStreak = current
	}
	return longestStreak, longestBreak
}

func hourRange(hour int) string {
	return fmt.Sprintf("%02d:00 - %02d:00", hour, (hour+1)%24)
}

// ratio1 returns n/d rounded half away from zero to one decimal place.
// n is scaled before dividing so 23/80 gives 28.8, not 28.7.
func ratio1(n, d int) float64 {
	return math.Round(float64(n*10)/float64(d)) / 10
}

// formatDecimal prints v with no trailing zeros: 50 -> "50", 66.7 -> "66.7".
func formatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
