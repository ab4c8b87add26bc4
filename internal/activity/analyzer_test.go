package activity_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/chessactivity/internal/activity"
	"github.com/vytor/chessactivity/internal/models"
)

func at(t *testing.T, s string) *time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", s)
	require.NoError(t, err)
	return &ts
}

func game(t *testing.T, when, timeControl string) models.GameRecord {
	t.Helper()
	return models.GameRecord{EndTime: at(t, when), TimeControl: timeControl}
}

func TestAnalyze_NoGames(t *testing.T) {
	a := activity.NewAnalyzer()
	a.AddGames([]models.GameRecord{})

	m := a.Analyze()

	assert.Equal(t, activity.Summary{}, m.Summary)
	assert.NotNil(t, m.TimeControl)
	assert.Empty(t, m.TimeControl)
	assert.Equal(t, activity.Patterns{
		MostActiveDay:  "",
		MostActiveHour: "00:00 - 01:00",
		LongestStreak:  "0 days",
		LongestBreak:   "0 days",
		LastActive:     "",
	}, m.Patterns)

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"timeControl":[]`)
}

func TestAnalyze_DummyGames(t *testing.T) {
	a := activity.NewAnalyzer()
	a.AddGames([]models.GameRecord{
		game(t, "2024-05-01 14:00", "blitz"),
		game(t, "2024-05-01 15:00", "blitz"),
		game(t, "2024-05-02 10:00", "rapid"),
	})

	m := a.Analyze()

	assert.Equal(t, 3, m.Summary.TotalGames)
	assert.Equal(t, 2, m.Summary.ActiveDays)
	assert.Equal(t, 1.5, m.Summary.AveragePerDay)
	assert.Equal(t, 2, m.Summary.PeakGames)

	require.Len(t, m.TimeControl, 2)
	assert.Equal(t, activity.TimeControlStat{Format: "blitz", Games: 2, AvgPerDay: 1, Percent: "66.7%"}, m.TimeControl[0])
	assert.Equal(t, activity.TimeControlStat{Format: "rapid", Games: 1, AvgPerDay: 0.5, Percent: "33.3%"}, m.TimeControl[1])

	assert.Equal(t, "2024-05-01", m.Patterns.MostActiveDay)
	assert.Equal(t, "14:00 - 15:00", m.Patterns.MostActiveHour)
	assert.Equal(t, "2 days", m.Patterns.LongestStreak)
	assert.Equal(t, "0 days", m.Patterns.LongestBreak)
	assert.Equal(t, "2024-05-02", m.Patterns.LastActive)
}

func TestAnalyze_StreakAndBreak(t *testing.T) {
	a := activity.NewAnalyzer()
	a.AddGames([]models.GameRecord{
		game(t, "2024-01-05 09:00", "blitz"),
		game(t, "2024-01-01 09:00", "blitz"),
		game(t, "2024-01-02 09:00", "blitz"),
	})

	m := a.Analyze()

	assert.Equal(t, "2 days", m.Patterns.LongestStreak)
	assert.Equal(t, "2 days", m.Patterns.LongestBreak)
}

func TestAnalyze_StreakTable(t *testing.T) {
	tests := []struct {
		name   string
		days   []string
		streak string
		gap    string
	}{
		{"single day", []string{"2024-01-01"}, "1 days", "0 days"},
		{"same day twice", []string{"2024-01-01", "2024-01-01"}, "1 days", "0 days"},
		{"three in a row", []string{"2024-01-01", "2024-01-02", "2024-01-03"}, "3 days", "0 days"},
		{"longest run last", []string{"2024-01-01", "2024-01-03", "2024-01-04", "2024-01-05"}, "3 days", "1 days"},
		{"longest break first", []string{"2024-01-01", "2024-01-11", "2024-01-13"}, "1 days", "9 days"},
		{"across month end", []string{"2024-02-28", "2024-02-29", "2024-03-01"}, "3 days", "0 days"},
		{"across year end", []string{"2023-12-31", "2024-01-01"}, "2 days", "0 days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := activity.NewAnalyzer()
			for _, d := range tt.days {
				a.AddGames([]models.GameRecord{game(t, d+" 12:00", "blitz")})
			}
			m := a.Analyze()
			assert.Equal(t, tt.streak, m.Patterns.LongestStreak)
			assert.Equal(t, tt.gap, m.Patterns.LongestBreak)
		})
	}
}

func TestAnalyze_MissingFields(t *testing.T) {
	a := activity.NewAnalyzer()
	a.AddGames([]models.GameRecord{
		game(t, "2024-05-01 14:00", "blitz"),
		{TimeControl: "blitz"},
		{},
		{EndTime: &time.Time{}, TimeControl: "daily"},
	})

	m := a.Analyze()

	assert.Equal(t, 4, m.Summary.TotalGames)
	assert.Equal(t, 1, m.Summary.ActiveDays)
	assert.Equal(t, 4.0, m.Summary.AveragePerDay)
	assert.Equal(t, 1, m.Summary.PeakGames)

	require.Len(t, m.TimeControl, 3)
	assert.Equal(t, "blitz", m.TimeControl[0].Format)
	assert.Equal(t, 2, m.TimeControl[0].Games)
	assert.Equal(t, "50%", m.TimeControl[0].Percent)
	assert.Equal(t, 2.0, m.TimeControl[0].AvgPerDay)
	// categories never seen with a timestamp follow, by name
	assert.Equal(t, "daily", m.TimeControl[1].Format)
	assert.Equal(t, models.UnknownTimeControl, m.TimeControl[2].Format)
	assert.Equal(t, "25%", m.TimeControl[2].Percent)

	assert.Equal(t, "2024-05-01", m.Patterns.LastActive)
	assert.Equal(t, "1 days", m.Patterns.LongestStreak)
}

func TestAnalyze_OnlyUntimedGames(t *testing.T) {
	a := activity.NewAnalyzer()
	a.AddGames([]models.GameRecord{{TimeControl: "rapid"}, {TimeControl: "rapid"}})

	m := a.Analyze()

	assert.Equal(t, 2, m.Summary.TotalGames)
	assert.Equal(t, 0, m.Summary.ActiveDays)
	assert.Equal(t, 0.0, m.Summary.AveragePerDay)
	require.Len(t, m.TimeControl, 1)
	assert.Equal(t, 0.0, m.TimeControl[0].AvgPerDay)
	assert.Equal(t, "100%", m.TimeControl[0].Percent)
	assert.Equal(t, "", m.Patterns.MostActiveDay)
	assert.Equal(t, "", m.Patterns.LastActive)
	assert.Equal(t, "0 days", m.Patterns.LongestStreak)
}

func TestAnalyze_TieBreaks(t *testing.T) {
	a := activity.NewAnalyzer()
	a.AddGames([]models.GameRecord{
		game(t, "2024-01-03 18:00", "blitz"),
		game(t, "2024-01-03 18:30", "blitz"),
		game(t, "2024-01-01 09:00", "blitz"),
		game(t, "2024-01-01 09:10", "blitz"),
	})

	m := a.Analyze()

	assert.Equal(t, "2024-01-01", m.Patterns.MostActiveDay, "earliest day wins a tie")
	assert.Equal(t, "09:00 - 10:00", m.Patterns.MostActiveHour, "lowest hour wins a tie")
	assert.Equal(t, 2, m.Summary.PeakGames)
}

func TestAnalyze_MostActiveHourWraps(t *testing.T) {
	a := activity.NewAnalyzer()
	a.AddGames([]models.GameRecord{
		game(t, "2024-01-01 23:05", "bullet"),
		game(t, "2024-01-02 23:55", "bullet"),
		game(t, "2024-01-02 08:00", "bullet"),
	})

	assert.Equal(t, "23:00 - 00:00", a.Analyze().Patterns.MostActiveHour)
}

func TestAnalyze_LastActiveUsesLatestTimestamp(t *testing.T) {
	a := activity.NewAnalyzer()
	a.AddGames([]models.GameRecord{game(t, "2024-03-20 10:00", "blitz")})
	a.AddGames([]models.GameRecord{game(t, "2024-02-01 10:00", "blitz"), {TimeControl: "blitz"}})

	assert.Equal(t, "2024-03-20", a.Analyze().Patterns.LastActive)
}

func TestAnalyze_Location(t *testing.T) {
	plus2 := time.FixedZone("UTC+2", 2*60*60)
	records := []models.GameRecord{
		game(t, "2024-05-01 23:30", "blitz"),
		game(t, "2024-05-01 21:00", "blitz"),
	}

	utc := activity.NewAnalyzer()
	utc.AddGames(records)
	m := utc.Analyze()
	assert.Equal(t, 1, m.Summary.ActiveDays)
	assert.Equal(t, "2024-05-01", m.Patterns.LastActive)

	local := activity.NewAnalyzer(activity.WithLocation(plus2))
	local.AddGames(records)
	m = local.Analyze()
	assert.Equal(t, 2, m.Summary.ActiveDays)
	assert.Equal(t, "2024-05-02", m.Patterns.LastActive)
	assert.Equal(t, "2 days", m.Patterns.LongestStreak)
	assert.Equal(t, "2024-05-01", m.Patterns.MostActiveDay)
	assert.Equal(t, "01:00 - 02:00", m.Patterns.MostActiveHour)
}

func TestAnalyze_Idempotent(t *testing.T) {
	a := activity.NewAnalyzer()
	a.AddGames([]models.GameRecord{
		game(t, "2024-05-01 14:00", "blitz"),
		game(t, "2024-05-03 14:00", "rapid"),
		game(t, "2024-05-04 02:00", "bullet"),
		{TimeControl: "daily"},
	})

	first, err := json.Marshal(a.Analyze())
	require.NoError(t, err)
	second, err := json.Marshal(a.Analyze())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyze_OrderIndependent(t *testing.T) {
	batchA := []models.GameRecord{
		game(t, "2024-05-03 14:00", "rapid"),
		game(t, "2024-05-01 15:00", "blitz"),
		{TimeControl: "daily"},
	}
	batchB := []models.GameRecord{
		game(t, "2024-05-07 10:00", "bullet"),
		game(t, "2024-05-01 14:00", "blitz"),
		{},
	}

	ab := activity.NewAnalyzer()
	ab.AddGames(batchA)
	ab.AddGames(batchB)

	ba := activity.NewAnalyzer()
	ba.AddGames(batchB)
	ba.AddGames(batchA)

	one := activity.NewAnalyzer()
	one.AddGames(append(append([]models.GameRecord{}, batchA...), batchB...))

	assert.Equal(t, ab.Analyze(), ba.Analyze())
	assert.Equal(t, ab.Analyze(), one.Analyze())

	m := ab.Analyze()
	require.Len(t, m.TimeControl, 5)
	assert.Equal(t, []string{"blitz", "rapid", "bullet", "daily", "unknown"}, []string{
		m.TimeControl[0].Format, m.TimeControl[1].Format, m.TimeControl[2].Format,
		m.TimeControl[3].Format, m.TimeControl[4].Format,
	})
	assert.Equal(t, "3 days", m.Patterns.LongestBreak)
	assert.Equal(t, "2024-05-07", m.Patterns.LastActive)
}

func TestAnalyze_Rounding(t *testing.T) {
	a := activity.NewAnalyzer()
	records := []models.GameRecord{game(t, "2024-05-01 10:00", "rapid")}
	for i := 0; i < 6; i++ {
		records = append(records, game(t, "2024-05-02 10:00", "blitz"))
	}
	records = append(records, game(t, "2024-05-03 10:00", "blitz"))
	a.AddGames(records)

	m := a.Analyze()

	// 8 games over 3 days
	assert.Equal(t, 2.7, m.Summary.AveragePerDay)
	assert.Equal(t, 6, m.Summary.PeakGames)
	require.Len(t, m.TimeControl, 2)
	assert.Equal(t, "rapid", m.TimeControl[0].Format)
	assert.Equal(t, 0.3, m.TimeControl[0].AvgPerDay)
	assert.Equal(t, "12.5%", m.TimeControl[0].Percent)
	assert.Equal(t, 2.3, m.TimeControl[1].AvgPerDay)
	assert.Equal(t, "87.5%", m.TimeControl[1].Percent)
}

func TestAnalyze_PercentExactHalves(t *testing.T) {
	tests := []struct {
		blitz, rapid         int
		wantBlitz, wantRapid string
	}{
		{23, 57, "28.8%", "71.3%"},
		{29, 371, "7.3%", "92.8%"},
		{1, 7, "12.5%", "87.5%"},
	}

	for _, tt := range tests {
		var records []models.GameRecord
		for i := 0; i < tt.blitz; i++ {
			records = append(records, game(t, "2024-05-01 10:00", "blitz"))
		}
		for i := 0; i < tt.rapid; i++ {
			records = append(records, game(t, "2024-05-01 11:00", "rapid"))
		}
		a := activity.NewAnalyzer()
		a.AddGames(records)

		m := a.Analyze()
		require.Len(t, m.TimeControl, 2)
		assert.Equal(t, tt.wantBlitz, m.TimeControl[0].Percent, "%d/%d", tt.blitz, tt.blitz+tt.rapid)
		assert.Equal(t, tt.wantRapid, m.TimeControl[1].Percent, "%d/%d", tt.rapid, tt.blitz+tt.rapid)
	}
}

func TestAnalyze_AverageExactHalf(t *testing.T) {
	var records []models.GameRecord
	for _, day := range []string{"2024-05-01", "2024-05-02", "2024-05-03", "2024-05-04"} {
		records = append(records, game(t, day+" 10:00", "blitz"))
	}
	for i := 0; i < 21; i++ {
		records = append(records, game(t, "2024-05-01 12:00", "blitz"))
	}
	a := activity.NewAnalyzer()
	a.AddGames(records)

	// 25 games over 4 days
	m := a.Analyze()
	assert.Equal(t, 6.3, m.Summary.AveragePerDay)
	assert.Equal(t, 6.3, m.TimeControl[0].AvgPerDay)
}

func TestHourlyDistribution(t *testing.T) {
	a := activity.NewAnalyzer()
	a.AddGames([]models.GameRecord{
		game(t, "2024-05-01 14:00", "blitz"),
		game(t, "2024-05-02 14:59", "blitz"),
		game(t, "2024-05-02 00:01", "blitz"),
		{TimeControl: "blitz"},
	})

	hours := a.HourlyDistribution()
	assert.Equal(t, 2, hours[14])
	assert.Equal(t, 1, hours[0])
	assert.Equal(t, 4, a.Len())

	total := 0
	for _, n := range hours {
		total += n
	}
	assert.Equal(t, 3, total)
}
