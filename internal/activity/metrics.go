package activity

// Metrics is the full result of one Analyze call.
type Metrics struct {
	Summary     Summary           `json:"summary"`
	TimeControl []TimeControlStat `json:"timeControl"`
	Patterns    Patterns          `json:"patterns"`
}

// Summary holds volume and frequency figures.
type Summary struct {
	TotalGames    int     `json:"total_games"`
	ActiveDays    int     `json:"active_days"`
	AveragePerDay float64 `json:"average_per_day"`
	PeakGames     int     `json:"peak_games"`
}

// TimeControlStat is the breakdown entry for one time control category.
type TimeControlStat struct {
	Format    string  `json:"format"`
	Games     int     `json:"games"`
	AvgPerDay float64 `json:"avg_per_day"`
	Percent   string  `json:"percent"`
}

// Patterns holds the temporal figures. Every field is pre-rendered for display.
type Patterns struct {
	MostActiveDay  string `json:"most_active_day"`
	MostActiveHour string `json:"most_active_hour"`
	LongestStreak  string `json:"longest_streak"`
	LongestBreak   string `json:"longest_break"`
	LastActive     string `json:"last_active"`
}
