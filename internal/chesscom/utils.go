package chesscom

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vytor/chessactivity/internal/models"
)

var archiveURLPattern = regexp.MustCompile(`/games/(\d{4})/(\d{2})/?$`)

// ToRecords maps archive entries onto game records. The time class becomes the
// time control; a missing or zero end_time leaves EndTime nil.
func ToRecords(games []MonthlyGame) []models.GameRecord {
	out := make([]models.GameRecord, 0, len(games))
	for _, g := range games {
		rec := models.GameRecord{
			URL:         g.URL,
			TimeControl: strings.TrimSpace(g.TimeClass),
		}
		if g.EndTime != nil && *g.EndTime > 0 {
			ts := time.Unix(*g.EndTime, 0).UTC()
			rec.EndTime = &ts
		}
		out = append(out, rec)
	}
	return out
}

// ArchiveMonths parses archive URLs of the form .../games/YYYY/MM, skipping
// anything else, and returns the months in ascending order without duplicates.
func ArchiveMonths(archiveURLs []string) []models.YearMonth {
	seen := make(map[models.YearMonth]bool, len(archiveURLs))
	out := make([]models.YearMonth, 0, len(archiveURLs))
	for _, u := range archiveURLs {
		m := archiveURLPattern.FindStringSubmatch(u)
		if m == nil {
			continue
		}
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 {
			continue
		}
		ym := models.YearMonth{Year: year, Month: time.Month(month)}
		if seen[ym] {
			continue
		}
		seen[ym] = true
		out = append(out, ym)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// ExtractGameID returns the trailing numeric id of a game URL, or "" if there is none.
func ExtractGameID(gameURL string) string {
	u := strings.TrimRight(gameURL, "/")
	i := strings.LastIndex(u, "/")
	if i < 0 {
		return ""
	}
	id := u[i+1:]
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		return ""
	}
	return id
}
