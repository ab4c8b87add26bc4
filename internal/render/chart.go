package render

import (
	"github.com/guptarohit/asciigraph"
)

const chartHeight = 8

// HourlyChart plots games per hour of day, 00 to 23.
func HourlyChart(hourly [24]int) string {
	data := make([]float64, len(hourly))
	total := 0
	for h, n := range hourly {
		data[h] = float64(n)
		total += n
	}
	if total == 0 {
		return sectionStyle.Render("Games by Hour:") + "\nNo timed games in this period\n"
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(chartHeight),
		asciigraph.Width(len(data)*2),
		asciigraph.Precision(0),
		asciigraph.Caption("games per hour (00:00 - 23:00)"),
	)
	return sectionStyle.Render("Games by Hour:") + "\n" + graph + "\n"
}
