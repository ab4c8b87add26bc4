package cli

import (
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vytor/chessactivity/internal/errors"
	"github.com/vytor/chessactivity/internal/logger"
	"github.com/vytor/chessactivity/internal/render"
	"github.com/vytor/chessactivity/internal/services"
)

type activityFlags struct {
	Period  string
	JSON    bool
	Chart   bool
	NoCache bool
}

func newActivityCmd(c *CLI) *cobra.Command {
	var flags activityFlags

	cmd := &cobra.Command{
		Use:   "activity <username>",
		Short: "Show activity statistics for a player",
		Long: `Show activity statistics for a Chess.com player.

Periods:
  30d       the last 30 days, ending today
  2024-03   the calendar month March 2024

Examples:
  chessactivity activity hikaru
  chessactivity activity hikaru --period 7d --chart
  chessactivity activity hikaru --period 2024-03 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runActivity(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.Period, "period", "p", "", "Time period to analyze, e.g. 30d or 2024-03 (default from DEFAULT_PERIOD)")
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&flags.Chart, "chart", false, "Add a games-per-hour chart")
	cmd.Flags().BoolVar(&flags.NoCache, "no-cache", false, "Do not read or write the local archive cache")
	return cmd
}

func (c *CLI) runActivity(cmd *cobra.Command, username string, flags activityFlags) error {
	ctx := logger.NewContext(cmd.Context(), logger.Default().WithPrefix("cli"))
	out := cmd.OutOrStdout()

	svc, closeFn, err := c.service(!flags.NoCache)
	if err != nil {
		return err
	}
	defer closeFn()

	report, err := svc.Analyze(ctx, username, flags.Period)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeNotFound) || errors.HasCode(err, errors.ErrCodeUpstream) {
			return fmt.Errorf("user '%s' not found or API error occurred", username)
		}
		return userError(err)
	}

	if flags.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			*services.ActivityReport
			Description string `json:"description"`
		}{report, render.PeriodDescription(report.Range, report.AsOf)})
	}

	if !report.GamesFound {
		fmt.Fprintf(out, "No games found for user '%s' in the specified period.\n", username)
		return nil
	}

	fmt.Fprint(out, render.Report(username, report.Range, report.AsOf, report.Metrics))
	if flags.Chart {
		fmt.Fprintln(out, render.HourlyChart(report.Hourly))
	}
	return nil
}

// userError strips the error code from application errors.
func userError(err error) error {
	if appErr, ok := err.(*errors.AppError); ok {
		return stderrors.New(appErr.Message)
	}
	return err
}
