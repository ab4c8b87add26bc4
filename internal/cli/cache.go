package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vytor/chessactivity/internal/logger"
)

func newCacheCmd(c *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the local archive cache",
	}

	listCmd := &cobra.Command{
		Use:   "list <username>",
		Short: "List cached months of a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logger.NewContext(cmd.Context(), logger.Default().WithPrefix("cli"))
			svc, closeFn, err := c.service(true)
			if err != nil {
				return err
			}
			defer closeFn()

			months, err := svc.CachedMonths(ctx, args[0])
			if err != nil {
				return userError(err)
			}
			if len(months) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Nothing cached for '%s'.\n", args[0])
				return nil
			}

			rows := make([][]string, 0, len(months))
			for _, m := range months {
				rows = append(rows, []string{m.Month.String(), strconv.Itoa(m.Games), m.FetchedAt.Format("2006-01-02 15:04")})
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("Month", "Games", "Fetched").
				Rows(rows...)
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear <username>",
		Short: "Drop every cached month of a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logger.NewContext(cmd.Context(), logger.Default().WithPrefix("cli"))
			svc, closeFn, err := c.service(true)
			if err != nil {
				return err
			}
			defer closeFn()

			n, err := svc.InvalidateUser(ctx, args[0])
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached month(s) for '%s'.\n", n, args[0])
			return nil
		},
	}

	cmd.AddCommand(listCmd, clearCmd)
	return cmd
}
