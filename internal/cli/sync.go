package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vytor/chessactivity/internal/logger"
)

func newSyncCmd(c *CLI) *cobra.Command {
	var periodExpr string

	cmd := &cobra.Command{
		Use:   "sync <username>",
		Short: "Download finished months into the local archive cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logger.NewContext(cmd.Context(), logger.Default().WithPrefix("cli"))

			svc, closeFn, err := c.service(true)
			if err != nil {
				return err
			}
			defer closeFn()

			n, err := svc.Sync(ctx, args[0], periodExpr)
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cached %d month(s) for '%s'.\n", n, args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&periodExpr, "period", "p", "", "Time period to sync, e.g. 90d or 2024-03")
	return cmd
}
