// Command chessactivity prints Chess.com activity reports.
package main

import (
	"fmt"
	"os"

	"github.com/vytor/chessactivity/internal/cli"
)

// Build information set via ldflags
var version = "dev"

func main() {
	if err := cli.NewRootCmd(version, cli.DefaultServiceFactory).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
