package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for quivotequoi.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quivotequoi",
		Short: "Extract European Parliament plenary votes and amendments",
		Long: `quivotequoi reads the minutes and roll-call annexes published for each
plenary sitting of the European Parliament and writes one record per vote,
joined across both sources, to CSV.

The voted documents can then be resolved to their procedure and the
amendments tabled on them.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Project file path (default: .quivotequoi in current or home directory)")

	cmd.AddCommand(NewVotesCmd())
	cmd.AddCommand(NewDocsCmd())
	cmd.AddCommand(NewAttendanceCmd())
	cmd.AddCommand(NewCacheCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command. SIGINT and SIGTERM cancel the context
// shared by all commands.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
