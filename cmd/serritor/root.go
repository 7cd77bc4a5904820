package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for serritor.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serritor",
		Short: "Browser-driving web crawler with a prioritized frontier",
		Long: `Serritor crawls websites through a real browser rather than a plain HTTP
client, so script-rendered pages and client-side redirects are seen the way
a visitor sees them.

Candidates flow through a prioritized, deduplicating frontier with optional
depth limiting and offsite filtering. Crawl state is snapshotted to a local
SQLite database, so an interrupted session can be resumed with the same
deduplication and ordering it left off with.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewResumeCmd())
	cmd.AddCommand(NewSessionsCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
