package main

import (
	"os"

	"github.com/spf13/cobra"

	"ticketbot/internal/interfaces/cli/migrate"
	"ticketbot/internal/interfaces/cli/serve"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ticketbot",
		Short: "Ticketbot - a Discord support ticket bot",
		Long:  `Ticketbot manages support ticket channels on a Discord guild: creation, closing, transcripts, inactivity auto-close, and helper routing against an external challenge system.`,
	}

	rootCmd.AddCommand(
		serve.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
