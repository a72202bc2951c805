// Package migrate holds the schema management commands.
package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"ticketbot/internal/infrastructure/config"
	"ticketbot/internal/infrastructure/database"
	"ticketbot/internal/infrastructure/persistence/migrations"
	"ticketbot/internal/infrastructure/persistence/models"
	"ticketbot/internal/shared/logger"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Apply the ticket bot schema or inspect which tables exist.`,
	}

	cmd.AddCommand(
		newUpCommand(),
		newStatusCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all schema migrations",
		RunE:  runUp,
	}
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which tables exist",
		RunE:  runStatus,
	}
}

func initEnv() (logger.Interface, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return log, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("running migrations")

	if err := migrations.MigrateAll(database.Get()); err != nil {
		log.Errorw("migration failed", "error", err)
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Infow("migrations completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	_, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	migrator := database.Get().Migrator()
	tables := []interface{}{
		&models.TicketModel{},
		&models.ArchiveModel{},
		&models.ChallengeModel{},
		&models.HelperModel{},
	}

	fmt.Printf("\nSchema Status:\n")
	for _, table := range tables {
		stmt := database.Get().Model(table).Statement
		if err := stmt.Parse(table); err != nil {
			return fmt.Errorf("failed to resolve table name: %w", err)
		}
		fmt.Printf("  %-12s %v\n", stmt.Schema.Table, migrator.HasTable(table))
	}
	return nil
}
