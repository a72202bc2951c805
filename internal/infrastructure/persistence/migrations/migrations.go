package migrations

import (
	"gorm.io/gorm"

	"ticketbot/internal/infrastructure/persistence/models"
)

func MigrateTicketTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.TicketModel{},
		&models.ArchiveModel{},
	)
}

func MigrateChallengeTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.ChallengeModel{},
		&models.HelperModel{},
	)
}

// MigrateAll runs every table migration in dependency order.
func MigrateAll(db *gorm.DB) error {
	if err := MigrateTicketTables(db); err != nil {
		return err
	}
	return MigrateChallengeTables(db)
}
