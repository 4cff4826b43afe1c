package database

import (
	"log"

	"github.com/Burmese-AI/Fyndora-sub003/internal/config"
	"github.com/Burmese-AI/Fyndora-sub003/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("Database connection established, migration complete.")
}

// Migrate runs schema migration for every model. Shared with tests so the
// sqlite test databases stay in sync with the real schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Team{},
		&models.Workspace{},
		&models.WorkspaceTeam{},
		&models.Entry{},
		&models.Remittance{},
		&models.AuditLog{},
	)
}
