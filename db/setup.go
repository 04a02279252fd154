package db

import (
	"github.com/chatloop-dev/chatloop/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	return OpenDatabase(postgres.Open(dsn))
}

// OpenDatabase wires an already-built dialector, so tests can run against
// an in-memory sqlite database instead of postgres.
func OpenDatabase(dialector gorm.Dialector) error {
	var err error

	DB, err = gorm.Open(dialector, &gorm.Config{})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	models := []interface{}{
		&models.User{},
		&models.Room{},
		&models.Participant{},
		&models.Message{},
	}

	migrator := DB.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}
