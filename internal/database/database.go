package database

import (
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tigersaymon/lfg-teammate-finder/internal/models"
)

var DB *gorm.DB

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) {
	var err error

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}

	logrus.Info("database connection established")

	if err := Migrate(DB); err != nil {
		logrus.Fatalf("failed to migrate database: %v", err)
	}

	logrus.Info("database migrated successfully")
}

// Migrate runs the schema migrations for all models. Split out of Connect so
// tests can run it against their own database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Game{},
		&models.GameRole{},
		&models.GameProfile{},
		&models.Lobby{},
		&models.Slot{},
	)
}
