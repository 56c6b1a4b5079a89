package database

import (
	"fmt"
	"log"

	"github.com/aidosorynbay/powerbook/internal/config"
	"github.com/aidosorynbay/powerbook/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	log.Println("database connected")
	return db
}

func AutoMigrate(db *gorm.DB) {
	// Exchange pair confirmation timestamps arrived after the first release;
	// AutoMigrate adds columns but older deployments predate the unique giver index.
	db.Exec("DROP INDEX IF EXISTS idx_exchange_pairs_round")

	err := db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.GroupMember{},
		&models.Round{},
		&models.RoundParticipant{},
		&models.ReadingLog{},
		&models.RoundResult{},
		&models.ExchangePair{},
	)
	if err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}
	log.Println("database migrated")
}
