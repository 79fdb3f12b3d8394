package config

import (
	"fmt"

	"phonebook/internal/entity"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectionDb(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseURL,
		PreferSimpleProtocol: true, // Disable prepared statements completely
	}), &gorm.Config{
		PrepareStmt:    false,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entity.User{}, &entity.SecurityLog{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
