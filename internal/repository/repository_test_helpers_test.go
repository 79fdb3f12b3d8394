package repository

import (
	"fmt"
	"strings"
	"testing"

	"phonebook/internal/entity"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newRepositoryDBForTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&entity.User{}, &entity.SecurityLog{}); err != nil {
		t.Fatalf("migrate db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedUser(t *testing.T, repo UserRepository, email string) *entity.User {
	t.Helper()
	user := &entity.User{
		Email:            email,
		PasswordHash:     "hash",
		SubscriptionTier: entity.SubscriptionStarter,
	}
	if err := repo.Create(t.Context(), user); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return user
}
