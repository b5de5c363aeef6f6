package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"shop/internal/models"
)

// Seed creates the initial manager account if no manager exists yet.
// Registration through the API always yields employees, so without this
// nobody could reach the manager-only endpoints.
func Seed(ctx context.Context, gdb *gorm.DB, username, password string) error {
	var count int64
	if err := gdb.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", models.RoleManager).
		Count(&count).Error; err != nil {
		return fmt.Errorf("seed check managers: %w", err)
	}

	if count > 0 {
		log.Info().Msg("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	manager := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleManager,
	}
	if err := gdb.WithContext(ctx).Create(manager).Error; err != nil {
		return fmt.Errorf("seed insert manager: %w", err)
	}

	log.Info().Str("username", username).Msg("database seeded with default manager")
	return nil
}
