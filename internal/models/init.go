package models

import (
	"github.com/catalog-next/internal/constants"
	"github.com/catalog-next/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaultUser seeds the first admin operator when the users table is empty.
func InitDefaultUser(username, password string) error {
	var count int64
	DB.Model(&User{}).Count(&count)
	if count > 0 {
		return nil
	}

	if username == "" {
		username = "admin"
	}
	if password == "" {
		password = "admin123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         constants.UserRoleAdmin,
		IsActive:     true,
	}
	if err := DB.Create(&user).Error; err != nil {
		return err
	}

	if password == "admin123" {
		logger.Warnw("default_user_created_with_default_password", "username", username)
		logger.Warnw("default_user_password_change_required", "username", username)
	} else {
		logger.Warnw("default_user_created", "username", username, "password_hidden", true)
	}
	return nil
}
