package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/catalog-next/internal/config"
	"github.com/catalog-next/internal/constants"
	"github.com/catalog-next/internal/models"
	"github.com/catalog-next/internal/repository"
)

func newAuthTestEnv(t *testing.T) (*AuthService, repository.UserRepository) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "unit-test-secret-key-0123456789abcdef"
	cfg.JWT.ExpireHours = 1
	userRepo := repository.NewUserRepository(db)
	return NewAuthService(cfg, userRepo), userRepo
}

func createAuthUser(t *testing.T, svc *AuthService, repo repository.UserRepository, username, password string, active bool) *models.User {
	t.Helper()

	hash, err := svc.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	user := models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         constants.UserRoleOperator,
		IsActive:     active,
	}
	if err := repo.Create(&user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if !active {
		user.IsActive = false
		if err := repo.Update(&user); err != nil {
			t.Fatalf("deactivate user failed: %v", err)
		}
	}
	return &user
}

func TestLogin(t *testing.T) {
	svc, repo := newAuthTestEnv(t)
	createAuthUser(t, svc, repo, "operator", "correct-horse", true)

	user, token, expiresAt, err := svc.Login("operator", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" || expiresAt.IsZero() {
		t.Fatalf("empty token or expiry")
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Username != "operator" || claims.Role != constants.UserRoleOperator {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	reloaded, err := repo.GetByID(user.ID)
	if err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if reloaded.LastLoginAt == nil {
		t.Fatalf("last login not recorded")
	}
}

func TestLogin_Refusals(t *testing.T) {
	svc, repo := newAuthTestEnv(t)
	createAuthUser(t, svc, repo, "operator", "correct-horse", true)
	createAuthUser(t, svc, repo, "disabled", "correct-horse", false)

	if _, _, _, err := svc.Login("operator", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, _, _, err := svc.Login("ghost", "correct-horse"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
	if _, _, _, err := svc.Login("disabled", "correct-horse"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for inactive user, got %v", err)
	}
}

func TestParseJWT_WrongSecret(t *testing.T) {
	svc, repo := newAuthTestEnv(t)
	user := createAuthUser(t, svc, repo, "operator", "correct-horse", true)

	token, _, err := svc.GenerateJWT(user)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	otherCfg := &config.Config{}
	otherCfg.JWT.SecretKey = "a-completely-different-secret-value!"
	otherCfg.JWT.ExpireHours = 1
	other := NewAuthService(otherCfg, repo)
	if _, err := other.ParseJWT(token); err == nil {
		t.Fatalf("expected rejection with wrong secret")
	}
}

func TestChangePassword(t *testing.T) {
	svc, repo := newAuthTestEnv(t)
	user := createAuthUser(t, svc, repo, "operator", "old-password", true)

	if err := svc.ChangePassword(user.ID, "wrong", "new-password"); err != ErrInvalidPassword {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if err := svc.ChangePassword(9999, "old-password", "new-password"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := svc.ChangePassword(user.ID, "old-password", "new-password"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if _, _, _, err := svc.Login("operator", "old-password"); err != ErrInvalidCredentials {
		t.Fatalf("old password still accepted")
	}
	if _, _, _, err := svc.Login("operator", "new-password"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}
