package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	repo "creditbureau-backend/internal/adapter/repository/mysql"
	"creditbureau-backend/internal/config"
	"creditbureau-backend/internal/domain/user"
	"creditbureau-backend/internal/infrastructure/db"
	"creditbureau-backend/internal/usecase/auth"
	"creditbureau-backend/pkg/id"
)

const adminName = "System Admin"

// seedAdmin creates the admin account unless one already exists.
func seedAdmin(ctx context.Context, users user.Repository, email, password string, cost int) (*user.User, bool, error) {
	existing, err := users.GetFirstByRole(ctx, user.RoleAdmin)
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, fmt.Errorf("look up admin: %w", err)
	}

	email = auth.NormalizeEmail(email)
	if email == "" || len(password) < auth.MinPasswordLen {
		return nil, false, fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD (min %d chars) are required", auth.MinPasswordLen)
	}
	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		return nil, false, err
	}
	admin := &user.User{
		UserID:       id.NewID32(),
		Name:         adminName,
		Email:        email,
		PasswordHash: hash,
		Role:         user.RoleAdmin,
		IsApproved:   true,
	}
	if err := users.Create(ctx, admin); err != nil {
		return nil, false, fmt.Errorf("create admin: %w", err)
	}
	return admin, true, nil
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()
	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), cfg.LogLevel, log)
	if err != nil {
		log.WithError(err).Fatal("db")
	}
	if err := db.Migrate(gdb); err != nil {
		log.WithError(err).Fatal("migrate")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin, created, err := seedAdmin(ctx, repo.NewUserRepository(gdb), cfg.AdminEmail, cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		log.WithError(err).Error("seed admin")
		cancel()
		os.Exit(1)
	}
	entry := log.WithFields(logrus.Fields{"email": admin.Email, "user_id": admin.UserID})
	if created {
		entry.Info("admin account created")
		return
	}
	entry.Info("admin account already exists")
}
