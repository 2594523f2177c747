// Command seed creates the default admin account when it does not exist.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iliyamo/seat-reservation/internal/config"
	"github.com/iliyamo/seat-reservation/internal/database"
	"github.com/iliyamo/seat-reservation/internal/logger"
	"github.com/iliyamo/seat-reservation/internal/model"
	"github.com/iliyamo/seat-reservation/internal/repository"
)

type userStore interface {
	Create(ctx context.Context, name, email, password, role string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type admin struct {
	Name     string
	Email    string
	Password string
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal(err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	zl, err := logger.New(cfg.LogLevel, "seed")
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		zl.Fatal("open database", zap.Error(err))
	}
	defer db.Close()
	if err := database.Migrate(db, zl); err != nil {
		zl.Fatal("migrate", zap.Error(err))
	}

	a := admin{
		Name:     envOr("ADMIN_NAME", "Office Admin"),
		Email:    envOr("ADMIN_EMAIL", "admin@"+cfg.EmailDomain),
		Password: os.Getenv("ADMIN_PASSWORD"),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := ensureAdmin(ctx, repository.NewUserRepo(db), a, cfg.BcryptCost, zl); err != nil {
		zl.Fatal("seed admin", zap.Error(err))
	}
}

// ensureAdmin creates the admin unless a user with its email exists.
func ensureAdmin(ctx context.Context, users userStore, a admin, cost int, zl *zap.Logger) error {
	if a.Password == "" {
		return errors.New("ADMIN_PASSWORD is required")
	}
	existing, err := users.GetByEmail(ctx, a.Email)
	switch {
	case err == nil:
		zl.Info("admin already exists", zap.String("email", existing.Email), zap.String("role", existing.Role))
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return err
	}
	id, err := users.Create(ctx, a.Name, a.Email, a.Password, model.RoleAdmin, cost)
	if err != nil {
		return err
	}
	zl.Info("admin created", zap.Uint64("id", id), zap.String("email", repository.NormalizeEmail(a.Email)))
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
