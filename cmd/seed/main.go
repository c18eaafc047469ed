// AngelaMos | 2026
// main.go

// Command seed provisions the platform super administrator and, on request,
// the ES256 key pair used to sign access tokens.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/carterperez-dev/templates/saas-backend/internal/auth"
	"github.com/carterperez-dev/templates/saas-backend/internal/config"
	"github.com/carterperez-dev/templates/saas-backend/internal/core"
	"github.com/carterperez-dev/templates/saas-backend/internal/user"
	"github.com/carterperez-dev/templates/saas-backend/migrations"
)

const (
	defaultEmail    = "superadmin@system.com"
	defaultFullName = "System Administrator"
	passwordEnv     = "SEED_ADMIN_PASSWORD"
	minPasswordLen  = 8
)

type options struct {
	configPath   string
	email        string
	fullName     string
	password     string
	generateKeys bool
	privateKey   string
	publicKey    string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "config.yaml", "path to config file")
	flag.StringVar(&opts.email, "email", defaultEmail, "super admin email")
	flag.StringVar(&opts.fullName, "name", defaultFullName, "super admin full name")
	flag.StringVar(&opts.password, "password", "", "super admin password (defaults to $"+passwordEnv+")")
	flag.BoolVar(&opts.generateKeys, "generate-keys", false, "write a new ES256 key pair and exit")
	flag.StringVar(&opts.privateKey, "private-key", "keys/private.pem", "private key output path")
	flag.StringVar(&opts.publicKey, "public-key", "keys/public.pem", "public key output path")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := run(opts, logger); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(opts options, logger *slog.Logger) error {
	if opts.generateKeys {
		if err := auth.GenerateKeyPair(opts.privateKey, opts.publicKey); err != nil {
			return err
		}
		logger.Info("key pair written",
			"private_key", opts.privateKey,
			"public_key", opts.publicKey,
		)
		return nil
	}

	password := opts.password
	if password == "" {
		password = os.Getenv(passwordEnv)
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters (flag -password or $%s)",
			minPasswordLen, passwordEnv)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // process exit

	if err := db.Migrate(ctx, migrations.FS); err != nil {
		return err
	}

	return seedSuperAdmin(ctx, user.NewRepository(db.DB), opts.email, opts.fullName, password, logger)
}

func seedSuperAdmin(
	ctx context.Context,
	repo user.Repository,
	email, fullName, password string,
	logger *slog.Logger,
) error {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := repo.GetByEmail(ctx, "", email)
	if err == nil {
		logger.Info("super admin already exists", "id", existing.ID, "email", existing.Email)
		return nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return err
	}

	hash, err := core.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin := user.NewSystemAdmin(email, fullName, hash)
	if err := repo.Create(ctx, admin); err != nil {
		return err
	}

	logger.Info("super admin created", "id", admin.ID, "email", admin.Email)
	return nil
}
