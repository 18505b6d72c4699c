// Command bootstrap-admin creates the first admin account, or promotes and
// resets the password of an existing user with that username.
//
// Usage:
//
//	bootstrap-admin --username=owner [--full-name="Shop Owner"]
//
// The password is read from BOOTSTRAP_ADMIN_PASSWORD.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres"
	userrepo "github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/phoneshop-backend/internal/app"
	authpkg "github.com/heartmarshall/phoneshop-backend/internal/auth"
	"github.com/heartmarshall/phoneshop-backend/internal/config"
	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

const minPasswordLen = 8

func main() {
	username := flag.String("username", "", "username of the admin account")
	fullName := flag.String("full-name", "", "display name for a new account")
	flag.Parse()

	_ = godotenv.Load()

	if *username == "" {
		fmt.Fprintln(os.Stderr, "Usage: bootstrap-admin --username=owner")
		os.Exit(1)
	}
	password := os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")
	if len(password) < minPasswordLen {
		log.Fatalf("BOOTSTRAP_ADMIN_PASSWORD must be at least %d characters", minPasswordLen)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	hash, err := authpkg.NewPasswordHasher(cfg.Auth.PasswordHashCost).Hash(password)
	if err != nil {
		logger.Error("hash password", slog.String("error", err.Error()))
		os.Exit(1)
	}

	users := userrepo.New(pool)
	txm := postgres.NewTxManager(pool)

	var created bool
	err = txm.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := users.GetByUsername(ctx, *username)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			_, err = users.Create(ctx, domain.User{
				Username:     *username,
				FullName:     *fullName,
				Role:         domain.UserRoleAdmin,
				PasswordHash: &hash,
				IsActive:     true,
			})
			created = true
			return err
		case err != nil:
			return err
		}

		if err := users.SetRole(ctx, existing.ID, domain.UserRoleAdmin); err != nil {
			return err
		}
		if err := users.SetPassword(ctx, existing.ID, hash, false); err != nil {
			return err
		}
		return users.SetActive(ctx, existing.ID, true)
	})
	if err != nil {
		logger.Error("bootstrap admin", slog.String("username", *username), slog.String("error", err.Error()))
		os.Exit(1)
	}

	if created {
		fmt.Printf("Admin %q created.\n", *username)
		return
	}
	fmt.Printf("User %q promoted to admin and password reset.\n", *username)
}
