// blogctl is the operator tool for the blog API: it applies schema
// migrations and manages user accounts directly against PostgreSQL,
// using the same configuration (CONFIG_FILE and environment) as the server.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/blog-api/internal/config"
	"github.com/blog-api/internal/database"
	"github.com/blog-api/internal/repository"
	"github.com/blog-api/internal/service"
	"github.com/blog-api/pkg/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printHelp()
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Storage.Driver != config.DriverPostgres {
		return fmt.Errorf("blogctl operates on PostgreSQL; STORAGE_DRIVER is %q", cfg.Storage.Driver)
	}

	switch args[0] {
	case "migrate":
		return runMigrate(cfg, args[1:])
	case "createuser":
		return runCreateUser(cfg, args[1:])
	case "deleteuser":
		return runDeleteUser(cfg, args[1:])
	default:
		printHelp()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runMigrate(cfg *config.Config, args []string) error {
	var migrationsPath string

	flagSet := pflag.NewFlagSet("blogctl migrate", pflag.ContinueOnError)
	flagSet.StringVar(&migrationsPath, "path", cfg.Storage.MigrationsPath, "directory holding the migration files")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		return fmt.Errorf("migrate: expected one of up, down, goto VERSION, version")
	}

	db, err := database.New(&cfg.Database, logger.New(cfg.Log))
	if err != nil {
		return err
	}
	defer db.Close()

	switch rest[0] {
	case "up":
		return db.RunMigrations(migrationsPath)
	case "down":
		return db.MigrateDown(migrationsPath)
	case "goto":
		if len(rest) != 2 {
			return fmt.Errorf("migrate goto: expected a version number")
		}
		version, err := strconv.ParseUint(rest[1], 10, 32)
		if err != nil {
			return fmt.Errorf("migrate goto: invalid version %q: %w", rest[1], err)
		}
		return db.MigrateToVersion(migrationsPath, uint(version))
	case "version":
		version, dirty, err := db.MigrationVersion(migrationsPath)
		if err != nil {
			return err
		}
		fmt.Printf("version %d", version)
		if dirty {
			fmt.Print(" (dirty)")
		}
		fmt.Println()
		return nil
	default:
		return fmt.Errorf("migrate: unknown direction %q", rest[0])
	}
}

func runCreateUser(cfg *config.Config, args []string) error {
	var username, password string
	var admin bool

	flagSet := pflag.NewFlagSet("blogctl createuser", pflag.ContinueOnError)
	flagSet.StringVarP(&username, "username", "u", "", "account name (required)")
	flagSet.StringVarP(&password, "password", "p", "", "account password (default: $BLOG_PASSWORD)")
	flagSet.BoolVar(&admin, "admin", false, "grant permission to create, edit and delete content")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if password == "" {
		password = os.Getenv("BLOG_PASSWORD")
	}

	return withAuthService(cfg, func(ctx context.Context, auth service.AuthService) error {
		user, err := auth.CreateUser(ctx, username, password, admin)
		if err != nil {
			return err
		}
		fmt.Printf("created user %s (%s, admin=%t)\n", user.Username, user.ID, user.IsAdmin)
		return nil
	})
}

func runDeleteUser(cfg *config.Config, args []string) error {
	var username string

	flagSet := pflag.NewFlagSet("blogctl deleteuser", pflag.ContinueOnError)
	flagSet.StringVarP(&username, "username", "u", "", "account name (required)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if username == "" {
		return fmt.Errorf("deleteuser: --username is required")
	}

	return withAuthService(cfg, func(ctx context.Context, auth service.AuthService) error {
		if err := auth.DeleteUser(ctx, username); err != nil {
			return fmt.Errorf("deleteuser %s: %w", username, err)
		}
		fmt.Printf("deleted user %s; their articles are kept without an author\n", username)
		return nil
	})
}

// withAuthService opens the database and hands the account service to fn
func withAuthService(cfg *config.Config, fn func(context.Context, service.AuthService) error) error {
	log := logger.New(cfg.Log)

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	services := service.NewServices(repository.New(db), cfg, log)
	return fn(context.Background(), services.Auth)
}

func printHelp() {
	fmt.Fprint(os.Stderr, `blogctl manages the blog API's database and accounts.

Usage:
  blogctl migrate [--path DIR] up|down|goto VERSION|version
  blogctl createuser --username NAME [--password PASS] [--admin]
  blogctl deleteuser --username NAME

Configuration is read from CONFIG_FILE and the same environment
variables as the server (DB_HOST, DB_NAME, ...).

Examples:
  # Apply all pending migrations
  blogctl migrate up

  # Create an administrator, reading the password from the environment
  BLOG_PASSWORD=s3cret blogctl createuser --username admin --admin
`)
}
