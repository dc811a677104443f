// Command fintrack-migrate applies or rolls back schema migrations.
//
//	fintrack-migrate up
//	fintrack-migrate down [steps]
//	fintrack-migrate version
package main

import (
	"fmt"
	"os"
	"strconv"

	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	cfg := config.Load()
	logger := cli.SetupLogger(cfg, log.ComponentStorage, os.Stderr)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: fintrack-migrate up | down [steps] | version")
		os.Exit(2)
	}

	if err := run(os.Args[1], os.Args[2:], cfg.DatabaseURL, logger); err != nil {
		cli.Fatal(logger, "Migration failed", err, log.ErrorTypeDatabase)
	}
}

func run(cmd string, args []string, databaseURL string, logger *log.Logger) error {
	switch cmd {
	case "up":
		if err := storage.MigrateUp(databaseURL); err != nil {
			return err
		}
		logger.Info("Migrations applied")
	case "down":
		steps := 1
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			steps = n
		}
		if err := storage.MigrateDown(databaseURL, steps); err != nil {
			return err
		}
		logger.Info("Migrations rolled back", "steps", steps)
	case "version":
		version, dirty, err := storage.MigrationVersion(databaseURL)
		if err != nil {
			return err
		}
		fmt.Printf("version %d dirty=%t\n", version, dirty)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}
