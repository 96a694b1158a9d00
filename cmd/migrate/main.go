// Command migrate applies or rolls back the embedded database schema.
//
//	migrate up       apply all pending migrations
//	migrate down     roll back the latest migration
//	migrate version  print the current schema version
//	migrate force N  mark version N as applied and clear the dirty flag
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	gomigrate "github.com/golang-migrate/migrate/v4"

	"github.com/sundayezeilo/linkly/internal/app"
	"github.com/sundayezeilo/linkly/internal/config"
	"github.com/sundayezeilo/linkly/internal/db/migrations"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: migrate up|down|version|force N")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return errors.New("expected a command")
	}

	app.LoadEnv()

	dbCfg, err := config.LoadDatabase()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := app.NewLogger(os.Getenv("LOG_LEVEL"))

	m, err := migrations.New(dbCfg.URL(), logger)
	if err != nil {
		return err
	}
	defer m.Close()

	switch cmd := fs.Arg(0); cmd {
	case "force":
		if fs.NArg() != 2 {
			return errors.New("force needs a version, e.g. migrate force 2")
		}
		version, err := strconv.Atoi(fs.Arg(1))
		if err != nil || version < -1 {
			return fmt.Errorf("invalid version %q", fs.Arg(1))
		}
		return m.Force(version)
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, gomigrate.ErrNilVersion) {
			fmt.Println("no migrations applied")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("version %d (dirty=%t)\n", version, dirty)
		return nil
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}
