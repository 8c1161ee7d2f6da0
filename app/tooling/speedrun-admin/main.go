// This program performs administrative tasks for the speedrun service.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/conf/v3"
	"github.com/joho/godotenv"
	"github.com/speedrunethereum/speedrun/app/tooling/speedrun-admin/commands"
	"github.com/speedrunethereum/speedrun/business/sys/database"
	"github.com/speedrunethereum/speedrun/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("SPEEDRUN-ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		if !errors.Is(err, commands.ErrHelp) {
			log.Errorw("admin", "ERROR", err)
		}
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg := struct {
		conf.Version
		Args conf.Args
		DB   struct {
			Driver string `conf:"default:sqlite"`
			DSN    string `conf:"default:file:speedrun.db?_foreign_keys=on,mask"`
			Debug  bool   `conf:"default:false"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "Speedrun Ethereum administration",
		},
	}

	const prefix = "SPEEDRUN"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	dbConfig := database.Config{
		Driver: cfg.DB.Driver,
		DSN:    cfg.DB.DSN,
		Debug:  cfg.DB.Debug,
	}

	return processCommands(cfg.Args, log, dbConfig)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args conf.Args, log *zap.SugaredLogger, dbConfig database.Config) error {
	switch args.Num(0) {
	case "migrate":
		if err := commands.Migrate(log, dbConfig); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}

	case "seed":
		if err := commands.Seed(log, dbConfig, args.Num(1)); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}

	case "promote":
		if err := commands.Promote(log, dbConfig, args.Num(1)); err != nil {
			return fmt.Errorf("promoting user: %w", err)
		}

	default:
		fmt.Println("migrate:  create the schema in the database")
		fmt.Println("seed:     add the first batch and an admin: seed <address>")
		fmt.Println("promote:  give a user the admin role: promote <address>")
		fmt.Println("provide a command to get more help.")
		return commands.ErrHelp
	}

	return nil
}
