package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/go-startup-advisor/internal/config"
	"github.com/tbourn/go-startup-advisor/internal/repo"
	"github.com/tbourn/go-startup-advisor/internal/sysutil"
)

// cli carries state shared by the subcommands after the persistent pre-run.
type cli struct {
	envFile string
	cfg     config.Config

	// openDB is swapped in tests.
	openDB func(path string) (*gorm.DB, error)
}

func newRootCmd() *cobra.Command {
	c := &cli{openDB: openMigrated}

	root := &cobra.Command{
		Use:   "advisor",
		Short: "Brutally honest advice for product startups",
		Long: `advisor walks a founder through seven intake questions about their
product and then answers questions as one of three expert profiles
(Idea Validator, Pricing Strategist, Marketing Strategist).

Quick Start:
  advisor serve          # HTTP API on $PORT
  advisor chat           # talk to the advisor in this terminal
  advisor stats          # feedback entries and messages sent`,
		Version:       sysutil.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.load()
		},
	}
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(
		c.serveCmd(),
		c.chatCmd(),
		c.statsCmd(),
		c.usersCmd(),
	)
	return root
}

// load reads the dotenv file (if present), the configuration and sets up
// logging.
func (c *cli) load() error {
	if c.envFile != "" {
		if err := godotenv.Load(c.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", c.envFile, err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c.cfg = cfg
	sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty, nil)
	return nil
}

// openMigrated opens the session database and brings its schema up to date.
func openMigrated(path string) (*gorm.DB, error) {
	db, err := repo.OpenSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}
