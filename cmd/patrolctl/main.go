package main

import (
	"context"
	"fmt"
	"os"

	"patrol-verifier/internal/core/config"
	"patrol-verifier/internal/core/database"
	"patrol-verifier/internal/core/logger"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "patrolctl",
		Short:        "Operate the patrol verifier from the command line",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing the .env file")

	root.AddCommand(
		newMigrateCmd(&configPath),
		newSubmitCmd(&configPath),
		newGenerateTrackCmd(&configPath),
	)
	return root
}

// env is the runtime shared by commands that talk to the database.
type env struct {
	cfg *config.AppConfig
	db  *sqlx.DB
	log *zap.Logger
}

func (e *env) Close() {
	_ = e.db.Close()
	logger.Sync()
}

func openEnv(ctx context.Context, configPath string) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, db: db, log: logger.Get()}, nil
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			return database.Migrate(cmd.Context(), e.db)
		},
	}
}
