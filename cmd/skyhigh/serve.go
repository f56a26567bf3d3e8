package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/five82/skyhigh/internal/config"
	"github.com/five82/skyhigh/internal/logger"
	"github.com/five82/skyhigh/internal/server"
	"github.com/five82/skyhigh/internal/storage"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo backend",
		Long: `Run the HTTP backend the client talks to. Files and messages go to
MongoDB when server.mongo_uri or SKYHIGH_MONGO_URI is set, and are kept in
memory otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.Options{Path: flags.configPath, EnvFile: flags.envFile})
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if bind != "" {
				cfg.Server.Bind = bind
			}

			log, closeLog, err := logger.New(logger.Options{Debug: flags.debug, Writer: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			ctx := cmd.Context()
			store, err := openStore(ctx, cfg.Server, log)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close(context.Background()) }()

			srv := server.New(store, log, server.Options{MaxUploadBytes: cfg.Server.MaxUploadBytes()})
			return srv.Run(ctx, cfg.Server.Bind)
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "listen address (default :8001)")
	return cmd
}

func openStore(ctx context.Context, cfg config.Server, log *slog.Logger) (storage.Store, error) {
	if cfg.MongoURI == "" {
		log.Info("using in-memory storage")
		return storage.NewMemory(), nil
	}
	store, err := storage.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}
	log.Info("using mongodb storage", "database", cfg.MongoDatabase)
	return store, nil
}
