package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/imagegallery/gallery/internal/infrastructure/config"
	mongostore "github.com/imagegallery/gallery/internal/infrastructure/db/mongo"
	"github.com/imagegallery/gallery/pkg/logger"
)

func newIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB indexes and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment(), Service: "gallery"})

			client, db, err := mongostore.Connect(cmd.Context(), mongostore.Config{
				URI:      cfg.Mongo.ConnectionURI(),
				Database: cfg.Mongo.Database,
				Timeout:  cfg.Mongo.Timeout,
			})
			if err != nil {
				return err
			}
			defer func() { _ = client.Disconnect(context.Background()) }()

			if err := newRepositories(db, cfg.Mongo).ensureIndexes(cmd.Context()); err != nil {
				return err
			}
			log.Info().Str("database", cfg.Mongo.Database).Msg("indexes created")
			return nil
		},
	}
}
