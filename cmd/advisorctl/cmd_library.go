package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"nac-advisor/internal/bootstrap"
	"nac-advisor/internal/library"
	"nac-advisor/internal/shared/config"
	"nac-advisor/internal/shared/storage/db"
)

func newLibraryCmd(cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage the resource library snapshot",
	}
	cmd.AddCommand(newLibraryPushCmd(cfg), newLibrarySummaryCmd(cfg))
	return cmd
}

func newLibraryPushCmd(cfg config.Config) *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "push <snapshot.yaml>",
		Short: "Validate a snapshot file and publish it to the object store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			data, err := readInput(cmd, args[0])
			if err != nil {
				return fmt.Errorf("read snapshot: %w", err)
			}
			snap, err := library.ParseSnapshot(data)
			if err != nil {
				return err
			}
			store, err := bootstrap.BuildStore(ctx, cfg)
			if err != nil {
				return err
			}
			n, err := library.NewFileReader(store, key).Publish(ctx, snap)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "published %s (%d bytes)\n", key, n)
			return writeJSON(cmd, snap.Summarize())
		},
	}
	cmd.Flags().StringVar(&key, "key", cfg.LibraryKey, "object store key")
	return cmd
}

func newLibrarySummaryCmd(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print per-collection counts of the configured library",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			store, err := bootstrap.BuildStore(ctx, cfg)
			if err != nil {
				return err
			}
			sqlDB, err := openLibraryDB(ctx, cfg)
			if err != nil {
				return err
			}
			if sqlDB != nil {
				defer sqlDB.Close()
			}
			reader, err := bootstrap.BuildLibrary(cfg, sqlDB, store)
			if err != nil {
				return err
			}
			snap, err := library.Load(ctx, reader)
			if err != nil {
				return err
			}
			return writeJSON(cmd, snap.Summarize())
		},
	}
}

// openLibraryDB connects only when the library is served from Postgres.
func openLibraryDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if cfg.LibrarySource != "postgres" {
		return nil, nil
	}
	return db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
}
