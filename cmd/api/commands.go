package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leadflow/crm-directory/internal/usecase"
)

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Replace the stored snapshot with the default seed data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withOfflineDirectory(cmd.Context(), func(ctx context.Context, dir *usecase.Directory) error {
				if err := dir.Reset(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "directory reset to seed data")
				return nil
			})
		},
	}
}

func autoAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auto-assign",
		Short: "Distribute every unassigned lead round robin across active employees",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withOfflineDirectory(cmd.Context(), func(ctx context.Context, dir *usecase.Directory) error {
				res, err := dir.AutoAssignLeads(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "assigned %d lead(s)\n", res.AssignedCount)
				return nil
			})
		},
	}
}

// withOfflineDirectory opens the configured store with latency disabled
// and no event publishers.
func withOfflineDirectory(ctx context.Context, fn func(context.Context, *usecase.Directory) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StorageBackend, err)
	}
	defer closeStore() //nolint:errcheck

	cfg.LatencyEnabled = false
	dir := newDirectory(cfg, store, logger, nil)
	if err := dir.Open(ctx); err != nil {
		logger.Error("open directory", zap.Error(err))
		return err
	}
	return fn(ctx, dir)
}
