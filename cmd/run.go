package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wheninja/wheninja/internal/app"
	"github.com/wheninja/wheninja/internal/session"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the quiz (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp opens the store, builds the controller, and launches the TUI.
func runApp(cmd *cobra.Command) (err error) {
	ctx := cmd.Context()
	rt, err := setup(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rt.Close(); err == nil {
			err = cerr
		}
	}()

	cat, err := rt.catalog(cmd)
	if err != nil {
		rt.logger.Error("content load failed", zap.Error(err))
		return err
	}

	events := rt.db.EventRepo()
	ctrl := session.New(ctx, session.Options{
		Store:      rt.progress,
		Catalog:    cat,
		Events:     events,
		Logger:     rt.logger,
		ChatChance: rt.cfg.ChatChanceOption(),
	})

	exportDir, err := os.Getwd()
	if err != nil {
		exportDir = os.TempDir()
	}

	summary, err := app.Run(ctx, app.Options{
		Controller: ctrl,
		Events:     events,
		ExportDir:  exportDir,
		Logger:     rt.logger,
	})
	if err != nil {
		return err
	}
	if summary.Answered > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Answered %d (%d correct), +%d points, %d rewards. またね!\n",
			summary.Answered, summary.Correct, summary.Points, len(summary.Awards))
	}
	return nil
}
