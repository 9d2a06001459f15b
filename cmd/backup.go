package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wheninja/wheninja/internal/progress"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write a backup of your progress",
	Long:  "Write a backup file. Without an argument the file is named wheninjapan-backup-YYYY-MM-DD.json\nin the current directory. Use - for stdout.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
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

		now := time.Now()
		loaded := rt.progress.Load(ctx)
		path := progress.BackupFileName(now)
		if len(args) == 1 {
			path = args[0]
		}

		if path == "-" {
			return progress.WriteBackup(cmd.OutOrStdout(), loaded.Progress, now)
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create backup: %w", err)
		}
		if err := progress.WriteBackup(f, loaded.Progress, now); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close backup: %w", err)
		}
		rt.logger.Info("backup exported", zap.String("path", path))
		fmt.Fprintln(cmd.OutOrStdout(), "Exported to", path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore progress from a backup file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
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

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open backup: %w", err)
		}
		defer f.Close()

		p, err := rt.progress.Restore(ctx, f)
		if errors.Is(err, progress.ErrInvalidBackup) {
			rt.logger.Warn("backup rejected", zap.String("path", args[0]), zap.Error(err))
			return fmt.Errorf("%s was not restored: %w", args[0], err)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restored level %d with %d points.\n", p.CurrentLevel, p.TotalPoints)
		return nil
	},
}
