package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all saved progress",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		yes, _ := cmd.Flags().GetBool("yes")
		all, _ := cmd.Flags().GetBool("all")
		if !yes && !confirm(cmd, "Delete all WHENINJA progress? This cannot be undone. [y/N] ") {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}

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

		if err := rt.progress.Reset(ctx); err != nil {
			return fmt.Errorf("reset progress: %w", err)
		}
		msg := "Progress deleted."
		if all {
			n, err := rt.db.ClearEvents(ctx)
			if err != nil {
				return err
			}
			msg = fmt.Sprintf("Progress and %d history records deleted.", n)
		}
		rt.logger.Info("reset from cli", zap.Bool("all", all))
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	resetCmd.Flags().Bool("all", false, "Also delete the answer and reward history")
}
