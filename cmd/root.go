package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wheninja",
	Short: "Japanese etiquette quiz for the terminal",
	Long: "WHENINJA is a terminal quiz about everyday etiquette in Japan. Answer questions in six\n" +
		"categories, earn points and levels, and collect souvenirs and snacks along the way.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides WHENINJA_DB)")
	rootCmd.PersistentFlags().String("catalog", "", "Path to a base64 quiz dataset (overrides WHENINJA_CATALOG)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Optional .env file to load")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Also write logs to stderr")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(encodeCatalogCmd)
	rootCmd.AddCommand(versionCmd)
}
