package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wheninja/wheninja/internal/catalog"
)

var encodeCatalogCmd = &cobra.Command{
	Use:   "encode-catalog <dataset.json>",
	Short: "Validate a JSON quiz dataset and write its base64 form",
	Long: "Validate a JSON quiz dataset against the dataset schema and write the base64 encoding\n" +
		"that --catalog and WHENINJA_CATALOG accept. Use - to read from stdin.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var in io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open dataset: %w", err)
			}
			defer f.Close()
			in = f
		}

		var out io.Writer = cmd.OutOrStdout()
		outPath, _ := cmd.Flags().GetString("output")
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer func() {
				if cerr := f.Close(); err == nil && cerr != nil {
					err = fmt.Errorf("close output: %w", cerr)
				}
			}()
			out = f
		}

		ds, err := catalog.Encode(out, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "encoded %d questions and %d chat lines\n", len(ds.Questions), len(ds.Chats))
		return nil
	},
}

func init() {
	encodeCatalogCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
}
