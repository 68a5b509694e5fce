package palindrom

import (
	"fmt"
	"path/filepath"

	"github.com/palindrom/palindrom/internal/engine"
	"github.com/palindrom/palindrom/internal/ignore"
	"github.com/spf13/cobra"
)

var flagIgnoreRoot string

func init() {
	cmd := &cobra.Command{
		Use:   "ignore <pattern...>",
		Short: "Add patterns to the corpus " + engine.IgnoreFile,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(flagIgnoreRoot, engine.IgnoreFile)
			for _, p := range args {
				added, err := ignore.Append(path, p)
				if err != nil {
					return err
				}
				if added {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", p, path)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&flagIgnoreRoot, "path", "p", ".", "corpus root holding the ignore file")
	rootCmd.AddCommand(cmd)
}
