package palindrom

import (
	"fmt"

	"github.com/palindrom/palindrom/internal/report"
	"github.com/palindrom/palindrom/internal/scanner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagMin     int
	flagMax     int
	flagMaximal bool
	flagFile    string
	flagTable   bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan [text...]",
		Short: "Find palindromes in a piece of Hebrew text",
		Long:  "Scan text given as arguments, read from --file, or piped on stdin. Results are listed longest first, then by position.",
		RunE:  runScan,
		Example: `
# Inline text
palindrom scan "הבא נא אבא"

# A file, longest non-overlapping hits only
palindrom scan --file bereshit.txt --maximal

# Piped input as JSON
cat verse.txt | palindrom scan --json --min 5`,
	}
	rootCmd.AddCommand(cmd)
	cmd.Flags().IntVar(&flagMin, "min", 0, "minimum palindrome length in letters (default 3)")
	cmd.Flags().IntVar(&flagMax, "max", 0, "maximum palindrome length in letters (default 50)")
	cmd.Flags().BoolVar(&flagMaximal, "maximal", false, "keep only the longest non-overlapping palindromes")
	cmd.Flags().StringVarP(&flagFile, "file", "f", "", "read text from a file")
	cmd.Flags().BoolVar(&flagTable, "table", true, "render results as a table (default output)")
}

func runScan(cmd *cobra.Command, args []string) error {
	gcfg, lcfg := loadConfigs(workingDir())

	text, err := readText(cmd, args, flagFile)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	minLen, maxLen := lengthBounds(flagMin, flagMax, lcfg, gcfg)
	results, err := scanner.Scan(text, minLen, maxLen)
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}
	if pickBool(flagMaximal, lcfg.Maximal, gcfg.Maximal) {
		results = scanner.Maximal(results)
	}
	logger.Debug("scan finished",
		zap.Int("letters_min", minLen),
		zap.Int("letters_max", maxLen),
		zap.Int("results", len(results)))

	out := cmd.OutOrStdout()
	opts := report.PrintOptions{NoColor: colorDisabled(cmd, lcfg, gcfg)}
	switch {
	case flagJSON:
		return report.WriteJSON(out, results)
	case flagText || !flagTable:
		report.PrintText(out, results, opts)
	default:
		report.PrintTable(out, results, opts)
	}
	return nil
}
