package palindrom

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/palindrom/palindrom/internal/oracle"
	"github.com/palindrom/palindrom/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	cmd := &cobra.Command{
		Use:   "tui [text...]",
		Short: "Explore palindromes interactively",
		RunE:  runTUI,
	}
	cmd.Flags().IntVar(&flagMin, "min", 0, "minimum palindrome length in letters (default 3)")
	cmd.Flags().IntVar(&flagMax, "max", 0, "maximum palindrome length in letters (default 50)")
	cmd.Flags().BoolVar(&flagMaximal, "maximal", false, "start in maximal-only view")
	rootCmd.AddCommand(cmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	gcfg, lcfg := loadConfigs(workingDir())
	minLen, maxLen := lengthBounds(flagMin, flagMax, lcfg, gcfg)
	opts := tui.Options{
		MinLength: minLen,
		MaxLength: maxLen,
		Maximal:   pickBool(flagMaximal, lcfg.Maximal, gcfg.Maximal),
		Copy:      clipboard.WriteAll,
	}
	client, timeout, err := newOracle(cmd.Context(), lcfg, gcfg)
	switch {
	case err == nil:
		opts.Oracle = client
		opts.Timeout = timeout
	case errors.Is(err, oracle.ErrMissingAPIKey):
		logger.Info("oracle disabled", zap.Error(err))
	default:
		return err
	}
	return tui.Run(opts, strings.Join(args, " "))
}
