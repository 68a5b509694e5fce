package palindrom

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/palindrom/palindrom/internal/config"
	"github.com/palindrom/palindrom/internal/oracle"
	"github.com/palindrom/palindrom/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagModel     string
	flagAPIKeyEnv string
	flagTimeout   time.Duration
)

// newGenerator is swapped out in tests.
var newGenerator = func(ctx context.Context, opts oracle.Options) (oracle.Generator, error) {
	g, err := oracle.NewGemini(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("oracle ready", zap.String("model", g.Model()), zap.Duration("timeout", opts.Timeout))
	return g, nil
}

func init() {
	discoverCmd := &cobra.Command{
		Use:   "discover [text...]",
		Short: "Ask the AI oracle for notable palindromes in a text or the Tanakh",
		RunE:  runDiscover,
	}
	sourceCmd := &cobra.Command{
		Use:   "source <text...>",
		Short: "Ask the AI oracle which verse a passage comes from",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSource,
	}
	for _, c := range []*cobra.Command{discoverCmd, sourceCmd} {
		c.Flags().StringVar(&flagModel, "model", "", "Gemini model (default "+oracle.DefaultModel+")")
		c.Flags().StringVar(&flagAPIKeyEnv, "api-key-env", "", "environment variable holding the API key (default "+oracle.DefaultAPIKeyEnv+")")
		c.Flags().DurationVar(&flagTimeout, "timeout", 0, "oracle request timeout (default 60s)")
		rootCmd.AddCommand(c)
	}
}

// oracleOptions resolves oracle settings from flags and config files.
func oracleOptions(lcfg, gcfg config.FileConfig) (oracle.Options, error) {
	lo, gl := lcfg.GetOracleConfig(), gcfg.GetOracleConfig()
	opts := oracle.Options{
		Model:     pickString(flagModel, lo.Model, gl.Model),
		APIKeyEnv: pickString(flagAPIKeyEnv, lo.APIKeyEnv, gl.APIKeyEnv),
		Timeout:   flagTimeout,
	}
	if opts.Timeout == 0 {
		if s := pickString("", lo.Timeout, gl.Timeout); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return opts, fmt.Errorf("invalid oracle timeout %q: %w", s, err)
			}
			opts.Timeout = d
		}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = oracle.DefaultTimeout
	}
	return opts, nil
}

func newOracle(ctx context.Context, lcfg, gcfg config.FileConfig) (*oracle.Client, time.Duration, error) {
	opts, err := oracleOptions(lcfg, gcfg)
	if err != nil {
		return nil, 0, err
	}
	gen, err := newGenerator(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	return oracle.New(gen, logger), opts.Timeout, nil
}

func runDiscover(cmd *cobra.Command, args []string) error {
	gcfg, lcfg := loadConfigs(workingDir())
	client, timeout, err := newOracle(cmd.Context(), lcfg, gcfg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	text := strings.Join(args, " ")
	ds, err := client.Discover(ctx, text)
	if err != nil {
		return err
	}
	logger.Debug("discover finished", zap.Int("discoveries", len(ds)))
	if flagJSON {
		return report.WriteJSON(cmd.OutOrStdout(), ds)
	}
	report.PrintDiscoveries(cmd.OutOrStdout(), ds, report.PrintOptions{NoColor: colorDisabled(cmd, lcfg, gcfg)})
	return nil
}

func runSource(cmd *cobra.Command, args []string) error {
	gcfg, lcfg := loadConfigs(workingDir())
	client, timeout, err := newOracle(cmd.Context(), lcfg, gcfg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	src, err := client.IdentifySource(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if flagJSON {
		return report.WriteJSON(out, src)
	}
	if !src.Found {
		_, _ = fmt.Fprintln(out, "Source not found")
		return nil
	}
	_, _ = fmt.Fprintln(out, src.String())
	return nil
}
