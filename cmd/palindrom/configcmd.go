package palindrom

import (
	"fmt"
	"os"
	"strings"

	"github.com/palindrom/palindrom/internal/config"
	"github.com/palindrom/palindrom/internal/oracle"
	"github.com/palindrom/palindrom/internal/scanner"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	cfgOutput          string
	cfgMin             int
	cfgMax             int
	cfgMaximal         bool
	cfgInclude         string
	cfgExclude         string
	cfgThreads         int
	cfgMaxBytes        int64
	cfgPerLine         bool
	cfgNoColor         bool
	cfgDefaultExcludes bool
	cfgModel           string
	cfgForce           bool
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .palindrom.yml with the effective defaults",
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&cfgOutput, "output", ".palindrom.yml", "output file path")
	initCmd.Flags().IntVar(&cfgMin, "min", scanner.DefaultMinLength, "minimum palindrome length in letters")
	initCmd.Flags().IntVar(&cfgMax, "max", scanner.DefaultMaxLength, "maximum palindrome length in letters")
	initCmd.Flags().BoolVar(&cfgMaximal, "maximal", false, "keep only the longest non-overlapping palindromes")
	initCmd.Flags().StringVar(&cfgInclude, "include", "", "comma-separated globs to include")
	initCmd.Flags().StringVar(&cfgExclude, "exclude", "", "comma-separated globs to exclude")
	initCmd.Flags().IntVar(&cfgThreads, "threads", 0, "worker threads (0=GOMAXPROCS)")
	initCmd.Flags().Int64Var(&cfgMaxBytes, "max-bytes", 1<<22, "skip files larger than this")
	initCmd.Flags().BoolVar(&cfgPerLine, "per-line", false, "scan each line independently")
	initCmd.Flags().BoolVar(&cfgNoColor, "no-color", false, "disable color output by default")
	initCmd.Flags().BoolVar(&cfgDefaultExcludes, "default-excludes", true, "enable default ignore patterns")
	initCmd.Flags().StringVar(&cfgModel, "model", oracle.DefaultModel, "Gemini model for discover and source")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if err := scanner.Validate(cfgMin, cfgMax); err != nil {
		return err
	}
	if _, err := os.Stat(cfgOutput); err == nil && !cfgForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgOutput)
	}

	fc := config.FileConfig{
		MinLength:       intPtr(cfgMin),
		MaxLength:       intPtr(cfgMax),
		Maximal:         boolPtr(cfgMaximal),
		NoColor:         boolPtr(cfgNoColor),
		Include:         optStrPtr(cfgInclude),
		Exclude:         optStrPtr(cfgExclude),
		MaxBytes:        int64Ptr(cfgMaxBytes),
		Threads:         intPtr(cfgThreads),
		PerLine:         boolPtr(cfgPerLine),
		DefaultExcludes: boolPtr(cfgDefaultExcludes),
		Oracle: &config.OracleConfig{
			Model:     optStrPtr(cfgModel),
			APIKeyEnv: strPtr(oracle.DefaultAPIKeyEnv),
			Timeout:   strPtr(oracle.DefaultTimeout.String()),
		},
	}

	b, err := yaml.Marshal(&fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfgOutput, b, 0644); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Wrote", cfgOutput)
	return nil
}

func strPtr(s string) *string { return &s }
func optStrPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }
