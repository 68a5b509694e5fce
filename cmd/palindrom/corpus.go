package palindrom

import (
	"fmt"
	"path/filepath"

	"github.com/palindrom/palindrom/internal/engine"
	"github.com/palindrom/palindrom/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagPath            string
	flagInclude         string
	flagExclude         string
	flagMaxBytes        int64
	flagThreads         int
	flagPerLine         bool
	flagDefaultExcludes bool
	flagCorpusMin       int
	flagCorpusMax       int
	flagCorpusMaximal   bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Scan every text file under a directory",
		RunE:  runCorpus,
		Example: `
# Whole tree, one verse per line
palindrom corpus -p ./tanakh --per-line --min 7

# Only the Torah books
palindrom corpus -p ./tanakh --include "torah/**/*.txt"`,
	}
	rootCmd.AddCommand(cmd)
	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "directory to scan")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated globs to include (e.g. **/*.txt)")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated globs to exclude (e.g. drafts/**)")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 1<<22, "skip files larger than this")
	cmd.Flags().IntVar(&flagThreads, "threads", 0, "worker threads (0=GOMAXPROCS)")
	cmd.Flags().BoolVar(&flagPerLine, "per-line", false, "scan each line independently")
	cmd.Flags().BoolVar(&flagDefaultExcludes, "default-excludes", true, "skip VCS, dependency and binary paths")
	cmd.Flags().IntVar(&flagCorpusMin, "min", 0, "minimum palindrome length in letters (default 3)")
	cmd.Flags().IntVar(&flagCorpusMax, "max", 0, "maximum palindrome length in letters (default 50)")
	cmd.Flags().BoolVar(&flagCorpusMaximal, "maximal", false, "keep only the longest non-overlapping palindromes per text")
}

func runCorpus(cmd *cobra.Command, _ []string) error {
	abs, err := filepath.Abs(flagPath)
	if err != nil {
		return err
	}
	gcfg, lcfg := loadConfigs(abs)
	minLen, maxLen := lengthBounds(flagCorpusMin, flagCorpusMax, lcfg, gcfg)

	cfg := engine.Config{
		Root:         abs,
		IncludeGlobs: pickString(flagInclude, lcfg.Include, gcfg.Include),
		ExcludeGlobs: pickString(flagExclude, lcfg.Exclude, gcfg.Exclude),
		MaxBytes:     flagMaxBytes,
		Threads:      pickInt(flagThreads, lcfg.Threads, gcfg.Threads),
		MinLength:    minLen,
		MaxLength:    maxLen,
		PerLine:      pickBool(flagPerLine, lcfg.PerLine, gcfg.PerLine),
		Maximal:      pickBool(flagCorpusMaximal, lcfg.Maximal, gcfg.Maximal),
		Logger:       logger,
	}
	if !cmd.Flags().Changed("max-bytes") {
		if lcfg.MaxBytes != nil {
			cfg.MaxBytes = *lcfg.MaxBytes
		} else if gcfg.MaxBytes != nil {
			cfg.MaxBytes = *gcfg.MaxBytes
		}
	}
	cfg.DefaultExcludes = flagDefaultExcludes
	if !cmd.Flags().Changed("default-excludes") {
		if lcfg.DefaultExcludes != nil {
			cfg.DefaultExcludes = *lcfg.DefaultExcludes
		} else if gcfg.DefaultExcludes != nil {
			cfg.DefaultExcludes = *gcfg.DefaultExcludes
		}
	}

	stderr := cmd.ErrOrStderr()
	total, _ := engine.CountTargets(cfg)
	progressed := 0
	if total > 0 && !flagJSON {
		_, _ = fmt.Fprintf(stderr, "Scanning %s (%d files)...\n", abs, total)
		cfg.Progress = func() {
			progressed++
			if progressed%10 == 0 || progressed == total {
				pct := float64(progressed) / float64(total) * 100
				_, _ = fmt.Fprintf(stderr, "\r[%d/%d] %.0f%%", progressed, total, pct)
			}
		}
	}
	res, err := engine.ScanWithStats(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}
	if total > 0 && !flagJSON {
		_, _ = fmt.Fprintln(stderr)
	}
	logger.Info("corpus scan finished",
		zap.String("root", abs),
		zap.Int("files", res.FilesScanned),
		zap.Int("matches", len(res.Matches)),
		zap.Duration("duration", res.Duration))

	out := cmd.OutOrStdout()
	if flagJSON {
		return report.WriteJSON(out, res.Matches)
	}
	opts := report.PrintOptions{
		NoColor:      colorDisabled(cmd, lcfg, gcfg),
		Duration:     res.Duration,
		FilesScanned: res.FilesScanned,
		TotalFiles:   total,
	}
	if flagText {
		report.PrintMatchesText(out, res.Matches, opts)
	} else {
		report.PrintMatchesTable(out, res.Matches, opts)
	}
	return nil
}
