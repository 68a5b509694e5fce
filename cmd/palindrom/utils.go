package palindrom

import (
	"io"
	"os"
	"strings"

	"github.com/palindrom/palindrom/internal/config"
	"github.com/palindrom/palindrom/internal/scanner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// loadConfigs returns the global config and the local config found in dir.
// Missing files yield zero configs.
func loadConfigs(dir string) (gcfg, lcfg config.FileConfig) {
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if c, err := config.LoadLocal(dir); err == nil {
		lcfg = c
	}
	return gcfg, lcfg
}

// workingDir is where local config files are searched for.
func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// lengthBounds resolves --min/--max against config files and defaults.
func lengthBounds(cliMin, cliMax int, lcfg, gcfg config.FileConfig) (int, int) {
	minLen := pickInt(cliMin, lcfg.MinLength, gcfg.MinLength)
	if minLen == 0 {
		minLen = scanner.DefaultMinLength
	}
	maxLen := pickInt(cliMax, lcfg.MaxLength, gcfg.MaxLength)
	if maxLen == 0 {
		maxLen = scanner.DefaultMaxLength
	}
	return minLen, maxLen
}

// colorDisabled reports whether output to cmd should be plain. Colour is only
// used when writing to a terminal.
func colorDisabled(cmd *cobra.Command, lcfg, gcfg config.FileConfig) bool {
	if pickBool(flagNoColor, lcfg.NoColor, gcfg.NoColor) {
		return true
	}
	if cmd.OutOrStdout() != os.Stdout {
		return true
	}
	return !term.IsTerminal(int(os.Stdout.Fd()))
}

// readText returns the text to scan: the joined args, the --file contents, or
// everything on stdin.
func readText(cmd *cobra.Command, args []string, file string) (string, error) {
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func pickString(cli string, local, global *string) string {
	if cli != "" {
		return cli
	}
	if local != nil && *local != "" {
		return *local
	}
	if global != nil && *global != "" {
		return *global
	}
	return ""
}

func pickInt(cli int, local, global *int) int {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickBool(cli bool, local, global *bool) bool {
	if cli {
		return true
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return false
}
