package palindrom

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/palindrom/palindrom/internal/config"
	"github.com/palindrom/palindrom/internal/oracle"
	"github.com/palindrom/palindrom/internal/scanner"
	"github.com/palindrom/palindrom/internal/types"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with no global config.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return dir
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func decodePalindromes(t *testing.T, out string) []types.Palindrome {
	t.Helper()
	var ps []types.Palindrome
	require.NoError(t, json.Unmarshal([]byte(out), &ps), out)
	return ps
}

func TestScan_ArgsJSON(t *testing.T) {
	isolate(t)
	out, err := execute(t, "", "scan", "--json", "--min", "3", "--max", "3", "הבא נא אבא")
	require.NoError(t, err)

	ps := decodePalindromes(t, out)
	require.Len(t, ps, 2)
	assert.Equal(t, "אנא", ps[0].Normalized)
	assert.Equal(t, "א נא", ps[0].Original)
	assert.Equal(t, "אבא", ps[1].Normalized)
	assert.Equal(t, "אבא", ps[1].Original)
}

func TestScan_StdinText(t *testing.T) {
	isolate(t)
	out, err := execute(t, "מלך-כלם\n", "scan", "--text", "--min", "4", "--max", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Palindromes: 2")
	assert.Contains(t, out, "מלככלמ")
	assert.Contains(t, out, "לך-כל")
}

func TestScan_File(t *testing.T) {
	dir := isolate(t)
	p := filepath.Join(dir, "verse.txt")
	require.NoError(t, os.WriteFile(p, []byte("אבא"), 0o644))

	out, err := execute(t, "", "scan", "--json", "--file", p)
	require.NoError(t, err)
	ps := decodePalindromes(t, out)
	require.Len(t, ps, 1)
	assert.Equal(t, 0, ps[0].Start)
	assert.Equal(t, len("אבא"), ps[0].End)
}

func TestScan_Maximal(t *testing.T) {
	isolate(t)
	out, err := execute(t, "", "scan", "--json", "--maximal", "--max", "7", "מלך-כלם")
	require.NoError(t, err)
	ps := decodePalindromes(t, out)
	require.Len(t, ps, 1)
	assert.Equal(t, "מלככלמ", ps[0].Normalized)
}

func TestScan_NoResultsTable(t *testing.T) {
	isolate(t)
	out, err := execute(t, "", "scan", "hello world")
	require.NoError(t, err)
	assert.Contains(t, out, "No palindromes found")

	out, err = execute(t, "", "scan", "--json", "hello world")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestScan_InvalidBounds(t *testing.T) {
	isolate(t)
	_, err := execute(t, "", "scan", "--min", "5", "--max", "3", "אבא")
	require.Error(t, err)
	assert.ErrorIs(t, err, scanner.ErrInvalidArgument)

	_, err = execute(t, "", "scan", "--min=-1", "אבא")
	assert.ErrorIs(t, err, scanner.ErrInvalidArgument)
}

func TestScan_LocalConfigPrecedence(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".palindrom.yml"), []byte("min_length: 4\nmax_length: 4\n"), 0o644))

	out, err := execute(t, "", "scan", "--json", "מלך-כלם")
	require.NoError(t, err)
	ps := decodePalindromes(t, out)
	require.Len(t, ps, 1)
	assert.Equal(t, "לככל", ps[0].Normalized)

	// CLI wins over the local file.
	out, err = execute(t, "", "scan", "--json", "--max", "6", "מלך-כלם")
	require.NoError(t, err)
	ps = decodePalindromes(t, out)
	require.Len(t, ps, 2)
	assert.Equal(t, "מלככלמ", ps[0].Normalized)
}

func TestCorpus_JSON(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("שלום\nאבא\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b", "c.txt"), []byte("מלך-כלם"), 0o644))

	out, err := execute(t, "", "corpus", "--json", "--per-line", "--min", "6", "-p", root)
	require.NoError(t, err)

	var ms []types.Match
	require.NoError(t, json.Unmarshal([]byte(out), &ms), out)
	require.Len(t, ms, 1)
	assert.Equal(t, "b/c.txt", ms[0].Path)
	assert.Equal(t, 1, ms[0].Line)
	assert.Len(t, ms[0].ID, 16)

	out, err = execute(t, "", "corpus", "--text", "--per-line", "-p", root)
	require.NoError(t, err)
	assert.Contains(t, out, "a.txt:2")
	assert.Contains(t, out, "Files scanned: 2")
}

func TestCorpus_MaxBytesFromConfig(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "big.txt"), []byte(strings.Repeat("אבא ", 100)), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "small.txt"), []byte("אמא"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".palindrom.yml"), []byte("max_bytes: 10\n"), 0o644))

	paths := func(out string) []string {
		var ms []types.Match
		require.NoError(t, json.Unmarshal([]byte(out), &ms), out)
		var ps []string
		for _, m := range ms {
			ps = append(ps, m.Path)
		}
		return ps
	}

	out, err := execute(t, "", "corpus", "--json", "-p", root)
	require.NoError(t, err)
	assert.Equal(t, []string{"small.txt"}, paths(out))

	// an explicit flag still wins over the file
	out, err = execute(t, "", "corpus", "--json", "--max-bytes", "4096", "-p", root)
	require.NoError(t, err)
	assert.Contains(t, paths(out), "big.txt")

	// the global file applies when no local one sets the key
	require.NoError(t, os.Remove(filepath.Join(root, ".palindrom.yml")))
	global := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "palindrom")
	require.NoError(t, os.MkdirAll(global, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(global, "config.yml"), []byte("max_bytes: 10\n"), 0o644))
	out, err = execute(t, "", "corpus", "--json", "-p", root)
	require.NoError(t, err)
	assert.Equal(t, []string{"small.txt"}, paths(out))
}

func TestConfigInit(t *testing.T) {
	dir := isolate(t)
	out, err := execute(t, "", "config", "init", "--min", "5", "--per-line")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote .palindrom.yml")

	fc, err := config.LoadFile(filepath.Join(dir, ".palindrom.yml"))
	require.NoError(t, err)
	require.NotNil(t, fc.MinLength)
	assert.Equal(t, 5, *fc.MinLength)
	require.NotNil(t, fc.PerLine)
	assert.True(t, *fc.PerLine)
	assert.Equal(t, oracle.DefaultModel, fc.GetOracleConfig().GetModel())

	_, err = execute(t, "", "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "", "config", "init", "--force", "--min", "4", "--max", "2")
	assert.ErrorIs(t, err, scanner.ErrInvalidArgument)
}

type fakeGenerator struct {
	reply  string
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, nil
}

func useGenerator(t *testing.T, gen oracle.Generator) {
	t.Helper()
	prev := newGenerator
	newGenerator = func(context.Context, oracle.Options) (oracle.Generator, error) { return gen, nil }
	t.Cleanup(func() { newGenerator = prev })
}

func TestSource(t *testing.T) {
	isolate(t)
	useGenerator(t, &fakeGenerator{reply: "```json\n{\"found\":true,\"book\":\"בראשית\",\"chapter\":\"1\",\"verse\":\"1\"}\n```"})

	out, err := execute(t, "", "source", "אבא")
	require.NoError(t, err)
	assert.Equal(t, "בראשית 1:1\n", out)

	useGenerator(t, &fakeGenerator{reply: `{"found":false}`})
	out, err = execute(t, "", "source", "אבא")
	require.NoError(t, err)
	assert.Equal(t, "Source not found\n", out)
}

func TestDiscover(t *testing.T) {
	isolate(t)
	gen := &fakeGenerator{reply: `{"palindromes":[{"text":"אבא","book":"בראשית","chapter":"2","verse":"3"}]}`}
	useGenerator(t, gen)

	out, err := execute(t, "", "discover", "--json")
	require.NoError(t, err)
	var ds []types.Discovery
	require.NoError(t, json.Unmarshal([]byte(out), &ds))
	require.Len(t, ds, 1)
	assert.Equal(t, "אבא", ds[0].Text)

	useGenerator(t, &fakeGenerator{reply: "not json"})
	_, err = execute(t, "", "discover")
	assert.ErrorIs(t, err, oracle.ErrMalformedResponse)
	assert.Equal(t, 1, strings.Count(err.Error(), "discover:"), err.Error())

	useGenerator(t, &fakeGenerator{reply: "{"})
	_, err = execute(t, "", "source", "אבא")
	assert.ErrorIs(t, err, oracle.ErrMalformedResponse)
	assert.Equal(t, 1, strings.Count(err.Error(), "identify source:"), err.Error())
}

func TestOracle_MissingKey(t *testing.T) {
	isolate(t)
	t.Setenv("PALINDROM_TEST_KEY", "")
	_, err := execute(t, "", "source", "--api-key-env", "PALINDROM_TEST_KEY", "אבא")
	assert.ErrorIs(t, err, oracle.ErrMissingAPIKey)
}

func TestOracleOptions_Timeout(t *testing.T) {
	resetFlags(rootCmd)
	bad := "soon"
	_, err := oracleOptions(config.FileConfig{Oracle: &config.OracleConfig{Timeout: &bad}}, config.FileConfig{})
	require.Error(t, err)

	good := "5s"
	opts, err := oracleOptions(config.FileConfig{}, config.FileConfig{Oracle: &config.OracleConfig{Timeout: &good}})
	require.NoError(t, err)
	assert.Equal(t, "5s", opts.Timeout.String())
}

func TestCompletion(t *testing.T) {
	isolate(t)
	out, err := execute(t, "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "palindrom")

	_, err = execute(t, "", "completion", "tcsh")
	require.Error(t, err)
}

func TestPickHelpers(t *testing.T) {
	local, global := 4, 9
	assert.Equal(t, 7, pickInt(7, &local, &global))
	assert.Equal(t, 4, pickInt(0, &local, &global))
	assert.Equal(t, 9, pickInt(0, nil, &global))
	assert.Equal(t, 0, pickInt(0, nil, nil))

	f, tr := false, true
	assert.False(t, pickBool(false, &f, &tr))
	assert.True(t, pickBool(false, nil, &tr))
	assert.True(t, pickBool(true, &f, nil))

	s := "x"
	assert.Equal(t, "x", pickString("", nil, &s))
	assert.Equal(t, "y", pickString("y", &s, &s))
}

func TestIgnoreCommand_HonoredByCorpus(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "drafts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "keep.txt"), []byte("אבא"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "drafts", "x.txt"), []byte("אמא"), 0o644))

	out, err := execute(t, "", "ignore", "-p", root, "drafts/", "drafts/")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "Added"))

	out, err = execute(t, "", "corpus", "--json", "-p", root)
	require.NoError(t, err)
	var ms []types.Match
	require.NoError(t, json.Unmarshal([]byte(out), &ms), out)
	require.Len(t, ms, 1)
	assert.Equal(t, "keep.txt", ms[0].Path)
}
