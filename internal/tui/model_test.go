package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/palindrom/palindrom/internal/oracle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	reply string
	err   error
}

func (s stubGenerator) Generate(context.Context, string) (string, error) {
	return s.reply, s.err
}

func key(s string) tea.KeyMsg {
	switch s {
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func scanned(t *testing.T, text string, opts Options) Model {
	t.Helper()
	m := NewModel(opts)
	m.input.SetValue(text)
	m, _ = send(t, m, key("ctrl+s"))
	return m
}

func TestNewModel_Defaults(t *testing.T) {
	m := NewModel(Options{})
	assert.Equal(t, 3, m.opts.MinLength)
	assert.Equal(t, 50, m.opts.MaxLength)
	assert.Equal(t, focusInput, m.focus)
	assert.Contains(t, m.View(), "Hebrew palindrome explorer")
}

func TestScanKey(t *testing.T) {
	m := scanned(t, "הבא נא אבא", Options{})
	require.Len(t, m.results, 2)
	assert.Equal(t, focusTable, m.focus)
	assert.Contains(t, m.status, "2 palindromes")
	view := m.View()
	assert.Contains(t, view, "א נא")
}

func TestScanKey_EmptyInput(t *testing.T) {
	m := NewModel(Options{})
	m, _ = send(t, m, key("ctrl+s"))
	assert.False(t, m.scanned)
	assert.Equal(t, "Nothing to scan", m.status)
}

func TestScanKey_NoResults(t *testing.T) {
	m := scanned(t, "hello world", Options{})
	assert.True(t, m.scanned)
	assert.Equal(t, focusInput, m.focus)
	assert.Contains(t, m.View(), "No palindromes found")
}

func TestMaximalToggle(t *testing.T) {
	m := scanned(t, "אבאבא", Options{})
	require.Len(t, m.shown, 4)
	m, _ = send(t, m, key("m"))
	assert.True(t, m.maximal)
	require.Len(t, m.shown, 1)
	assert.Equal(t, "אבאבא", m.shown[0].Normalized)
	m, _ = send(t, m, key("m"))
	assert.Len(t, m.shown, 4)
}

func TestTabSwitchesFocus(t *testing.T) {
	m := NewModel(Options{})
	m, _ = send(t, m, key("tab"))
	assert.Equal(t, focusTable, m.focus)
	m, _ = send(t, m, key("tab"))
	assert.Equal(t, focusInput, m.focus)
}

func TestQuitKeys(t *testing.T) {
	m := scanned(t, "אבא", Options{})
	m, cmd := send(t, m, key("q"))
	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Equal(t, "", m.View())
}

func TestTypingQDoesNotQuitWhileEditing(t *testing.T) {
	m := NewModel(Options{})
	m, _ = send(t, m, key("q"))
	assert.False(t, m.quitting)
	assert.Equal(t, "q", m.input.Value())
}

func TestCopySelected(t *testing.T) {
	var copied string
	m := scanned(t, "הבא נא אבא", Options{Copy: func(s string) error { copied = s; return nil }})
	m, _ = send(t, m, key("down"))
	_, cmd := send(t, m, key("y"))
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, statusMsg("Copied original text to clipboard"), msg)
	assert.Equal(t, "אבא", copied)
}

func TestCopySelected_Error(t *testing.T) {
	m := scanned(t, "אבא", Options{Copy: func(string) error { return errors.New("no clipboard") }})
	_, cmd := send(t, m, key("y"))
	require.NotNil(t, cmd)
	assert.Equal(t, statusMsg("Copy failed: no clipboard"), cmd())
}

func TestIdentifySource(t *testing.T) {
	gen := stubGenerator{reply: `{"found":true,"book":"בראשית","chapter":"כב","verse":"ז"}`}
	m := scanned(t, "אבא", Options{Oracle: oracle.New(gen, nil)})
	m, cmd := send(t, m, key("i"))
	require.NotNil(t, cmd)
	assert.Equal(t, "...", m.table.Rows()[0][3])

	// a second press while pending is a no-op
	_, again := send(t, m, key("i"))
	assert.Nil(t, again)

	m, _ = send(t, m, cmd())
	assert.Equal(t, "בראשית כב:ז", m.table.Rows()[0][3])
	assert.Equal(t, "Source: בראשית כב:ז", m.status)
}

func TestIdentifySource_NotFoundAndErrors(t *testing.T) {
	m := scanned(t, "אבא", Options{Oracle: oracle.New(stubGenerator{reply: `{"found":false}`}, nil)})
	m, cmd := send(t, m, key("i"))
	m, _ = send(t, m, cmd())
	assert.Equal(t, "-", m.table.Rows()[0][3])
	assert.Contains(t, m.status, "No exact biblical source")

	m = scanned(t, "אבא", Options{Oracle: oracle.New(stubGenerator{err: errors.New("boom")}, nil)})
	m, cmd = send(t, m, key("i"))
	m, _ = send(t, m, cmd())
	assert.Equal(t, "", m.table.Rows()[0][3])
	assert.Contains(t, m.status, "Source lookup failed")
}

func TestIdentifySource_StaleReplyDropped(t *testing.T) {
	gen := stubGenerator{reply: `{"found":true,"book":"Genesis","chapter":"22","verse":"7"}`}
	m := scanned(t, "אבא", Options{Oracle: oracle.New(gen, nil)})
	m, cmd := send(t, m, key("i"))
	require.NotNil(t, cmd)

	// rescan different text with the same offsets before the reply lands
	m.input.SetValue("גדג")
	m, _ = send(t, m, key("ctrl+s"))
	require.Len(t, m.results, 1)
	m, _ = send(t, m, cmd())
	assert.Equal(t, "", m.table.Rows()[0][3])
	assert.Empty(t, m.sources)

	// and after a clear
	m, cmd = send(t, m, key("i"))
	require.NotNil(t, cmd)
	m, _ = send(t, m, key("ctrl+l"))
	m, _ = send(t, m, cmd())
	assert.Empty(t, m.sources)
	assert.NotContains(t, m.status, "Genesis")
}

func TestOracleNotConfigured(t *testing.T) {
	m := scanned(t, "אבא", Options{})
	m, cmd := send(t, m, key("i"))
	assert.Nil(t, cmd)
	assert.Contains(t, m.status, "Oracle not configured")
	m, cmd = send(t, m, key("d"))
	assert.Nil(t, cmd)
	assert.Contains(t, m.status, "Oracle not configured")
}

func TestDiscover(t *testing.T) {
	gen := stubGenerator{reply: `{"palindromes":[{"text":"נתן","book":"שמואל ב","chapter":"ז","verse":"ב","meaning":"gave"}]}`}
	m := NewModel(Options{Oracle: oracle.New(gen, nil)})
	m, _ = send(t, m, key("tab"))
	m, cmd := send(t, m, key("d"))
	require.NotNil(t, cmd)
	assert.True(t, m.discovering)

	m, _ = send(t, m, discoverMsg{ds: nil, err: nil})
	assert.False(t, m.discovering)
	assert.True(t, m.showDiscovery)

	ds, err := oracle.New(gen, nil).Discover(context.Background(), "")
	require.NoError(t, err)
	m, _ = send(t, m, discoverMsg{ds: ds})
	view := m.View()
	assert.Contains(t, view, "נתן")
	assert.Contains(t, view, "שמואל ב ז:ב")
	assert.Contains(t, view, "gave")
}

func TestClear(t *testing.T) {
	m := scanned(t, "אבא", Options{})
	m, _ = send(t, m, key("ctrl+l"))
	assert.Empty(t, m.results)
	assert.Empty(t, m.input.Value())
	assert.Equal(t, focusInput, m.focus)
	assert.False(t, m.scanned)
}

func TestWindowResize(t *testing.T) {
	m := NewModel(Options{})
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
	assert.Len(t, m.table.Columns(), 4)
}
