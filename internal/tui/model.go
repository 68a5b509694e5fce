package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/palindrom/palindrom/internal/oracle"
	"github.com/palindrom/palindrom/internal/scanner"
	"github.com/palindrom/palindrom/internal/types"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true).
			Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	focusedPaneStyle = paneStyle.
				BorderForeground(lipgloss.Color("208"))

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	discoveryTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("208")).
				Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

type focus int

const (
	focusInput focus = iota
	focusTable
)

const (
	helpInput = "ctrl+s: scan | tab: results | ctrl+l: clear | ctrl+c: quit"
	helpTable = "tab: edit | m: maximal | y: copy | i: source | d: discover | v: view | q: quit"
)

// Options configures the interactive session.
type Options struct {
	MinLength int
	MaxLength int
	Maximal   bool
	// Oracle is optional; without it the source and discover keys report
	// that the oracle is not configured.
	Oracle  *oracle.Client
	Timeout time.Duration
	// Copy writes text to the system clipboard.
	Copy func(string) error
}

// Model is the bubbletea model for the palindrome explorer.
type Model struct {
	input   textarea.Model
	table   table.Model
	spinner spinner.Model
	opts    Options

	results     []types.Palindrome
	shown       []types.Palindrome
	sources     map[string]types.Source
	pending     map[string]bool
	discoveries []types.Discovery
	// generation increments on every scan and clear; source replies from
	// an older generation are dropped.
	generation int

	maximal       bool
	focus         focus
	showDiscovery bool
	discovering   bool
	scanned       bool
	quitting      bool

	width  int
	height int
	status string
}

type sourceMsg struct {
	key        string
	generation int
	src        types.Source
	err        error
}

type discoverMsg struct {
	ds  []types.Discovery
	err error
}

type statusMsg string

// NewModel builds a model with an empty input.
func NewModel(opts Options) Model {
	if opts.MinLength == 0 {
		opts.MinLength = scanner.DefaultMinLength
	}
	if opts.MaxLength == 0 {
		opts.MaxLength = scanner.DefaultMaxLength
	}
	if opts.Timeout <= 0 {
		opts.Timeout = oracle.DefaultTimeout
	}

	ta := textarea.New()
	ta.Placeholder = "הבא נא אבא אליך כי לא ידע כי כלתו היא..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(5)
	ta.Focus()

	t := table.New(
		table.WithColumns(columns(80)),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("15")).
		Bold(true).
		Padding(0, 1)
	s.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("208")).
		Bold(true)
	s.Cell = lipgloss.NewStyle().Padding(0, 1)
	t.SetStyles(s)

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	return Model{
		input:   ta,
		table:   t,
		spinner: sp,
		opts:    opts,
		maximal: opts.Maximal,
		sources: map[string]types.Source{},
		pending: map[string]bool{},
		status:  helpInput,
	}
}

func columns(width int) []table.Column {
	rest := width - 6 - 14 - 12
	if rest < 20 {
		rest = 20
	}
	return []table.Column{
		{Title: "Len", Width: 6},
		{Title: "Normalized", Width: rest / 2},
		{Title: "Original", Width: rest - rest/2},
		{Title: "Source", Width: 14},
	}
}

func resultKey(p types.Palindrome) string {
	return strconv.Itoa(p.Start) + ":" + strconv.Itoa(p.End) + ":" + p.Normalized
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *Model) scan() {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		m.status = "Nothing to scan"
		return
	}
	res, err := scanner.Scan(text, m.opts.MinLength, m.opts.MaxLength)
	if err != nil {
		m.status = fmt.Sprintf("Scan error: %v", err)
		return
	}
	m.results = res
	m.sources = map[string]types.Source{}
	m.pending = map[string]bool{}
	m.generation++
	m.scanned = true
	m.refresh()
	if len(m.shown) > 0 {
		m.setFocus(focusTable)
	}
	m.status = fmt.Sprintf("%d palindromes (%d shown) | %s", len(m.results), len(m.shown), helpTable)
}

// refresh recomputes the visible rows from results and the maximal toggle.
func (m *Model) refresh() {
	if m.maximal {
		m.shown = scanner.Maximal(m.results)
	} else {
		m.shown = m.results
	}
	rows := make([]table.Row, len(m.shown))
	for i, p := range m.shown {
		rows[i] = table.Row{strconv.Itoa(p.Length), p.Normalized, p.Original, m.sourceCell(p)}
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m *Model) sourceCell(p types.Palindrome) string {
	k := resultKey(p)
	if m.pending[k] {
		return "..."
	}
	if src, ok := m.sources[k]; ok {
		if !src.Found {
			return "-"
		}
		return src.String()
	}
	return ""
}

func (m *Model) selected() (types.Palindrome, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.shown) {
		return types.Palindrome{}, false
	}
	return m.shown[i], true
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	if f == focusInput {
		m.input.Focus()
		m.table.Blur()
		m.status = helpInput
		return
	}
	m.input.Blur()
	m.table.Focus()
	m.status = helpTable
}

func (m *Model) clear() {
	m.input.Reset()
	m.results = nil
	m.shown = nil
	m.discoveries = nil
	m.sources = map[string]types.Source{}
	m.pending = map[string]bool{}
	m.generation++
	m.scanned = false
	m.showDiscovery = false
	m.table.SetRows(nil)
	m.setFocus(focusInput)
}

func (m *Model) identify() tea.Cmd {
	p, ok := m.selected()
	if !ok {
		return nil
	}
	if m.opts.Oracle == nil {
		m.status = "Oracle not configured (set GEMINI_API_KEY)"
		return nil
	}
	k := resultKey(p)
	if m.pending[k] {
		return nil
	}
	if _, done := m.sources[k]; done {
		return nil
	}
	m.pending[k] = true
	m.refresh()
	client, timeout, original, gen := m.opts.Oracle, m.opts.Timeout, p.Original, m.generation
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		src, err := client.IdentifySource(ctx, original)
		return sourceMsg{key: k, generation: gen, src: src, err: err}
	}
}

func (m *Model) discover() tea.Cmd {
	if m.opts.Oracle == nil {
		m.status = "Oracle not configured (set GEMINI_API_KEY)"
		return nil
	}
	if m.discovering {
		return nil
	}
	m.discovering = true
	m.status = "Asking the oracle..."
	client, timeout, text := m.opts.Oracle, m.opts.Timeout, m.input.Value()
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		ds, err := client.Discover(ctx, text)
		return discoverMsg{ds: ds, err: err}
	})
}

func (m *Model) copySelected() tea.Cmd {
	p, ok := m.selected()
	if !ok || m.opts.Copy == nil {
		return nil
	}
	original := p.Original
	copyFn := m.opts.Copy
	return func() tea.Msg {
		if err := copyFn(original); err != nil {
			return statusMsg(fmt.Sprintf("Copy failed: %v", err))
		}
		return statusMsg("Copied original text to clipboard")
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.SetWidth(msg.Width - 4)
		m.table.SetColumns(columns(msg.Width - 6))
		if h := msg.Height - 16; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case sourceMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		delete(m.pending, msg.key)
		if msg.err != nil {
			m.status = fmt.Sprintf("Source lookup failed: %v", msg.err)
		} else {
			m.sources[msg.key] = msg.src
			if !msg.src.Found {
				m.status = "No exact biblical source found for this sequence"
			} else {
				m.status = "Source: " + msg.src.String()
			}
		}
		m.refresh()
		return m, nil

	case discoverMsg:
		m.discovering = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Oracle error: %v", msg.err)
			return m, nil
		}
		m.discoveries = msg.ds
		m.showDiscovery = true
		m.status = fmt.Sprintf("%d discoveries | v: back to results", len(msg.ds))
		return m, nil

	case statusMsg:
		m.status = string(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.discovering {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "ctrl+s":
			m.scan()
			return m, nil
		case "ctrl+l":
			m.clear()
			return m, nil
		case "tab":
			if m.focus == focusInput {
				m.setFocus(focusTable)
			} else {
				m.setFocus(focusInput)
			}
			return m, nil
		}

		if m.focus == focusInput {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "q", "esc":
			m.quitting = true
			return m, tea.Quit
		case "m":
			m.maximal = !m.maximal
			m.refresh()
			if m.maximal {
				m.status = fmt.Sprintf("Maximal only: %d of %d", len(m.shown), len(m.results))
			} else {
				m.status = fmt.Sprintf("All palindromes: %d", len(m.shown))
			}
			return m, nil
		case "y":
			return m, m.copySelected()
		case "i":
			return m, m.identify()
		case "d":
			return m, m.discover()
		case "v":
			m.showDiscovery = !m.showDiscovery
			return m, nil
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	if m.focus == focusInput {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Hebrew palindrome explorer"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  length %d-%d", m.opts.MinLength, m.opts.MaxLength)))
	if m.maximal {
		b.WriteString(dimStyle.Render("  [maximal]"))
	}
	b.WriteString("\n")

	inputPane, tablePane := paneStyle, paneStyle
	if m.focus == focusInput {
		inputPane = focusedPaneStyle
	} else {
		tablePane = focusedPaneStyle
	}
	b.WriteString(inputPane.Render(m.input.View()))
	b.WriteString("\n")

	switch {
	case m.discovering:
		b.WriteString(fmt.Sprintf("%s Asking the oracle...\n", m.spinner.View()))
	case m.showDiscovery:
		b.WriteString(tablePane.Render(m.discoveryView()))
		b.WriteString("\n")
	case m.scanned && len(m.shown) == 0:
		b.WriteString(dimStyle.Render("No palindromes found in the text."))
		b.WriteString("\n")
	case m.scanned:
		b.WriteString(tablePane.Render(m.table.View()))
		b.WriteString("\n")
	}

	status := m.status
	if m.width > 0 {
		return b.String() + statusStyle.Width(m.width).Render(status)
	}
	return b.String() + statusStyle.Render(status)
}

func (m Model) discoveryView() string {
	if len(m.discoveries) == 0 {
		return dimStyle.Render("No discoveries yet. Press d to ask the oracle.")
	}
	var b strings.Builder
	for i, d := range m.discoveries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(discoveryTitleStyle.Render(d.Text))
		b.WriteString(fmt.Sprintf("  %s %s:%s", d.Book, d.Chapter, d.Verse))
		if d.Meaning != "" {
			b.WriteString("\n  " + dimStyle.Render(d.Meaning))
		}
	}
	return b.String()
}
