package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/TimelordUK/mdiff/internal/compute"
	"github.com/TimelordUK/mdiff/internal/config"
	"github.com/TimelordUK/mdiff/internal/source"
	"github.com/TimelordUK/mdiff/internal/watch"
	"github.com/TimelordUK/mdiff/pkg/linediff"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeEdit Mode = iota
	ModeView
	ModeSearch
	ModeGoto
	ModeFilter
	ModeExport
)

// String returns the mode name
func (m Mode) String() string {
	switch m {
	case ModeEdit:
		return "edit"
	case ModeView:
		return "view"
	case ModeSearch:
		return "search"
	case ModeGoto:
		return "goto"
	case ModeFilter:
		return "filter"
	case ModeExport:
		return "export"
	default:
		return "unknown"
	}
}

// Options configures a new Model
type Options struct {
	Original    source.Input
	Modified    source.Input
	Config      *config.Config
	Logger      *slog.Logger
	Watcher     *watch.Watcher // optional, reloads file inputs on change
	StartInView bool
	NoSyntax    bool
}

// fileChangedMsg is sent when a watched input changes on disk
type fileChangedMsg watch.Change

// Model is the main application model
type Model struct {
	config *config.Config
	keys   keyMap
	logger *slog.Logger

	pane      *Pane
	editor    Editor
	scheduler *compute.Scheduler
	watcher   *watch.Watcher
	input     textinput.Model

	mode   Mode
	width  int
	height int

	// Status
	elapsed time.Duration
	warning string
	message string
	err     error

	statusStyle lipgloss.Style
	helpStyle   lipgloss.Style
	warnStyle   lipgloss.Style
}

// NewModel creates a new application model
func NewModel(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	src := source.NewDiffSource(opts.Original, opts.Modified)
	pane := NewPane(src, cfg)
	if opts.NoSyntax {
		pane.SetSyntax(false)
	}

	ti := textinput.New()
	ti.CharLimit = 256

	mode := ModeEdit
	editor := NewEditor(opts.Original.Text, opts.Modified.Text)
	if opts.StartInView {
		mode = ModeView
		editor.Blur()
	}

	return &Model{
		config:      cfg,
		keys:        newKeyMap(cfg.Keybindings),
		logger:      logger,
		pane:        pane,
		editor:      editor,
		scheduler:   compute.NewScheduler(cfg.Diff.Debounce(), cfg.Diff.WarnCells, logger),
		watcher:     opts.Watcher,
		input:       ti,
		mode:        mode,
		width:       80,
		height:      24,
		statusStyle: lipgloss.NewStyle().Background(lipgloss.Color(cfg.Theme.StatusBar)).Foreground(lipgloss.Color(cfg.Theme.StatusBarText)),
		helpStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Help)),
		warnStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Warning)),
	}
}

// Mode returns the current UI mode
func (m *Model) Mode() Mode {
	return m.mode
}

// Pane returns the comparison pane
func (m *Model) Pane() *Pane {
	return m.pane
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.computeNow()}
	if m.watcher != nil {
		cmds = append(cmds, waitForChange(m.watcher.Changes()))
	}
	if m.mode == ModeEdit {
		cmds = append(cmds, textarea.Blink)
	}
	return tea.Batch(cmds...)
}

func waitForChange(changes <-chan watch.Change) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-changes
		if !ok {
			return nil
		}
		return fileChangedMsg(c)
	}
}

func (m *Model) computeNow() tea.Cmd {
	return m.scheduler.Now(m.pane.Source().Lines())
}

func (m *Model) computeLater() tea.Cmd {
	return m.scheduler.Schedule(m.pane.Source().Lines())
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Reserve 2 lines for status bar and help
		m.pane.SetSize(msg.Width, msg.Height-2)
		m.editor.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case compute.TriggerMsg:
		return m, m.scheduler.Fire(msg)

	case compute.ResultMsg:
		return m, m.handleResult(msg)

	case fileChangedMsg:
		return m, m.handleFileChange(msg)
	}

	// Cursor blinks and other component messages
	var cmd tea.Cmd
	switch {
	case m.mode == ModeEdit:
		_, cmd = m.editor.Update(msg)
	case m.isPrompt():
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleResult(msg compute.ResultMsg) tea.Cmd {
	current, next := m.scheduler.Accept(msg)
	if current {
		m.pane.SetResult(msg.Result)
		m.elapsed = msg.Elapsed
		m.warning = msg.Warning
	}
	return next
}

func (m *Model) handleFileChange(msg fileChangedMsg) tea.Cmd {
	var cmds []tea.Cmd
	if m.watcher != nil {
		cmds = append(cmds, waitForChange(m.watcher.Changes()))
	}

	changed, err := m.pane.Source().Reload(msg.Path)
	if err != nil {
		m.setError(fmt.Errorf("reload %s: %w", msg.Path, err))
		return tea.Batch(cmds...)
	}
	if changed {
		m.logger.Info("input reloaded", "path", msg.Path)
		m.message = "reloaded " + filepath.Base(msg.Path)
		m.syncEditor()
		cmds = append(cmds, m.computeNow())
	}
	return tea.Batch(cmds...)
}

func (m *Model) setError(err error) {
	m.err = err
	m.logger.Error("ui error", "error", err)
}

// syncEditor copies the inputs into the edit buffers
func (m *Model) syncEditor() {
	src := m.pane.Source()
	m.editor.SetValue(source.SideLeft, src.Original().Text)
	m.editor.SetValue(source.SideRight, src.Modified().Text)
}

// syncFromEditor copies one edit buffer into its input
func (m *Model) syncFromEditor(side source.Side) {
	src := m.pane.Source()
	text := m.editor.Value(side)
	src.SetEditorNormalized(true)
	if side == source.SideLeft {
		src.SetOriginal(src.Original().WithText(text))
	} else {
		src.SetModified(src.Modified().WithText(text))
	}
}

func (m *Model) swap() {
	m.pane.Source().Swap()
	m.editor.Swap()
}

func (m *Model) clear() {
	m.pane.Source().Clear()
	m.pane.SetResult(linediff.Result{})
	m.pane.ClearSearch()
	m.editor.SetValue(source.SideLeft, "")
	m.editor.SetValue(source.SideRight, "")
}

func (m *Model) isPrompt() bool {
	switch m.mode {
	case ModeSearch, ModeGoto, ModeFilter, ModeExport:
		return true
	}
	return false
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""
	m.err = nil

	switch {
	case m.mode == ModeEdit:
		return m.handleEditKey(msg)
	case m.isPrompt():
		return m.handlePromptKey(msg)
	}
	return m.handleViewKey(msg)
}

func (m *Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.EditQuit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Compare):
		m.mode = ModeView
		m.editor.Blur()
		return m, m.computeNow()

	case key.Matches(msg, m.keys.SwitchInput):
		return m, m.editor.Toggle()

	case key.Matches(msg, m.keys.EditSwap):
		m.swap()
		return m, m.computeLater()

	case key.Matches(msg, m.keys.Clear):
		m.clear()
		return m, m.computeLater()
	}

	changed, cmd := m.editor.Update(msg)
	if !changed {
		return m, cmd
	}
	m.syncFromEditor(m.editor.Focused())
	return m, tea.Batch(cmd, m.computeLater())
}

func (m *Model) handleViewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	vp := m.pane.Viewport()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.ScrollDown):
		vp.ScrollDown(1)
	case key.Matches(msg, m.keys.ScrollUp):
		vp.ScrollUp(1)
	case key.Matches(msg, m.keys.PageDown):
		vp.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		vp.PageUp()
	case key.Matches(msg, m.keys.HalfPageDown):
		vp.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		vp.HalfPageUp()
	case key.Matches(msg, m.keys.Top):
		vp.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		vp.GotoBottom()

	case key.Matches(msg, m.keys.NextChange):
		if !m.pane.NextChange() {
			m.message = "no further changes"
		}
	case key.Matches(msg, m.keys.PrevChange):
		if !m.pane.PrevChange() {
			m.message = "no earlier changes"
		}

	case key.Matches(msg, m.keys.NextMatch):
		m.pane.NextSearchResult()
	case key.Matches(msg, m.keys.PrevMatch):
		m.pane.PrevSearchResult()

	case key.Matches(msg, m.keys.Search):
		return m, m.prompt(ModeSearch, "/", "Search...", "")
	case key.Matches(msg, m.keys.Goto):
		return m, m.prompt(ModeGoto, ":", "Line number (r12 for right side)...", "")
	case key.Matches(msg, m.keys.Filter):
		return m, m.prompt(ModeFilter, "&", "Filter text...", m.pane.FilterTerm())
	case key.Matches(msg, m.keys.Export):
		return m, m.prompt(ModeExport, "write: ", "Export path...", m.pane.DefaultExportPath())

	case key.Matches(msg, m.keys.ToggleChanges):
		if m.pane.ToggleChangesOnly() {
			m.message = "showing changes only"
		} else {
			m.message = "showing all rows"
		}

	case key.Matches(msg, m.keys.Edit):
		m.mode = ModeEdit
		return m, m.editor.Focus(m.editor.Focused())

	case key.Matches(msg, m.keys.Swap):
		m.swap()
		return m, m.computeNow()

	case msg.String() == "esc":
		m.pane.ClearSearch()
	}

	return m, nil
}

func (m *Model) prompt(mode Mode, prompt, placeholder, value string) tea.Cmd {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		mode, value := m.mode, m.input.Value()
		m.closePrompt()
		m.applyPrompt(mode, value)
		return m, nil

	case "esc":
		m.closePrompt()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.mode = ModeView
	m.input.Blur()
}

func (m *Model) applyPrompt(mode Mode, value string) {
	switch mode {
	case ModeSearch:
		m.pane.PerformSearch(value)
		if value != "" && len(m.pane.SearchResults()) == 0 {
			m.message = "pattern not found: " + value
		}

	case ModeGoto:
		side, line, err := ParseGoto(value)
		if err != nil {
			m.setError(err)
			return
		}
		if !m.pane.GotoLine(side, line) {
			m.message = fmt.Sprintf("line %d not found", line)
		}

	case ModeFilter:
		m.pane.SetFilterTerm(value)

	case ModeExport:
		path := strings.TrimSpace(value)
		if path == "" {
			return
		}
		info, err := m.pane.Export(path)
		if err != nil {
			m.setError(err)
			return
		}
		m.logger.Info("exported rows", "path", info.Path, "rows", info.Rows, "compressed", info.Compressed)
		m.message = fmt.Sprintf("exported %d rows to %s", info.Rows, info.Path)
	}
}

// View implements tea.Model
func (m *Model) View() string {
	var builder strings.Builder

	// Main content
	if m.mode == ModeEdit {
		src := m.pane.Source()
		builder.WriteString(m.editor.View(title("Original", src.Original()), title("Modified", src.Modified())))
	} else {
		builder.WriteString(m.pane.Render())
	}
	builder.WriteString("\n")

	// Status bar
	status := ansi.Truncate(m.statusLine(), m.width, "…")
	builder.WriteString(m.statusStyle.Width(m.width).Render(status))
	builder.WriteString("\n")

	// Prompt, message or help line
	builder.WriteString(m.bottomLine())

	return builder.String()
}

func title(label string, in source.Input) string {
	if in.IsFile() {
		return label + ": " + in.Name
	}
	return label + " Text"
}

func (m *Model) statusLine() string {
	src := m.pane.Source()
	res := src.Result()

	var parts []string
	if m.mode == ModeEdit {
		parts = append(parts, fmt.Sprintf("%d | %d lines",
			res.Stats.Retained+res.Stats.Removed,
			res.Stats.Retained+res.Stats.Added))
	} else {
		row, total := m.pane.Position()
		parts = append(parts,
			src.Original().Name+" vs "+src.Modified().Name,
			fmt.Sprintf("R%d/%d", row, total),
			fmt.Sprintf("%.0f%%", m.pane.Viewport().PercentScrolled()))
	}

	switch {
	case res.Empty():
		parts = append(parts, EmptyMessage)
	case res.Identical():
		parts = append(parts, "No differences")
	default:
		parts = append(parts, fmt.Sprintf("+%d -%d", res.Stats.Added, res.Stats.Removed))
	}

	if src.EditorNormalized() {
		parts = append(parts, "[tabs/CR normalized]")
	}
	if m.pane.ChangesOnly() {
		parts = append(parts, "[changes]")
	}
	if f := m.pane.FilterTerm(); f != "" {
		parts = append(parts, fmt.Sprintf("[filter: %s]", f))
	}
	if m.pane.SearchTerm() != "" {
		parts = append(parts, fmt.Sprintf("[%d matches]", len(m.pane.SearchResults())))
	}

	switch {
	case m.scheduler.Running() || m.scheduler.Pending():
		parts = append(parts, "computing...")
	case m.elapsed > 0:
		parts = append(parts, m.elapsed.Truncate(time.Microsecond).String())
	}

	return " " + strings.Join(parts, "  ")
}

func (m *Model) bottomLine() string {
	switch {
	case m.isPrompt():
		return m.input.View()
	case m.err != nil:
		return m.warnStyle.Render("Error: " + m.err.Error())
	case m.warning != "":
		return m.warnStyle.Render(m.warning)
	case m.message != "":
		return m.message
	}

	k := m.keys
	if m.mode == ModeEdit {
		return m.helpStyle.Render(helpText(k.SwitchInput, k.Compare, k.EditSwap, k.Clear, k.EditQuit))
	}
	return m.helpStyle.Render(helpText(k.ScrollDown, k.ScrollUp, k.NextChange, k.PrevChange,
		k.Search, k.Goto, k.ToggleChanges, k.Edit, k.Swap, k.Export, k.Quit))
}

// Close cleans up resources
func (m *Model) Close() error {
	var err error
	if m.watcher != nil {
		err = m.watcher.Close()
	}
	return errors.Join(err, m.pane.Source().Close())
}
