package ui

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/gubarz/snip/internal/completion"
)

const maxPreviewLines = 8

// EditRequest is returned by Select when the user asked to edit the
// highlighted snippet instead of choosing it
type EditRequest struct {
	Name string
}

func (e *EditRequest) Error() string {
	return fmt.Sprintf("edit requested for %q", e.Name)
}

// IsEditRequest reports whether err asks for the editor and returns the name
func IsEditRequest(err error) (string, bool) {
	var req *EditRequest
	if errors.As(err, &req) {
		return req.Name, true
	}
	return "", false
}

// ============================================================================
// Entry Item
// ============================================================================

// entryItem wraps a selector entry with its split display columns
type entryItem struct {
	entry  completion.Entry
	name   string
	detail string
}

func newEntryItem(e completion.Entry) entryItem {
	name, detail, _ := strings.Cut(e.Display, "\t")
	return entryItem{entry: e, name: name, detail: detail}
}

// ============================================================================
// Debounce
// ============================================================================

// filterMsg triggers filtering after debounce
type filterMsg struct{}

// debounceFilter returns a command that triggers filtering after a delay
func debounceFilter() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return filterMsg{}
	})
}

// ============================================================================
// Model
// ============================================================================

// model is the Bubble Tea model for picking one snippet
type model struct {
	width     int
	height    int
	textInput textinput.Model
	quitting  bool

	items    []entryItem
	names    []string
	filtered []entryItem
	cursor   int
	offset   int // viewport scroll offset

	chosen *entryItem
	edit   bool
}

// newModel creates a model pre-filtered by query
func newModel(entries []completion.Entry, query string) model {
	ti := textinput.New()
	ti.Placeholder = "Type to search..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	items := make([]entryItem, len(entries))
	names := make([]string, len(entries))
	for i, e := range entries {
		items[i] = newEntryItem(e)
		names[i] = items[i].name
	}

	m := model{
		textInput: ti,
		items:     items,
		names:     names,
		filtered:  items,
	}
	if query != "" {
		m.textInput.SetValue(query)
		m.textInput.CursorEnd()
		m.filter()
	}
	return m
}

// Init implements tea.Model
func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 4
	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			return m, cmd
		}
	case filterMsg:
		m.filter()
		return m, nil
	}

	prevQuery := m.textInput.Value()
	var tiCmd tea.Cmd
	m.textInput, tiCmd = m.textInput.Update(msg)
	cmds = append(cmds, tiCmd)

	// Only trigger debounced filter if query changed
	if m.textInput.Value() != prevQuery {
		cmds = append(cmds, debounceFilter())
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes keyboard input
func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return tea.Quit
	case "enter":
		if m.cursor < len(m.filtered) {
			m.chosen = &m.filtered[m.cursor]
			return tea.Quit
		}
	case "ctrl+e":
		if m.cursor < len(m.filtered) {
			m.chosen = &m.filtered[m.cursor]
			m.edit = true
			return tea.Quit
		}
	case "up", "ctrl+p":
		m.moveCursor(-1)
	case "down", "ctrl+n":
		m.moveCursor(1)
	case "pgup":
		m.moveCursor(-10)
	case "pgdown":
		m.moveCursor(10)
	case "home":
		m.cursor = 0
	case "end":
		m.cursor = max(0, len(m.filtered)-1)
	}
	return nil
}

// moveCursor moves the cursor by delta, clamping to valid range
func (m *model) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(0, len(m.filtered)-1))
}

// filter ranks entries by fuzzy distance to the query, keeping entry order
// among equal distances
func (m *model) filter() {
	query := strings.TrimSpace(m.textInput.Value())

	if query == "" {
		m.filtered = m.items
	} else {
		ranks := fuzzy.RankFindFold(query, m.names)
		sort.Stable(ranks)
		m.filtered = make([]entryItem, len(ranks))
		for i, r := range ranks {
			m.filtered[i] = m.items[r.OriginalIndex]
		}
	}

	m.cursor = clamp(m.cursor, 0, max(0, len(m.filtered)-1))
}

// ============================================================================
// Rendering
// ============================================================================

// View implements tea.Model
func (m model) View() string {
	if m.quitting || m.chosen != nil {
		return ""
	}

	width := max(m.width, 80)
	height := max(m.height, 24)

	preview := m.renderPreview(width)
	inputLines := 3 // divider + info + input
	listHeight := max(height-countLines(preview)-inputLines, 3)
	list := m.renderList(listHeight)

	padding := max(height-countLines(preview)-countLines(list)-inputLines, 0)

	b := getBuilder()
	defer putBuilder(b)
	b.WriteString(preview)
	b.WriteString(list)
	b.WriteString(strings.Repeat("\n", padding))
	b.WriteString(m.renderInput(width))
	return b.String()
}

// renderPreview renders the Name, Comments and Content of the highlighted entry
func (m model) renderPreview(width int) string {
	b := getBuilder()
	defer putBuilder(b)
	lines := 0

	if m.cursor < len(m.filtered) {
		text := truncateLines(m.filtered[m.cursor].entry.Preview, maxPreviewLines)
		for _, line := range strings.Split(text, "\n") {
			if strings.HasSuffix(line, ":") && !strings.HasPrefix(line, " ") {
				b.WriteString(styles.PreviewLabel.Render(line))
			} else {
				b.WriteString(styles.PreviewBody.Render(truncateString(line, width)))
			}
			b.WriteString("\n")
			lines++
		}
	}

	// Pad to fixed height
	for lines < maxPreviewLines+1 {
		b.WriteString("\n")
		lines++
	}

	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	return b.String()
}

// renderList renders the scrollable list of entries
func (m *model) renderList(maxHeight int) string {
	if len(m.filtered) == 0 {
		return ""
	}

	start, end := scrollWindow(m.cursor, len(m.filtered), maxHeight, &m.offset)
	nameWidth := m.nameWidth()

	b := getBuilder()
	defer putBuilder(b)
	for i := start; i < end; i++ {
		b.WriteString(m.renderListItem(m.filtered[i], i == m.cursor, nameWidth))
		b.WriteString("\n")
	}
	return b.String()
}

// renderListItem renders a single list item
func (m model) renderListItem(item entryItem, selected bool, nameWidth int) string {
	nameStyle, detailStyle := styles.Name, styles.Detail
	if selected {
		nameStyle = styles.WithSelection(nameStyle)
		detailStyle = styles.WithSelection(detailStyle)
	}

	name := fmt.Sprintf("%-*s", nameWidth, truncateString(item.name, nameWidth))
	line := nameStyle.Render(name)
	if item.detail != "" {
		avail := max(m.width, 80) - nameWidth - 4
		line += detailStyle.Render("  " + truncateString(firstLine(item.detail), avail))
	}

	if selected {
		return styles.Cursor.Render("▶ ") + line
	}
	return "  " + line
}

// nameWidth is the widest visible name, capped at 40 columns
func (m model) nameWidth() int {
	width := 0
	for _, item := range m.filtered {
		width = max(width, lipgloss.Width(item.name))
	}
	return min(width, 40)
}

// renderInput renders the input section at the bottom
func (m model) renderInput(width int) string {
	b := getBuilder()
	defer putBuilder(b)
	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	b.WriteString(styles.Dim.Render(fmt.Sprintf("  %d/%d", len(m.filtered), len(m.items))))
	b.WriteString(" • ")
	b.WriteString(styles.Dim.Render("Enter select"))
	b.WriteString(" • ")
	b.WriteString(styles.Dim.Render("Ctrl+E edit"))
	b.WriteString(" • ")
	b.WriteString(styles.Dim.Render("ESC exit"))
	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	return b.String()
}

// ============================================================================
// Run TUI
// ============================================================================

// getTTY returns file handles for TUI input/output
// Uses /dev/tty to bypass shell pipes and command substitution
func getTTY() (in *os.File, out *os.File, cleanup func()) {
	var closers []func()

	// If stdout is captured by $() or a pipe, draw on /dev/tty
	if fileInfo, _ := os.Stdout.Stat(); (fileInfo.Mode() & os.ModeCharDevice) == 0 {
		out, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
		if err != nil {
			out = os.Stderr // Last resort fallback
		} else {
			closers = append(closers, func() { out.Close() })
		}

		in, err := os.OpenFile("/dev/tty", os.O_RDONLY, 0)
		if err != nil {
			in = os.Stdin
		} else {
			closers = append(closers, func() { in.Close() })
		}

		// Tell lipgloss to use the TTY for color detection
		lipgloss.SetDefaultRenderer(lipgloss.NewRenderer(out))

		return in, out, func() {
			for _, c := range closers {
				c()
			}
		}
	}

	return os.Stdin, os.Stdout, func() {}
}

// Selector is the terminal implementation of completion.Selector
type Selector struct{}

// NewSelector returns a terminal selector
func NewSelector() *Selector {
	return &Selector{}
}

// Select shows entries pre-filtered by query and returns the chosen display
// text. Ctrl+E returns an *EditRequest error naming the highlighted entry.
func (s *Selector) Select(entries []completion.Entry, query string) (string, bool, error) {
	if len(entries) == 0 {
		return "", false, nil
	}

	ttyIn, ttyOut, cleanup := getTTY()
	defer cleanup()
	RefreshStyles() // Refresh after getTTY sets up the renderer

	p := tea.NewProgram(newModel(entries, query), tea.WithAltScreen(), tea.WithOutput(ttyOut), tea.WithInput(ttyIn))
	final, err := p.Run()
	if err != nil {
		return "", false, fmt.Errorf("selector: %w", err)
	}
	return result(final.(model))
}

// result maps the final model state to Select's return values
func result(m model) (string, bool, error) {
	if m.chosen == nil {
		return "", false, nil
	}
	if m.edit {
		return "", false, &EditRequest{Name: m.chosen.name}
	}
	return m.chosen.entry.Display, true, nil
}
