// Package review walks the user through lint suggestions in the terminal
// and collects the ones they accept.
package review

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/lint/rewrite"
)

// Item is one diagnostic offering suggestions.
type Item struct {
	Path       string
	Source     string
	Diagnostic lint.Diagnostic
}

// Decision records what the user chose for an item.
type Decision struct {
	Item Item
	// Choice indexes Item.Diagnostic.Suggestions, or is -1 when skipped.
	Choice int
}

// Accepted reports whether a suggestion was chosen.
func (d Decision) Accepted() bool { return d.Choice >= 0 }

// Fix returns the chosen suggestion.
func (d Decision) Fix() lint.Fix { return d.Item.Diagnostic.Suggestions[d.Choice] }

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Accept key.Binding
	Skip   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Accept, k.Skip, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next")),
	Accept: key.NewBinding(key.WithKeys("enter", "y"), key.WithHelp("enter", "apply")),
	Skip:   key.NewBinding(key.WithKeys("s", "n"), key.WithHelp("s", "skip")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// maxPreviewLines bounds the before/after preview of a suggestion.
const maxPreviewLines = 12

// Model is the Bubble Tea model of a review session.
type Model struct {
	items     []Item
	index     int
	cursor    int
	decisions []Decision
	help      help.Model
	done      bool
}

// NewModel returns a model reviewing items in order.
func NewModel(items []Item) *Model {
	return &Model{items: items, help: help.New()}
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.done {
			return m, tea.Quit
		}
		switch {
		case key.Matches(msg, keys.Quit):
			m.finish()
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.current().Diagnostic.Suggestions)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Accept):
			return m, m.decide(m.cursor)
		case key.Matches(msg, keys.Skip):
			return m, m.decide(-1)
		}
	}
	return m, nil
}

func (m *Model) current() Item { return m.items[m.index] }

func (m *Model) decide(choice int) tea.Cmd {
	m.decisions = append(m.decisions, Decision{Item: m.current(), Choice: choice})
	m.index++
	m.cursor = 0
	if m.index >= len(m.items) {
		m.done = true
		return tea.Quit
	}
	return nil
}

// finish records every unreviewed item as skipped.
func (m *Model) finish() {
	for ; m.index < len(m.items); m.index++ {
		m.decisions = append(m.decisions, Decision{Item: m.items[m.index], Choice: -1})
	}
	m.done = true
}

// Decisions returns one decision per item, in item order.
func (m *Model) Decisions() []Decision { return m.decisions }

func (m *Model) View() string {
	if m.done {
		accepted := 0
		for _, d := range m.decisions {
			if d.Accepted() {
				accepted++
			}
		}
		return fmt.Sprintf("Reviewed %d suggestions, accepted %d.\n", len(m.decisions), accepted)
	}

	it := m.current()
	d := it.Diagnostic
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render(fmt.Sprintf("[%d/%d]", m.index+1, len(m.items))),
		mutedStyle.Render(fmt.Sprintf("%s:%s", it.Path, d.Pos)))
	fmt.Fprintf(&b, "%s  %s\n\n", titleStyle.Render(d.RuleID), d.Message)

	for i, s := range d.Suggestions {
		marker := "  "
		line := s.Description
		if i == m.cursor {
			marker = cursorStyle.Render("> ")
			line = cursorStyle.Render(line)
		}
		fmt.Fprintf(&b, "%s%d. %s\n", marker, i+1, line)
	}

	if m.cursor < len(d.Suggestions) {
		b.WriteString("\n")
		b.WriteString(Preview(it.Source, d.Suggestions[m.cursor]))
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(keys))
	b.WriteString("\n")
	return b.String()
}

// Preview renders the lines a fix touches, before and after.
func Preview(source string, fix lint.Fix) string {
	if len(fix.TextEdits) == 0 {
		return ""
	}
	after, err := rewrite.Apply(source, fix.TextEdits)
	if err != nil {
		return removedStyle.Render(err.Error()) + "\n"
	}

	first, last := fix.TextEdits[0].Pos.Line, fix.TextEdits[0].EndPos.Line
	for _, e := range fix.TextEdits[1:] {
		first = min(first, e.Pos.Line)
		last = max(last, e.EndPos.Line)
	}
	oldLines := strings.Split(source, "\n")
	newLines := strings.Split(after, "\n")
	newLast := last + len(newLines) - len(oldLines)

	var b strings.Builder
	write := func(lines []string, from, to int, prefix string, style lipgloss.Style) {
		for i := from; i <= to && i <= len(lines) && i-from < maxPreviewLines; i++ {
			b.WriteString(style.Render(prefix+lines[i-1]) + "\n")
		}
	}
	write(oldLines, first, last, "- ", removedStyle)
	write(newLines, first, newLast, "+ ", addedStyle)
	return b.String()
}

// Run starts an interactive session over items and returns the decisions.
// Leaving early skips the remaining items.
func Run(ctx context.Context, items []Item, in io.Reader, out io.Writer) ([]Decision, error) {
	if len(items) == 0 {
		return nil, nil
	}
	program := tea.NewProgram(NewModel(items), tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out))
	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("review: %w", err)
	}
	return final.(*Model).Decisions(), nil
}

// Apply applies the accepted suggestions of one file's decisions to text.
// Suggestions colliding with an earlier accepted one are skipped.
func Apply(text string, decisions []Decision) (*rewrite.Result, error) {
	var diags []lint.Diagnostic
	for _, d := range decisions {
		if !d.Accepted() {
			continue
		}
		diag := d.Item.Diagnostic
		fix := d.Fix()
		diag.Fix = &fix
		diag.Suggestions = nil
		diags = append(diags, diag)
	}
	return rewrite.ApplyFixes(text, diags)
}
