package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/licensegate/pkg/checker"
	"github.com/matzehuels/licensegate/pkg/policy"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// statusFilters cycles through with tab: all, then each verdict.
var statusFilters = []policy.Status{"", policy.StatusCompliant, policy.StatusNonCompliant, policy.StatusReviewRequired}

// =============================================================================
// RecordListModel - Interactive verdict browser
// =============================================================================

// RecordListModel is the bubbletea model for browsing check results.
type RecordListModel struct {
	Source  string
	Records []checker.Record
	Cursor  int
	Height  int
	Offset  int
	filter  int // index into statusFilters
}

// NewRecordListModel creates a new record list model.
func NewRecordListModel(source string, records []checker.Record) RecordListModel {
	return RecordListModel{
		Source:  source,
		Records: records,
		Height:  15,
	}
}

// visible returns the records matching the active status filter.
func (m RecordListModel) visible() []checker.Record {
	want := statusFilters[m.filter]
	if want == "" {
		return m.Records
	}
	out := []checker.Record{}
	for _, r := range m.Records {
		if r.Status == want {
			out = append(out, r)
		}
	}
	return out
}

func (m RecordListModel) Init() tea.Cmd {
	return nil
}

func (m RecordListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.visible())-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "tab":
			m.filter = (m.filter + 1) % len(statusFilters)
			m.Cursor = 0
			m.Offset = 0
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 7
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m RecordListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("License Check Results"))
	b.WriteString(" " + listDimStyle.Render(m.Source))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  tab filter  q quit"))
	b.WriteString("\n")

	if want := statusFilters[m.filter]; want != "" {
		style, _ := statusStyle(want)
		b.WriteString(listDimStyle.Render("filter: ") + style.Render(string(want)))
	} else {
		b.WriteString(listDimStyle.Render("filter: all"))
	}
	b.WriteString("\n\n")

	records := m.visible()
	if len(records) == 0 {
		b.WriteString(listDimStyle.Render("  no matching dependencies"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(records) {
		end = len(records)
	}

	nameWidth := 0
	for _, r := range records {
		if len(r.Dependency) > nameWidth {
			nameWidth = len(r.Dependency)
		}
	}

	for i := m.Offset; i < end; i++ {
		r := records[i]
		style, icon := statusStyle(r.Status)

		cursor := "  "
		name := StyleValue.Render(fmt.Sprintf("%-*s", nameWidth, r.Dependency))
		if i == m.Cursor {
			cursor = "▸ "
			name = listSelectedStyle.Render(fmt.Sprintf("%-*s", nameWidth, r.Dependency))
		}

		b.WriteString(fmt.Sprintf("%s%s %s  %s  %s\n",
			cursor,
			style.Render(icon),
			name,
			listDimStyle.Render(fmt.Sprintf("%-20s", r.License)),
			style.Render(string(r.Status)),
		))
	}

	return b.String()
}

// browseRecords runs the interactive verdict browser.
func browseRecords(source string, records []checker.Record) error {
	p := tea.NewProgram(NewRecordListModel(source, records))
	_, err := p.Run()
	return err
}
