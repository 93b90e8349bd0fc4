package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wasm-exports/signature"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	nameStyle = lipgloss.NewStyle().Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	kindStyles = map[signature.ExternKind]lipgloss.Style{
		signature.KindFunc:   lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		signature.KindTable:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")),
		signature.KindMemory: lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		signature.KindGlobal: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA07A")),
	}
)

type browserModel struct {
	filename string
	exports  []signature.Export
	visible  []int // indices into exports that match the filter
	filter   textinput.Model
	selected int
}

func newBrowserModel(filename string, exports []signature.Export) *browserModel {
	ti := textinput.New()
	ti.Placeholder = "filter by name"
	ti.Prompt = "/ "
	ti.Width = 40
	ti.Focus()

	m := &browserModel{
		filename: filename,
		exports:  exports,
		filter:   ti,
	}
	m.applyFilter()
	return m
}

// applyFilter recomputes the visible exports from the filter text, matching
// names case-insensitively, and keeps the cursor in range.
func (m *browserModel) applyFilter() {
	needle := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for i, exp := range m.exports {
		if needle == "" || strings.Contains(strings.ToLower(exp.Name), needle) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = len(m.visible) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *browserModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "up", "ctrl+p":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.selected < len(m.visible)-1 {
				m.selected++
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *browserModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("WASM Exports"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(helpStyle.Render("no matching exports"))
		b.WriteString("\n")
	}
	for row, idx := range m.visible {
		exp := m.exports[idx]
		if row == m.selected {
			b.WriteString(selectedStyle.Render("> " + exp.String()))
		} else {
			b.WriteString("  " + formatExport(exp))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("%d/%d shown • ↑/↓ select • type to filter • esc quit",
		len(m.visible), len(m.exports))))

	return b.String()
}

func formatExport(exp signature.Export) string {
	sig := exp.Type.String()
	if style, ok := kindStyles[exp.Type.Kind]; ok {
		sig = style.Render(sig)
	}
	return nameStyle.Render(exp.Name) + ": " + sig
}

func runInteractive(filename string, exports []signature.Export) error {
	p := tea.NewProgram(newBrowserModel(filename, exports), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
