package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

type theme struct {
	prompt  lipgloss.Style
	result  lipgloss.Style
	err     lipgloss.Style
	warning lipgloss.Style
	muted   lipgloss.Style
	header  lipgloss.Style
	title   lipgloss.Style
	helpKey lipgloss.Style
	binding lipgloss.Style
	panel   lipgloss.Style
}

var styles = newTheme(
	lipgloss.Color("#D97706"),
	lipgloss.Color("#10B981"),
	lipgloss.Color("#EF4444"),
	lipgloss.Color("#F59E0B"),
	lipgloss.Color("#6B7280"),
)

func newTheme(accent, success, failure, highlight, muted lipgloss.Color) theme {
	return theme{
		prompt:  lipgloss.NewStyle().Foreground(accent).Bold(true),
		result:  lipgloss.NewStyle().Foreground(success),
		err:     lipgloss.NewStyle().Foreground(failure),
		warning: lipgloss.NewStyle().Foreground(highlight),
		muted:   lipgloss.NewStyle().Foreground(muted),
		header:  lipgloss.NewStyle().Foreground(accent).Bold(true).Padding(0, 1),
		title:   lipgloss.NewStyle().Foreground(accent).Bold(true),
		helpKey: lipgloss.NewStyle().Foreground(highlight),
		binding: lipgloss.NewStyle().Foreground(highlight),
		panel:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1),
	}
}

var replHelp = []struct {
	key  string
	desc string
}{
	{"↑/↓", "Navigate entry history"},
	{"Tab", "Autocomplete"},
	{"Enter", "Run entry"},
	{":help", "Toggle this help"},
	{":items", "Toggle the session panel"},
	{":clear", "Clear history"},
	{":reset", "Forget items and bindings"},
	{":quit", "Exit REPL"},
}

func (m replModel) View() string {
	if !m.initialized {
		return "Loading..."
	}
	if m.quitting {
		return styles.muted.Render("Goodbye!\n")
	}

	var panels []string
	reserved := 8
	if m.showItems {
		panels = append(panels, renderItemsPanel(m.session))
		reserved += len(m.session.items) + len(m.session.bindings) + 4
	}
	if m.showHelp {
		panels = append(panels, renderHelpPanel())
		reserved += len(replHelp) + 3
	}

	var b strings.Builder
	b.WriteString(styles.header.Render("ruster REPL") + "\n")
	b.WriteString(styles.muted.Render(strings.Repeat("─", max(min(m.width-2, 60), 0))) + "\n\n")

	visible := m.history[max(len(m.history)-max(m.height-reserved, 1), 0):]
	for _, entry := range visible {
		b.WriteString(renderEntry(entry))
	}
	for _, panel := range panels {
		b.WriteString(panel + "\n")
	}

	b.WriteString(m.textInput.View() + "\n\n")
	b.WriteString(renderFooter(keys.Help, keys.Clear, keys.Quit))
	return b.String()
}

func renderEntry(entry historyEntry) string {
	var b strings.Builder
	if entry.input != "" {
		b.WriteString(styles.muted.Render("  › ") + entry.input + "\n")
	}
	// Program output may span several lines; keep them under the marker.
	output := strings.ReplaceAll(entry.output, "\n", "\n    ")
	if entry.isErr {
		b.WriteString("  " + styles.err.Render("✗ "+output) + "\n\n")
	} else {
		b.WriteString("  " + styles.result.Render("→ "+output) + "\n\n")
	}
	return b.String()
}

func renderFooter(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, styles.helpKey.Render(h.Key)+styles.muted.Render(" "+h.Desc))
	}
	return strings.Join(parts, "  ")
}

func renderItemsPanel(s session) string {
	if len(s.items) == 0 && len(s.bindings) == 0 {
		return styles.panel.Render(styles.muted.Render("Nothing defined"))
	}

	lines := []string{styles.title.Render("Session")}
	for _, item := range s.items {
		lines = append(lines, "  "+item)
	}
	for _, binding := range s.bindings {
		lines = append(lines, "  "+styles.binding.Render(binding))
	}
	return styles.panel.Render(strings.Join(lines, "\n"))
}

func renderHelpPanel() string {
	lines := []string{styles.title.Render("Help")}
	for _, h := range replHelp {
		lines = append(lines, fmt.Sprintf("  %s  %s",
			styles.helpKey.Render(fmt.Sprintf("%-8s", h.key)),
			styles.muted.Render(h.desc)))
	}
	return styles.panel.Render(strings.Join(lines, "\n"))
}
