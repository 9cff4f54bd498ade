package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"trawl/internal/models"
)

// renderServerList renders the TRS server picker.
func renderServerList(servers []models.TRSServer, selectedIdx int) string {
	var b strings.Builder

	b.WriteString("\n  Select a Tool Registry Server\n")
	b.WriteString("  " + strings.Repeat("─", 40) + "\n\n")

	if len(servers) == 0 {
		b.WriteString("  No servers configured.\n")
		b.WriteString("  Run: trawl servers add <name> <url>\n")
		return b.String()
	}

	for i, server := range servers {
		label := server.DisplayName()
		urlLabel := lipgloss.NewStyle().Foreground(mutedColor).Render(server.BaseURL)

		if i == selectedIdx {
			b.WriteString(selectedStyle.Render(fmt.Sprintf("▶ %s", label)) + "\n")
			b.WriteString(lipgloss.NewStyle().Foreground(mutedColor).Render(fmt.Sprintf("      %s", server.BaseURL)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("  %s  %s", label, urlLabel)) + "\n")
		}
	}

	b.WriteString("\n  " + helpStyle.Render("Enter selects a server; typing a tool id then fetches it") + "\n")
	return b.String()
}
