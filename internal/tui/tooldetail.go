package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"trawl/internal/importer"
	"trawl/internal/models"
)

// renderToolDetail renders the fetched tool record with its version list.
func renderToolDetail(state importer.State, versionIdx, height int) string {
	if state.Fetching {
		return "\n  Fetching tool...\n"
	}
	if state.Tool == nil {
		if state.Err != "" {
			return ""
		}
		return "\n  " + helpStyle.Render("Enter a tool id to look it up.") + "\n"
	}

	var b strings.Builder
	t := state.Tool

	name := t.Name
	if name == "" {
		name = t.ID
	}
	b.WriteString(fmt.Sprintf("\n  %s\n", lipgloss.NewStyle().Bold(true).Render(name)))
	b.WriteString(fmt.Sprintf("  ID: %s\n", t.ID))
	if t.Organization != "" {
		b.WriteString(fmt.Sprintf("  Organization: %s\n", t.Organization))
	}
	if t.ToolClass.Name != "" {
		b.WriteString(fmt.Sprintf("  Type: %s\n", t.ToolClass.Name))
	}
	if t.Description != "" {
		desc := t.Description
		if len(desc) > 200 {
			desc = desc[:197] + "..."
		}
		b.WriteString(fmt.Sprintf("  %s\n", lipgloss.NewStyle().Foreground(mutedColor).Render(desc)))
	}

	if len(t.Versions) == 0 {
		b.WriteString("\n  " + helpStyle.Render("No versions published.") + "\n")
		return b.String()
	}

	b.WriteString("\n  Versions:\n")
	visible := t.Versions
	// Keep the selected version on screen when the list is long.
	maxRows := height - 8
	if maxRows > 2 && len(visible) > maxRows {
		start := versionIdx - maxRows/2
		if start < 0 {
			start = 0
		}
		end := start + maxRows
		if end > len(visible) {
			end = len(visible)
			start = end - maxRows
		}
		visible = visible[start:end]
		versionIdx -= start
	}

	for i, v := range visible {
		line := fmt.Sprintf("%s %s", v.ID, versionBadges(v))
		if i == versionIdx {
			b.WriteString(selectedStyle.Render("▶ "+line) + "\n")
		} else {
			b.WriteString(itemStyle.Render("  "+line) + "\n")
		}
	}

	return b.String()
}

func versionBadges(v models.ToolVersion) string {
	var badges []string
	if len(v.DescriptorTypes) > 0 {
		badges = append(badges, lipgloss.NewStyle().Foreground(mutedColor).Render(strings.Join(v.DescriptorTypes, ",")))
	}
	if v.IsProduction {
		badges = append(badges, lipgloss.NewStyle().Foreground(successColor).Render("production"))
	}
	if v.Verified {
		badges = append(badges, lipgloss.NewStyle().Foreground(warningColor).Render("verified"))
	}
	return strings.Join(badges, " ")
}
