package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwaldner/deployctl/internal/config"
	"github.com/mwaldner/deployctl/internal/manifest"
)

var (
	summaryTitleStyle = lipgloss.NewStyle().Bold(true)
	summaryKeyStyle   = lipgloss.NewStyle().Faint(true).Width(9)
	summaryWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// confirmPrompt asks a single yes/no question on the terminal. Ctrl-C
// counts as a plain "no": a deliberate abort is not an error.
func confirmPrompt(title string) (bool, error) {
	var confirmed bool

	prompt := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed)

	if err := prompt.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}

	return confirmed, nil
}

// renderRefreshSummary renders the plan shown before the confirmation
// prompt: what will be refreshed, from where, and what gets stopped.
func renderRefreshSummary(m *manifest.Manifest, cfg *config.RefreshConfig) string {
	var b strings.Builder

	b.WriteString(summaryTitleStyle.Render(fmt.Sprintf("Refresh %s %s", m.Name, m.Version)))
	b.WriteString("\n")

	row := func(key, value string) {
		b.WriteString(summaryKeyStyle.Render(key))
		b.WriteString(" ")
		b.WriteString(value)
		b.WriteString("\n")
	}

	row("branch", cfg.Branch)
	row("target", "origin/"+cfg.Branch)
	if cfg.Service != "" {
		row("service", cfg.Service+" (will be stopped)")
	}
	if cfg.StashBeforeRefresh {
		row("stash", "tracked changes before reset")
	} else {
		row("stash", "disabled")
	}

	b.WriteString(summaryWarnStyle.Render("Local commits and tracked changes will be discarded."))

	return b.String()
}
