package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/rewake/internal/spindle"
	"github.com/five82/rewake/internal/trigger"
)

// View implements tea.Model.
func (m Model) View() string {
	styles := m.theme.Styles()

	sections := []string{
		m.renderHeader(styles),
		m.renderQueue(styles),
		m.renderTrigger(styles),
		m.renderHelp(styles),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(styles Styles) string {
	parts := []string{styles.Logo.Render("rewake"), styles.MutedText.Render(m.apiBind)}

	snap := m.snapshot
	switch {
	case snap.LastError != nil && snap.IsOffline():
		parts = append(parts,
			m.spinner.View(),
			styles.DangerText.Render("SPINDLE "+classifyConnectionError(snap.LastError)))
	case snap.LastError != nil:
		parts = append(parts, styles.WarningText.Render("retrying"))
	case !snap.HasStatus:
		parts = append(parts, m.spinner.View(), styles.MutedText.Render("connecting"))
	case snap.Status.Running:
		parts = append(parts, styles.SuccessText.Render(fmt.Sprintf("running pid %d", snap.Status.PID)))
	default:
		parts = append(parts, styles.WarningText.Render("stopped"))
	}

	if !snap.LastUpdated.IsZero() {
		parts = append(parts, styles.MutedText.Render("updated "+snap.LastUpdated.Format("15:04:05")))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderQueue(styles Styles) string {
	counts := spindle.CountByStatus(m.snapshot.Queue)
	var lines []string
	if len(counts) == 0 {
		lines = append(lines, styles.MutedText.Render("queue empty"))
	}
	for _, c := range counts {
		lines = append(lines, styles.Label.Render(c.Status)+m.theme.StatusStyle(c.Status).Render(fmt.Sprintf("%d", c.Count)))
	}
	if msg := strings.TrimSpace(m.snapshot.Status.Workflow.LastError); msg != "" {
		lines = append(lines, styles.DangerText.Render(truncate(msg, 72)))
	}
	return m.panel(styles, "Queue", lines)
}

func (m Model) renderTrigger(styles Styles) string {
	stats := m.stats
	focus := styles.SuccessText.Render(m.lifecycle.String())
	if m.lifecycle != trigger.Active {
		focus = styles.WarningText.Render(m.lifecycle.String())
	}

	network := styles.MutedText.Render("idle")
	switch {
	case stats.NetworkArmed:
		network = styles.WarningText.Render("watching for recovery")
	case stats.PendingProbes > 0:
		network = styles.InfoText.Render("probing")
	}

	last := styles.MutedText.Render("none yet")
	if stats.Fetches > 0 {
		last = styles.Text.Render(fmt.Sprintf("%s at %s (%d total)",
			stats.LastReason, stats.LastFetch.Format("15:04:05"), stats.Fetches))
	}

	lines := []string{
		styles.Label.Render("focus") + focus,
		styles.Label.Render("network") + network,
		styles.Label.Render("triggered") + last,
		styles.Label.Render("refreshes") + styles.Text.Render(fmt.Sprintf("%d (last: %s)", m.snapshot.Refreshes, orDash(string(m.snapshot.LastReason)))),
	}
	return m.panel(styles, "Refresh", lines)
}

func (m Model) renderHelp(styles Styles) string {
	var hints []string
	for _, b := range m.keys.bindings() {
		h := b.Help()
		hints = append(hints, styles.AccentText.Render(h.Key)+" "+styles.MutedText.Render(h.Desc))
	}
	return strings.Join(hints, "  ")
}

func (m Model) panel(styles Styles, title string, lines []string) string {
	body := styles.AccentText.Render(title) + "\n" + strings.Join(lines, "\n")
	style := styles.Panel
	if m.width > 4 {
		style = style.Width(m.width - 2)
	}
	return style.Render(body)
}

// classifyConnectionError maps refresh errors to short header labels.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case strings.Contains(msg, "network is unreachable"):
		return "NO NETWORK"
	default:
		return "ERROR"
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

