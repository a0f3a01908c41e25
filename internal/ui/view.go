package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cellgit/BearBasic/internal/dispatch"
	"github.com/cellgit/BearBasic/internal/envelope"
)

func (m Model) renderMain() string {
	styles := m.theme.Styles()
	body := styles.Body.
		Width(max(m.width-2, 1)).
		Render(m.viewport.View())
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(styles),
		body,
		m.renderFooter(styles),
	)
}

func (m Model) renderHeader(styles Styles) string {
	parts := []string{styles.Logo.Render("bear")}
	if m.title != "" {
		parts = append(parts, styles.Accent.Render(m.title))
	}

	snap := m.snapshot
	switch {
	case snap.Polls == 0:
		parts = append(parts, styles.Warning.Render("Waiting for first response..."))
	case snap.LastError != nil && snap.IsOffline():
		parts = append(parts, styles.Danger.Render("● FAILING"), styles.Muted.Render(fmt.Sprintf("x%d", snap.ConsecutiveFailures)))
	case snap.LastError != nil:
		parts = append(parts, styles.Warning.Render("● RETRYING"))
	default:
		parts = append(parts, styles.Success.Render("● OK"))
	}
	if !m.lastUpdated.IsZero() {
		parts = append(parts, styles.Muted.Render(m.lastUpdated.Format("15:04:05")))
	}
	return styles.Header.Width(m.width).Render(strings.Join(parts, "  "))
}

func (m Model) renderFooter(styles Styles) string {
	text := fmt.Sprintf("%s  polls %d  theme %s  h help  q quit", m.baseURL, m.snapshot.Polls, m.theme.Name)
	return styles.Footer.Width(m.width).Render(strings.TrimSpace(text))
}

// renderBody shows the last error, if any, above the last good data.
func (m Model) renderBody() string {
	styles := m.theme.Styles()
	snap := m.snapshot

	var b strings.Builder
	if snap.LastError != nil {
		b.WriteString(styles.Danger.Render(describeError(snap.LastError)))
		b.WriteString("\n\n")
	}
	if !snap.HasData {
		b.WriteString(styles.Muted.Render("No data yet."))
		return b.String()
	}
	if snap.Message != "" {
		b.WriteString(styles.Muted.Render("message: " + snap.Message))
		b.WriteString("\n")
	}
	b.WriteString(formatData(snap.Data))
	return b.String()
}

func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Logo.Render("Keys"))
	b.WriteString("\n\n")
	for _, binding := range keys.bindings() {
		help := binding.Help()
		fmt.Fprintf(&b, "%s  %s\n", styles.Accent.Render(fmt.Sprintf("%-8s", help.Key)), styles.Text.Render(help.Desc))
	}
	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("Press any key to close"))
	return b.String()
}

// describeError turns a poll failure into one line, adding the localized
// description for known business codes.
func describeError(err error) string {
	var business *envelope.BusinessError
	if errors.As(err, &business) {
		return fmt.Sprintf("business error %d: %s", business.Code, dispatch.Describe(business.Code, business.Message))
	}
	var transport *envelope.TransportError
	if errors.As(err, &transport) {
		return fmt.Sprintf("HTTP %d: %s", transport.Code, transport.Message)
	}
	if errors.Is(err, envelope.ErrFormat) {
		return "malformed response: " + err.Error()
	}
	return "request failed: " + err.Error()
}

func formatData(data any) string {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("<unprintable data: %v>", err)
	}
	return string(raw)
}
