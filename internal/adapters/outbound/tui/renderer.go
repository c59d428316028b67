package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/driftcheck/driftcheck/internal/domain"
)

// ── Claude-inspired warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	matchStyle    = lipgloss.NewStyle().Foreground(success)
	mismatchStyle = lipgloss.NewStyle().Foreground(danger)
	partialStyle  = lipgloss.NewStyle().Foreground(warning)
	missingStyle  = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderReport renders a validation report as a styled terminal string.
func RenderReport(report *domain.Report) string {
	var b strings.Builder

	// ── Header ──
	title := headerStyle.Render("driftcheck")
	subtitle := dimStyle.Render("Snapshot Validation")
	verdict := renderVerdict(report)
	ratio := dimStyle.Render(fmt.Sprintf("mismatch ratio %.2f", report.Meta.MismatchRatio))

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + verdict + "\n" + ratio))
	b.WriteString("\n\n")

	// ── Summary ──
	s := report.Summary
	b.WriteString("  " + titleStyle.Render("Fields") + "  " +
		dimStyle.Render(fmt.Sprintf("%d total", s.TotalFields)) + "  " +
		matchStyle.Render(fmt.Sprintf("%d match", s.Matches)) + "  " +
		partialStyle.Render(fmt.Sprintf("%d partial", s.Partials)) + "  " +
		mismatchStyle.Render(fmt.Sprintf("%d mismatch", s.Mismatches)) + "  " +
		missingStyle.Render(fmt.Sprintf("%d missing", s.Missing)))
	b.WriteString("\n\n")

	// ── Per-field results ──
	for _, r := range report.Results {
		renderField(&b, r)
	}

	// ── Warnings ──
	if len(report.Meta.Warnings) > 0 {
		b.WriteString("\n")
		b.WriteString("  " + separatorLine + "\n\n")
		b.WriteString("  " + warnTagStyle.Render("Warnings") + "\n")
		for _, w := range report.Meta.Warnings {
			b.WriteString("    " + partialStyle.Render("●") + " " + w + "\n")
		}
	}

	return b.String()
}

func renderVerdict(report *domain.Report) string {
	if report.Meta.LikelyWrongYAML {
		return lipgloss.NewStyle().Bold(true).Foreground(danger).
			Render("LIKELY WRONG CATALOG")
	}
	if report.Summary.Mismatches+report.Summary.Missing > 0 {
		return lipgloss.NewStyle().Bold(true).Foreground(warning).
			Render("DRIFT DETECTED")
	}
	return lipgloss.NewStyle().Bold(true).Foreground(success).
		Render("IN COMPLIANCE")
}

func renderField(b *strings.Builder, r domain.FieldResult) {
	glyph, style := statusGlyph(r.Status)
	line := fmt.Sprintf("  %s %s", style.Render(glyph), titleStyle.Render(r.Field))
	b.WriteString(line + "\n")

	switch r.Status {
	case domain.StatusMatch:
		b.WriteString("      " + dimStyle.Render(r.Actual) + "\n")
	case domain.StatusMissing:
		b.WriteString("      " + dimStyle.Render("absent") +
			faintStyle.Render("  expected "+strings.Join(r.Expected, " | ")) + "\n")
	default:
		b.WriteString(fmt.Sprintf("      %s %s %s\n",
			mismatchStyle.Render(r.Actual),
			faintStyle.Render("expected"),
			dimStyle.Render(strings.Join(r.Expected, " | "))))
		if r.ClosestMatch != "" {
			b.WriteString("      " + faintStyle.Render(
				fmt.Sprintf("closest: %s (%.2f)", r.ClosestMatch, r.Similarity)) + "\n")
		}
	}
}

func statusGlyph(s domain.Status) (string, lipgloss.Style) {
	switch s {
	case domain.StatusMatch:
		return "✓", matchStyle
	case domain.StatusPartial:
		return "◐", partialStyle
	case domain.StatusMissing:
		return "∅", missingStyle
	default:
		return "✗", mismatchStyle
	}
}

// RenderHistory renders stored audit sessions, newest first.
func RenderHistory(records []domain.AuditRecord) string {
	if len(records) == 0 {
		return dimStyle.Render("  no recorded sessions") + "\n"
	}

	var b strings.Builder
	b.WriteString("  " + titleStyle.Render("Validation History") + "\n\n")
	for _, rec := range records {
		verdict := matchStyle.Render("ok")
		if rec.LikelyWrongYAML {
			verdict = mismatchStyle.Render("wrong catalog?")
		} else if rec.Summary.Mismatches+rec.Summary.Missing > 0 {
			verdict = partialStyle.Render("drift")
		}

		commit := ""
		if rec.CommitHash != "" {
			commit = "  " + faintStyle.Render(shortHash(rec.CommitHash))
		}

		b.WriteString(fmt.Sprintf("  %s  %s  %s%s\n",
			dimStyle.Render(rec.CreatedAt.Format("2006-01-02 15:04")),
			fmt.Sprintf("%d/%d ok", rec.Summary.Matches, rec.Summary.TotalFields),
			verdict,
			commit,
		))
	}
	return b.String()
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
