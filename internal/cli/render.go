package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"app-time-tracker/internal/domain"
	"app-time-tracker/internal/services"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4A90E2"))

	totalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F7DC6F")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 1)
)

const minBarWidth = 10

// padRight pads s with spaces to width terminal cells.
func padRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func padLeft(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return strings.Repeat(" ", gap) + s
	}
	return s
}

func progressBar(share float64, width int) string {
	if share < 0 {
		share = 0
	}
	if share > 1 {
		share = 1
	}
	filled := int(share*float64(width) + 0.5)
	return barStyle.Render(strings.Repeat("█", filled) + strings.Repeat("░", width-filled))
}

// renderReport draws a project's per-app breakdown inside a box.
func renderReport(report *domain.ProjectReport, width int) string {
	title := titleStyle.Render(fmt.Sprintf("%s [%s]", report.Project.Name, report.Project.Status))

	if len(report.Apps) == 0 {
		body := mutedStyle.Render("No time recorded yet.")
		return lipgloss.JoinVertical(lipgloss.Left, title, boxStyle.Render(body))
	}

	nameWidth := lipgloss.Width("Application")
	for _, app := range report.Apps {
		if w := lipgloss.Width(app.AppName); w > nameWidth {
			nameWidth = w
		}
	}
	const timeWidth, shareWidth = 8, 7
	barWidth := width - nameWidth - timeWidth - shareWidth - 8
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}

	lines := []string{headerStyle.Render(
		padRight("Application", nameWidth) + "  " + padLeft("Time", timeWidth) + "  " + padLeft("Share", shareWidth),
	)}
	for _, app := range report.Apps {
		share := 0.0
		if report.TotalSeconds > 0 {
			share = app.Seconds / report.TotalSeconds
		}
		lines = append(lines, padRight(app.AppName, nameWidth)+"  "+
			padLeft(services.FormatSeconds(app.Seconds), timeWidth)+"  "+
			padLeft(fmt.Sprintf("%.1f%%", share*100), shareWidth)+"  "+
			progressBar(share, barWidth))
	}
	lines = append(lines, "", totalStyle.Render(fmt.Sprintf("Total: %s (%.2f h)",
		services.FormatSeconds(report.TotalSeconds), report.TotalHours())))

	return lipgloss.JoinVertical(lipgloss.Left, title, boxStyle.Render(strings.Join(lines, "\n")))
}

// renderSessions lists individual sessions in start order.
func renderSessions(sessions []domain.TimeSession, format func(time.Time) string) string {
	if len(sessions) == 0 {
		return mutedStyle.Render("No sessions recorded.")
	}

	nameWidth := lipgloss.Width("Application")
	for _, s := range sessions {
		if w := lipgloss.Width(s.AppName); w > nameWidth {
			nameWidth = w
		}
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(padRight("Application", nameWidth) + "  Start / End"))
	for _, s := range sessions {
		b.WriteString("\n")
		b.WriteString(padRight(s.AppName, nameWidth))
		b.WriteString("  ")
		b.WriteString(format(s.StartTime))
		b.WriteString(" - ")
		b.WriteString(format(s.EndTime))
		b.WriteString("  ")
		b.WriteString(mutedStyle.Render(services.FormatSeconds(s.DurationSeconds)))
	}
	return b.String()
}

// renderProjects draws the project listing.
func renderProjects(summaries []services.ProjectSummary, now time.Time) string {
	if len(summaries) == 0 {
		return mutedStyle.Render("No projects yet. Create one with: att project create <name>")
	}

	nameWidth := lipgloss.Width("Project")
	for _, s := range summaries {
		if w := lipgloss.Width(s.Project.Name); w > nameWidth {
			nameWidth = w
		}
	}
	const idWidth, statusWidth, timeWidth = 4, 8, 8

	lines := []string{headerStyle.Render(
		padLeft("ID", idWidth) + "  " + padRight("Project", nameWidth) + "  " +
			padRight("Status", statusWidth) + "  " + padLeft("Total", timeWidth) + "  Last tracked",
	)}
	for _, s := range summaries {
		last := "never"
		if !s.LastTracked.IsZero() {
			last = humanize.RelTime(s.LastTracked, now, "ago", "from now")
		}
		lines = append(lines, padLeft(fmt.Sprint(s.Project.ID), idWidth)+"  "+
			padRight(s.Project.Name, nameWidth)+"  "+
			padRight(string(s.Project.Status), statusWidth)+"  "+
			padLeft(services.FormatSeconds(s.TotalSeconds), timeWidth)+"  "+
			mutedStyle.Render(last))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}
