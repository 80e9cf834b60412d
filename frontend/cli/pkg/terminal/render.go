// Package terminal renders engine output for an interactive shell.
package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/munishbansal2000/layla-sub008/backend/assistant"
	"github.com/munishbansal2000/layla-sub008/backend/constraint"
	"github.com/munishbansal2000/layla-sub008/backend/validate"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	boldStyle    = lipgloss.NewStyle().Bold(true)
)

// RenderReply formats one assistant turn.
func RenderReply(reply *assistant.Reply) string {
	var b strings.Builder

	if reply.Rejected {
		b.WriteString(errorStyle.Render("✗ " + reply.Message))
	} else {
		b.WriteString(reply.Message)
	}
	b.WriteString("\n")

	for _, adjustment := range reply.AutoAdjustments {
		fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("·"), adjustment)
	}
	if reply.MinutesSaved > 0 {
		fmt.Fprintf(&b, "  %s\n", successStyle.Render(fmt.Sprintf("≈%d minutes of commuting saved", reply.MinutesSaved)))
	}

	for i, suggestion := range reply.Suggestions {
		fmt.Fprintf(&b, "  %d. %s", i+1, boldStyle.Render(suggestion.Activity.Name))
		if suggestion.Activity.Category != "" {
			fmt.Fprintf(&b, " %s", dimStyle.Render("("+suggestion.Activity.Category+")"))
		}
		b.WriteString("\n")
	}

	for _, action := range reply.SuggestedActions {
		fmt.Fprintf(&b, "  %s try: %s\n", dimStyle.Render("→"), action.Type)
	}

	if reply.Clarification != nil {
		for _, option := range reply.Clarification.Options {
			fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("-"), option.Label)
		}
	}

	if reply.Analysis != nil {
		if warnings := renderWarnings(reply.Analysis); warnings != "" {
			b.WriteString(warnings)
		}
	}

	return b.String()
}

func renderWarnings(analysis *constraint.Analysis) string {
	var b strings.Builder
	for _, issue := range analysis.Violations {
		if issue.Severity != constraint.SeverityWarning {
			continue
		}
		fmt.Fprintf(&b, "  %s %s\n", warnStyle.Render("!"), issue.Message)
	}
	return b.String()
}

// RenderReport formats a batch validation report.
func RenderReport(report *validate.Report) string {
	var b strings.Builder

	if report.Valid {
		b.WriteString(successStyle.Render("✓ itinerary is valid"))
	} else {
		b.WriteString(errorStyle.Render("✗ itinerary has blocking issues"))
	}
	fmt.Fprintf(&b, " %s\n", dimStyle.Render("("+report.Summary+")"))

	for _, issue := range report.Issues {
		marker := infoStyle.Render("·")
		switch issue.Severity {
		case constraint.SeverityError:
			marker = errorStyle.Render("✗")
		case constraint.SeverityWarning:
			marker = warnStyle.Render("!")
		}
		location := fmt.Sprintf("day %d", issue.Day)
		if issue.Slot != "" {
			location += " " + issue.Slot
		}
		fmt.Fprintf(&b, "  %s [%s] %s\n", marker, dimStyle.Render(location), issue.Message)
	}

	return b.String()
}

// RenderChanges formats a remediation change log.
func RenderChanges(changes []validate.Change) string {
	if len(changes) == 0 {
		return successStyle.Render("✓ nothing to repair") + "\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", boldStyle.Render(fmt.Sprintf("%d changes applied", len(changes))))
	for _, change := range changes {
		fmt.Fprintf(&b, "  %s %s %s\n",
			successStyle.Render("✓"),
			dimStyle.Render(change.Step),
			change.Description)
	}
	return b.String()
}
