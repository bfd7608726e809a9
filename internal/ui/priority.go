package ui

import (
	"github.com/amonks/taskboard/task"
	"github.com/charmbracelet/lipgloss"
)

var priorityColors = map[task.Priority]lipgloss.Color{
	task.PriorityOverdue: lipgloss.Color("196"), // bright red
	task.PriorityHigh:    lipgloss.Color("208"), // orange
	task.PriorityMedium:  lipgloss.Color("75"),  // blue
	task.PriorityLow:     lipgloss.Color("114"), // green
	task.PriorityNone:    lipgloss.Color("245"), // gray
}

// PriorityColor returns the terminal color for a priority label.
func PriorityColor(p task.Priority) lipgloss.Color {
	if color, ok := priorityColors[p]; ok {
		return color
	}
	return priorityColors[task.PriorityNone]
}

// FormatPriority renders a priority label, colored when stdout allows it.
func FormatPriority(p task.Priority) string {
	label := string(p)
	if !ColorEnabled() {
		return label
	}
	style := lipgloss.NewStyle().Foreground(PriorityColor(p))
	if p.IsUrgent() {
		style = style.Bold(true)
	}
	return style.Render(label)
}
