// Package tui provides the interactive plan review terminal UI.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/laneplan/internal/domain"
	"github.com/felixgeelhaar/laneplan/internal/graph"
	"github.com/felixgeelhaar/laneplan/internal/lane"
	"github.com/felixgeelhaar/laneplan/internal/task"
)

// ReviewResult holds the result of a plan review session
type ReviewResult struct {
	Approved bool
	Reason   string
}

// reviewModel is the BubbleTea model for plan review
type reviewModel struct {
	graph         *graph.Graph
	lanes         []lane.Lane
	tasks         []task.Task
	critical      map[domain.TaskID]bool
	criticalDays  float64
	cursor        int
	selectedTask  int
	viewMode      string // "list" or "detail"
	approved      *bool  // nil = not decided, true/false = approved/rejected
	reasonInput   textinput.Model
	editingReason bool
	result        *ReviewResult
	width         int
	height        int
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginLeft(2)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("170")).
				Bold(true).
				PaddingLeft(2)

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(4)

	criticalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	detailKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true)

	detailValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginLeft(2).
			MarginTop(1)

	approveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	rejectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
)

func newReviewModel(g *graph.Graph, lanes []lane.Lane) reviewModel {
	path, days := g.CriticalPath()
	critical := make(map[domain.TaskID]bool, len(path))
	for _, id := range path {
		critical[id] = true
	}

	input := textinput.New()
	input.Placeholder = "reason for rejection"
	input.CharLimit = 200

	return reviewModel{
		graph:        g,
		lanes:        lanes,
		tasks:        g.Tasks(),
		critical:     critical,
		criticalDays: days,
		viewMode:     "list",
		reasonInput:  input,
	}
}

// Init initializes the model
func (m reviewModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// If editing rejection reason
		if m.editingReason {
			switch msg.String() {
			case "enter":
				m.editingReason = false
				m.reasonInput.Blur()
				m.result = &ReviewResult{
					Approved: false,
					Reason:   m.reasonInput.Value(),
				}
				return m, tea.Quit
			case "esc":
				m.editingReason = false
				m.reasonInput.Blur()
				m.reasonInput.SetValue("")
				m.approved = nil
				return m, nil
			default:
				var cmd tea.Cmd
				m.reasonInput, cmd = m.reasonInput.Update(msg)
				return m, cmd
			}
		}

		// Regular navigation
		switch msg.String() {
		case "ctrl+c", "q":
			if m.approved == nil {
				// Default to rejected if not decided
				approved := false
				m.approved = &approved
				m.result = &ReviewResult{
					Approved: false,
					Reason:   "Review cancelled",
				}
			}
			return m, tea.Quit

		case "up", "k":
			if m.viewMode == "list" && m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "j":
			if m.viewMode == "list" && m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
			return m, nil

		case "enter", "right", "l":
			if m.viewMode == "list" {
				m.selectedTask = m.cursor
				m.viewMode = "detail"
			}
			return m, nil

		case "left", "h", "esc":
			if m.viewMode == "detail" {
				m.viewMode = "list"
			}
			return m, nil

		case "a", "A":
			approved := true
			m.approved = &approved
			m.result = &ReviewResult{
				Approved: true,
				Reason:   "",
			}
			return m, tea.Quit

		case "r", "R":
			// Reject plan, prompt for reason
			rejected := false
			m.approved = &rejected
			m.editingReason = true
			return m, m.reasonInput.Focus()
		}
	}

	return m, nil
}

// View renders the current state
func (m reviewModel) View() string {
	if m.result != nil {
		if m.result.Approved {
			return approveStyle.Render("\n✓ Plan Approved\n\n")
		}
		reason := m.result.Reason
		if reason == "" {
			reason = "No reason provided"
		}
		return rejectStyle.Render(fmt.Sprintf("\n✗ Plan Rejected\n  Reason: %s\n\n", reason))
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("📋 Plan Review"))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render(fmt.Sprintf("Tasks: %d | Lanes: %d | Critical path: %.1f days",
		len(m.tasks), len(m.lanes), m.criticalDays)))
	b.WriteString("\n\n")

	if m.viewMode == "list" {
		for i, t := range m.tasks {
			style := itemStyle
			cursor := "  "
			if i == m.cursor {
				style = selectedItemStyle
				cursor = "→ "
			}

			marker := " "
			if m.critical[t.ID] {
				marker = criticalStyle.Render("*")
			}

			line := fmt.Sprintf("%s%s %s %s (%s) | %s",
				cursor,
				marker,
				t.ID,
				t.Title,
				t.Size,
				t.Status,
			)
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
	} else {
		t := m.tasks[m.selectedTask]
		b.WriteString(headerStyle.Render(fmt.Sprintf("Task %d of %d", m.selectedTask+1, len(m.tasks))))
		b.WriteString("\n\n")

		onCritical := "no"
		if m.critical[t.ID] {
			onCritical = "yes"
		}

		details := []struct {
			key   string
			value string
		}{
			{"ID", t.ID.String()},
			{"Title", t.Title},
			{"Size", fmt.Sprintf("%s (%s days)", t.Size, formatDays(t.Size.Days()))},
			{"Status", t.Status.String()},
			{"Critical Path", onCritical},
			{"Dependencies", fmt.Sprintf("%d tasks", len(t.DependsOn))},
		}

		for _, detail := range details {
			b.WriteString("  ")
			b.WriteString(detailKeyStyle.Render(fmt.Sprintf("%-15s:", detail.key)))
			b.WriteString(" ")
			b.WriteString(detailValueStyle.Render(detail.value))
			b.WriteString("\n")
		}

		if len(t.DependsOn) > 0 {
			b.WriteString("\n  ")
			b.WriteString(detailKeyStyle.Render("Depends On:"))
			b.WriteString("\n")
			for _, dep := range t.DependsOn {
				b.WriteString(fmt.Sprintf("    • %s\n", dep))
			}
		}

		if unblocks := m.graph.UnblocksOf(t.ID); len(unblocks) > 0 {
			b.WriteString("\n  ")
			b.WriteString(detailKeyStyle.Render("Unblocks:"))
			b.WriteString("\n")
			for _, id := range unblocks {
				b.WriteString(fmt.Sprintf("    • %s\n", id))
			}
		}
	}

	b.WriteString("\n")

	if m.editingReason {
		b.WriteString(rejectStyle.Render("✗ Rejection Reason:"))
		b.WriteString("\n  ")
		b.WriteString(m.reasonInput.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter: submit | esc: cancel"))
	} else {
		if m.viewMode == "list" {
			b.WriteString(helpStyle.Render("↑/↓: navigate | enter: view details | a: approve | r: reject | q: quit"))
		} else {
			b.WriteString(helpStyle.Render("h/esc: back to list | a: approve | r: reject | q: quit"))
		}
	}

	return b.String()
}

func formatDays(d float64) string {
	s := fmt.Sprintf("%.1f", d)
	return strings.TrimSuffix(s, ".0")
}

// RunReview launches an interactive TUI for reviewing an execution plan
func RunReview(g *graph.Graph, lanes []lane.Lane) (*ReviewResult, error) {
	if g.Len() == 0 {
		// Auto-approve empty plans
		return &ReviewResult{Approved: true}, nil
	}

	model := newReviewModel(g, lanes)

	program := tea.NewProgram(model)
	finalModel, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("running plan review UI: %w", err)
	}

	m, ok := finalModel.(reviewModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type: %T", finalModel)
	}

	if m.result != nil {
		return m.result, nil
	}

	return &ReviewResult{
		Approved: false,
		Reason:   "Unknown error",
	}, nil
}
