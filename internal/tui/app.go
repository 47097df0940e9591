package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pablasso/quill/internal/tui/msgs"
	"github.com/pablasso/quill/internal/tui/styles"
	"github.com/pablasso/quill/internal/tui/views"
)

// Minimum terminal dimensions for the comment panel to render properly.
const (
	MinTerminalWidth  = 60
	MinTerminalHeight = 15
)

// Model is the main Bubble Tea model. It owns the task list and hands the
// current task to the comment panel.
type Model struct {
	tasks    []string
	index    int
	comments views.CommentsModel

	width  int
	height int
}

// Run starts the TUI application.
func Run(opts Options) error {
	if opts.Store == nil {
		return errors.New("tui: a comment store is required")
	}
	if len(opts.Tasks) == 0 {
		return errors.New("tui: at least one task is required")
	}

	p := tea.NewProgram(
		initialModel(opts),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

func initialModel(opts Options) Model {
	m := Model{tasks: dedupe(opts.Tasks)}

	first := ""
	if len(m.tasks) > 0 {
		first = m.tasks[0]
	}
	m.comments = views.NewCommentsModel(views.CommentsConfig{
		Store:   opts.Store,
		TaskID:  first,
		Author:  opts.Author,
		Context: opts.Context,
	})
	m.comments.SetPosition(0, len(m.tasks))
	return m
}

func dedupe(tasks []string) []string {
	seen := make(map[string]bool, len(tasks))
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.comments.Init()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.comments.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if !m.comments.CapturingInput() {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "]":
				return m, func() tea.Msg { return msgs.NextTaskMsg{} }
			case "[":
				return m, func() tea.Msg { return msgs.PrevTaskMsg{} }
			}
		}

	case msgs.NextTaskMsg:
		return m.selectIndex(m.index + 1)

	case msgs.PrevTaskMsg:
		return m.selectIndex(m.index - 1)

	case msgs.SelectTaskMsg:
		for i, t := range m.tasks {
			if t == msg.TaskID {
				return m.selectIndex(i)
			}
		}
		m.tasks = append(m.tasks, msg.TaskID)
		return m.selectIndex(len(m.tasks) - 1)
	}

	var cmd tea.Cmd
	m.comments, cmd = m.comments.Update(msg)
	return m, cmd
}

// selectIndex switches to the task at i, wrapping around the list.
func (m Model) selectIndex(i int) (tea.Model, tea.Cmd) {
	n := len(m.tasks)
	if n == 0 {
		return m, nil
	}
	m.index = ((i % n) + n) % n

	var cmd tea.Cmd
	m.comments, cmd = m.comments.SetTask(m.tasks[m.index])
	m.comments.SetPosition(m.index, n)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width > 0 && m.height > 0 && (m.width < MinTerminalWidth || m.height < MinTerminalHeight) {
		return m.renderTerminalTooSmall()
	}
	return m.comments.View()
}

// renderTerminalTooSmall renders a centered warning with the required and
// current dimensions.
func (m Model) renderTerminalTooSmall() string {
	msg := lipgloss.JoinVertical(lipgloss.Center,
		styles.WarningStyle.Render("Terminal too small"),
		"",
		styles.SubtleStyle.Render(fmt.Sprintf("Minimum: %dx%d", MinTerminalWidth, MinTerminalHeight)),
		styles.SubtleStyle.Render(fmt.Sprintf("Current: %dx%d", m.width, m.height)),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
}

// CurrentTask returns the task shown in the comment panel.
func (m Model) CurrentTask() string {
	if len(m.tasks) == 0 {
		return ""
	}
	return m.tasks[m.index]
}
