package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/pablasso/quill/internal/comment"
	"github.com/pablasso/quill/internal/tui/components"
	"github.com/pablasso/quill/internal/tui/styles"
)

// PanelState is a snapshot of everything the comment panel renders.
type PanelState struct {
	TaskID          string
	Phase           LoadPhase
	LoadError       string
	Comments        []comment.Comment
	Draft           string
	Edit            *EditSession
	Cursor          int
	ComposerFocused bool
	PendingDelete   string
	Notice          *Notice
}

// CommentsView is the renderable projection of a PanelState.
type CommentsView struct {
	TaskID  string
	Loading bool
	Error   string // set only in the failed phase

	Items    []CommentItem
	Composer *ComposerView // nil unless the list is ready

	Notice        *Notice
	ConfirmDelete string // ID of the comment awaiting confirmation
}

// CommentItem is one comment in either its viewing or editing presentation.
type CommentItem struct {
	ID        string
	Author    string
	Timestamp string
	Body      string
	Edited    bool
	Selected  bool

	Editing   bool
	EditDraft string

	Controls []string
}

// ComposerView is the new-comment composer.
type ComposerView struct {
	Draft    string
	Focused  bool
	Controls []string
}

// State returns a snapshot of the panel state.
func (m CommentsModel) State() PanelState {
	s := PanelState{
		TaskID:          m.taskID,
		Phase:           m.phase,
		LoadError:       m.loadErr,
		Comments:        m.comments,
		Draft:           m.composer.Value(),
		Cursor:          m.cursor,
		ComposerFocused: m.focus == focusComposer,
		PendingDelete:   m.pendingDelete,
		Notice:          m.notice,
	}
	if e, ok := m.Edit(); ok {
		s.Edit = &e
	}
	return s
}

// Projection returns the current view projection.
func (m CommentsModel) Projection() CommentsView {
	return ProjectComments(m.State(), m.now())
}

// ProjectComments maps a panel state to its view. It has no side effects;
// now is only used for relative timestamps.
func ProjectComments(s PanelState, now time.Time) CommentsView {
	v := CommentsView{
		TaskID:        s.TaskID,
		Notice:        s.Notice,
		ConfirmDelete: s.PendingDelete,
	}

	switch s.Phase {
	case PhaseLoading:
		v.Loading = true
		return v
	case PhaseFailed:
		v.Error = s.LoadError
		return v
	}

	v.Items = make([]CommentItem, 0, len(s.Comments))
	for i, c := range s.Comments {
		item := CommentItem{
			ID:        c.ID,
			Author:    c.DisplayAuthor(),
			Timestamp: FormatTimestamp(c.CreatedAt, now),
			Body:      c.Body,
			Edited:    c.Edited(),
			Selected:  i == s.Cursor,
			Controls:  []string{"Edit", "Delete"},
		}
		if s.Edit != nil && s.Edit.TargetID == c.ID {
			item.Editing = true
			item.EditDraft = s.Edit.Draft
			item.Controls = []string{"Save", "Cancel"}
		}
		v.Items = append(v.Items, item)
	}

	v.Composer = &ComposerView{
		Draft:    s.Draft,
		Focused:  s.ComposerFocused,
		Controls: []string{"Add"},
	}
	return v
}

// FormatTimestamp renders an absolute local time followed by a relative one,
// e.g. "Mar 4, 2025 3:04 PM (2 hours ago)".
func FormatTimestamp(t, now time.Time) string {
	if t.IsZero() {
		return "unknown time"
	}
	return fmt.Sprintf("%s (%s)", t.Local().Format("Jan 2, 2006 3:04 PM"), humanize.RelTime(t, now, "ago", "from now"))
}

// View implements tea.Model.
func (m CommentsModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	v := m.Projection()

	var b strings.Builder
	title := styles.TitleStyle.Render("Comments · " + v.TaskID)
	b.WriteString(title)
	b.WriteString("\n")

	var body string
	switch {
	case v.Loading:
		body = m.spinner.View() + " Loading comments..."
	case v.Error != "":
		body = styles.ErrorStyle.Render("Error: " + v.Error)
	default:
		body = m.renderReady(v)
	}

	if overlay := m.renderOverlay(v); overlay != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", overlay)
	}

	b.WriteString(body)

	used := lipgloss.Height(b.String())
	statusBarHeight := 1
	if pad := m.height - used - statusBarHeight; pad > 0 {
		b.WriteString(strings.Repeat("\n", pad))
	}
	b.WriteString("\n")
	b.WriteString(components.NewStatusBar().WithContext(m.position).Render(m.width, m.statusItems(v)))

	return b.String()
}

// renderReady renders the comment list and the composer. The list is windowed
// so the selected comment stays visible.
func (m CommentsModel) renderReady(v CommentsView) string {
	composer := m.renderComposer(v.Composer)

	var lines []string
	selTop, selBottom := 0, 0
	if len(v.Items) == 0 {
		lines = append(lines, styles.SubtleStyle.Render("No comments yet."))
	}
	for _, item := range v.Items {
		rendered := strings.Split(m.renderItem(item), "\n")
		if item.Selected {
			selTop = len(lines)
			selBottom = len(lines) + len(rendered) - 1
		}
		lines = append(lines, rendered...)
		lines = append(lines, "")
	}

	// Title block, composer and status bar take the rest of the screen.
	available := max(m.height-3-lipgloss.Height(composer)-1, 3)
	window := components.FollowWindow(len(lines), available, selTop, selBottom)

	return components.WithScrollbar(lines, window) + "\n" + composer
}

func (m CommentsModel) renderItem(item CommentItem) string {
	indicator := "○"
	if item.Selected {
		indicator = styles.SelectedStyle.Render("●")
	}

	header := fmt.Sprintf("%s %s — %s", indicator, styles.AuthorStyle.Render(item.Author), styles.SubtleStyle.Render(item.Timestamp))
	if item.Edited {
		header += styles.SubtleStyle.Render(" (edited)")
	}

	if item.Editing && m.edit != nil {
		box := styles.EditBoxStyle.Render(m.edit.input.View())
		controls := styles.SubtleStyle.Render("[ctrl+s] Save  [esc] Cancel")
		return lipgloss.JoinVertical(lipgloss.Left, header, indent(box), indent(controls))
	}

	body := lipgloss.NewStyle().Width(m.inputWidth()).Render(item.Body)
	controls := styles.SubtleStyle.Render("[e] Edit  [d] Delete")
	if !item.Selected {
		return lipgloss.JoinVertical(lipgloss.Left, header, indent(body))
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, indent(body), indent(controls))
}

func (m CommentsModel) renderComposer(c *ComposerView) string {
	if c == nil {
		return ""
	}
	label := styles.SectionStyle.Render("New comment")
	box := styles.BoxStyle
	if c.Focused {
		box = styles.EditBoxStyle
	}
	hint := styles.SubtleStyle.Render("[ctrl+s] Add")
	if !c.Focused {
		hint = styles.SubtleStyle.Render("[a] Write a comment")
	}
	return lipgloss.JoinVertical(lipgloss.Left, label, box.Render(m.composer.View()), hint)
}

func (m CommentsModel) renderOverlay(v CommentsView) string {
	switch {
	case v.Notice != nil:
		text := v.Notice.Text
		if v.Notice.Kind == NoticeFailure {
			text = styles.ErrorStyle.Render(text)
		}
		return styles.NoticeStyle.Render(text + "\n\n" + styles.SubtleStyle.Render("Press any key to dismiss"))
	case v.ConfirmDelete != "":
		return styles.NoticeStyle.Render(styles.WarningStyle.Render("Delete comment?") + "\n\n" + styles.SubtleStyle.Render("[y] Yes  [n] No"))
	}
	return ""
}

func (m CommentsModel) statusItems(v CommentsView) []string {
	switch {
	case v.Notice != nil:
		return []string{"Any key Dismiss"}
	case v.ConfirmDelete != "":
		return []string{"y Confirm", "n Cancel"}
	case v.Loading:
		return []string{"[ ] Switch task", "q Quit"}
	case v.Error != "":
		return []string{"r Retry", "[ ] Switch task", "q Quit"}
	case m.edit != nil:
		return []string{"Ctrl+S Save", "Esc Cancel"}
	case m.focus == focusComposer:
		return []string{"Ctrl+S Add", "Esc Back"}
	}
	return []string{"↑↓ Navigate", "e Edit", "d Delete", "a Add", "r Reload", "[ ] Switch task", "q Quit"}
}

func indent(s string) string {
	return lipgloss.NewStyle().PaddingLeft(2).Render(s)
}
