package views

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pablasso/quill/internal/comment"
	"github.com/pablasso/quill/internal/tui/styles"
)

// LoadPhase is the load state of the comment list for the current task.
type LoadPhase int

const (
	// PhaseLoading means a list request is outstanding.
	PhaseLoading LoadPhase = iota
	// PhaseReady means the list was loaded and can be edited.
	PhaseReady
	// PhaseFailed means the list request failed; LoadError holds the reason.
	PhaseFailed
)

func (p LoadPhase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// NoticeKind distinguishes validation notices from failed remote operations.
type NoticeKind int

const (
	// NoticeValidation is shown when a submission is rejected locally.
	NoticeValidation NoticeKind = iota + 1
	// NoticeFailure is shown when a store operation fails.
	NoticeFailure
)

// Notice is a one-shot blocking message. It is dismissed by the next key press
// and never survives a task change.
type Notice struct {
	Kind NoticeKind
	Text string
}

// emptyDraftNotice is shown when the composer is submitted without text.
const emptyDraftNotice = "Please write something!"

// EditSession is a snapshot of the comment currently being edited.
type EditSession struct {
	TargetID string
	Draft    string
}

// editSession is the single open edit. The draft lives in the textarea.
type editSession struct {
	targetID string
	input    textarea.Model
}

type focusArea int

const (
	focusList focusArea = iota
	focusComposer
)

// Message types for store results. Every result carries the task and
// generation it was issued for so results from a superseded load are dropped.

// CommentsLoadedMsg is sent when a list request completes.
type CommentsLoadedMsg struct {
	TaskID     string
	Generation uint64
	Comments   []comment.Comment
	Err        error
}

// CommentCreatedMsg is sent when a create request completes.
type CommentCreatedMsg struct {
	TaskID     string
	Generation uint64
	Comment    comment.Comment
	Err        error
}

// CommentUpdatedMsg is sent when an update request completes.
type CommentUpdatedMsg struct {
	TaskID     string
	Generation uint64
	CommentID  string
	Comment    comment.Comment
	Err        error
}

// CommentDeletedMsg is sent when a delete request completes.
type CommentDeletedMsg struct {
	TaskID     string
	Generation uint64
	CommentID  string
	Err        error
}

// CommentsConfig holds initialization parameters for the comment panel.
type CommentsConfig struct {
	Store  comment.Store
	TaskID string
	Author string // defaults to comment.DefaultAuthor

	// Context is passed to every store call. Defaults to context.Background().
	Context context.Context
}

// CommentsModel is the comment panel for a single task. It owns the local
// comment cache and only mutates it after the store confirms an operation.
type CommentsModel struct {
	ctx    context.Context
	store  comment.Store
	author string

	taskID     string
	generation uint64

	phase    LoadPhase
	loadErr  string
	comments []comment.Comment
	cursor   int

	composer      textarea.Model
	edit          *editSession
	pendingDelete string
	notice        *Notice
	focus         focusArea

	spinner  spinner.Model
	now      func() time.Time
	position string

	width  int
	height int
}

// NewCommentsModel creates a comment panel. If config.TaskID is set the panel
// starts in the loading phase and Init issues the first list request.
func NewCommentsModel(config CommentsConfig) CommentsModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SelectedStyle

	ctx := config.Context
	if ctx == nil {
		ctx = context.Background()
	}
	author := config.Author
	if author == "" {
		author = comment.DefaultAuthor
	}

	m := CommentsModel{
		ctx:      ctx,
		store:    config.Store,
		author:   author,
		composer: newCommentInput("Write a comment..."),
		spinner:  s,
		now:      time.Now,
	}

	if config.TaskID != "" {
		m = m.reset(config.TaskID)
	}
	return m
}

func newCommentInput(placeholder string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.FocusedStyle.Base = lipgloss.NewStyle()
	ta.BlurredStyle.Base = lipgloss.NewStyle()
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()
	return ta
}

// Init implements tea.Model.
func (m CommentsModel) Init() tea.Cmd {
	if m.taskID == "" {
		return nil
	}
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

// SetTask switches the panel to another task. The panel state is rebuilt from
// scratch and a new list request is issued. Selecting the current task is a no-op.
func (m CommentsModel) SetTask(taskID string) (CommentsModel, tea.Cmd) {
	if taskID == m.taskID {
		return m, nil
	}
	m = m.reset(taskID)
	return m, tea.Batch(m.spinner.Tick, m.loadCmd())
}

// Reload re-runs load sequencing for the current task.
func (m CommentsModel) Reload() (CommentsModel, tea.Cmd) {
	if m.taskID == "" {
		return m, nil
	}
	m = m.reset(m.taskID)
	return m, tea.Batch(m.spinner.Tick, m.loadCmd())
}

// reset discards all state for the previous task and enters the loading phase.
func (m CommentsModel) reset(taskID string) CommentsModel {
	m.taskID = taskID
	m.generation++
	m.phase = PhaseLoading
	m.loadErr = ""
	m.comments = nil
	m.cursor = 0
	m.composer.Reset()
	m.composer.Blur()
	m.edit = nil
	m.pendingDelete = ""
	m.notice = nil
	m.focus = focusList
	return m
}

// current reports whether a result belongs to the state it was issued against.
func (m CommentsModel) current(taskID string, generation uint64) bool {
	return taskID == m.taskID && generation == m.generation
}

// Store commands. Each captures the request parameters at issue time.

func (m CommentsModel) loadCmd() tea.Cmd {
	ctx, store, taskID, gen := m.ctx, m.store, m.taskID, m.generation
	slog.Debug("loading comments", "task", taskID, "generation", gen)
	return func() tea.Msg {
		comments, err := store.List(ctx, taskID)
		return CommentsLoadedMsg{TaskID: taskID, Generation: gen, Comments: comments, Err: err}
	}
}

func (m CommentsModel) createCmd(body string) tea.Cmd {
	ctx, store, taskID, gen, author := m.ctx, m.store, m.taskID, m.generation, m.author
	return func() tea.Msg {
		created, err := store.Create(ctx, taskID, body, author)
		return CommentCreatedMsg{TaskID: taskID, Generation: gen, Comment: created, Err: err}
	}
}

func (m CommentsModel) updateCmd(commentID, body string) tea.Cmd {
	ctx, store, taskID, gen := m.ctx, m.store, m.taskID, m.generation
	return func() tea.Msg {
		updated, err := store.Update(ctx, taskID, commentID, body)
		return CommentUpdatedMsg{TaskID: taskID, Generation: gen, CommentID: commentID, Comment: updated, Err: err}
	}
}

func (m CommentsModel) deleteCmd(commentID string) tea.Cmd {
	ctx, store, taskID, gen := m.ctx, m.store, m.taskID, m.generation
	return func() tea.Msg {
		err := store.Delete(ctx, taskID, commentID)
		return CommentDeletedMsg{TaskID: taskID, Generation: gen, CommentID: commentID, Err: err}
	}
}

// Update implements tea.Model.
func (m CommentsModel) Update(msg tea.Msg) (CommentsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if m.phase != PhaseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case CommentsLoadedMsg:
		return m.handleLoaded(msg), nil

	case CommentCreatedMsg:
		return m.handleCreated(msg), nil

	case CommentUpdatedMsg:
		return m.handleUpdated(msg), nil

	case CommentDeletedMsg:
		return m.handleDeleted(msg), nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	// Cursor blinks and other input messages go to the focused textarea.
	return m.updateFocusedInput(msg)
}

func (m CommentsModel) handleLoaded(msg CommentsLoadedMsg) CommentsModel {
	if !m.current(msg.TaskID, msg.Generation) {
		slog.Debug("dropping stale comment list", "task", msg.TaskID, "generation", msg.Generation)
		return m
	}
	if msg.Err != nil {
		slog.Warn("loading comments failed", "task", msg.TaskID, "error", msg.Err)
		m.phase = PhaseFailed
		m.loadErr = msg.Err.Error()
		return m
	}

	m.phase = PhaseReady
	m.comments = append([]comment.Comment(nil), msg.Comments...)
	m.cursor = 0
	slog.Debug("comments loaded", "task", msg.TaskID, "count", len(m.comments))
	return m
}

func (m CommentsModel) handleCreated(msg CommentCreatedMsg) CommentsModel {
	if !m.current(msg.TaskID, msg.Generation) {
		return m
	}
	if msg.Err != nil {
		slog.Warn("creating comment failed", "task", msg.TaskID, "error", msg.Err)
		m.notice = &Notice{Kind: NoticeFailure, Text: "Failed to add comment: " + msg.Err.Error()}
		return m
	}

	m.comments = append(m.comments[:len(m.comments):len(m.comments)], msg.Comment)
	m.composer.Reset()
	slog.Debug("comment created", "task", msg.TaskID, "comment", msg.Comment.ID)
	return m
}

func (m CommentsModel) handleUpdated(msg CommentUpdatedMsg) CommentsModel {
	if !m.current(msg.TaskID, msg.Generation) {
		return m
	}
	if msg.Err != nil {
		slog.Warn("updating comment failed", "task", msg.TaskID, "comment", msg.CommentID, "error", msg.Err)
		m.notice = &Notice{Kind: NoticeFailure, Text: "Failed to save comment: " + msg.Err.Error()}
		return m
	}

	updated := make([]comment.Comment, len(m.comments))
	for i, c := range m.comments {
		if c.ID == msg.CommentID {
			c = msg.Comment
		}
		updated[i] = c
	}
	m.comments = updated

	// A newer session on another comment is left alone.
	if m.edit != nil && m.edit.targetID == msg.CommentID {
		m.edit = nil
	}
	slog.Debug("comment updated", "task", msg.TaskID, "comment", msg.CommentID)
	return m
}

func (m CommentsModel) handleDeleted(msg CommentDeletedMsg) CommentsModel {
	if !m.current(msg.TaskID, msg.Generation) {
		return m
	}
	if msg.Err != nil {
		slog.Warn("deleting comment failed", "task", msg.TaskID, "comment", msg.CommentID, "error", msg.Err)
		m.notice = &Notice{Kind: NoticeFailure, Text: "Failed to delete comment: " + msg.Err.Error()}
		return m
	}

	remaining := make([]comment.Comment, 0, len(m.comments))
	for _, c := range m.comments {
		if c.ID != msg.CommentID {
			remaining = append(remaining, c)
		}
	}
	m.comments = remaining
	if m.edit != nil && m.edit.targetID == msg.CommentID {
		m.edit = nil
	}
	if m.pendingDelete == msg.CommentID {
		m.pendingDelete = ""
	}
	m.clampCursor()
	slog.Debug("comment deleted", "task", msg.TaskID, "comment", msg.CommentID)
	return m
}

// HandleAdd submits the composer draft. Blank drafts raise a validation notice
// without contacting the store. The draft is cleared only once the store
// confirms the comment.
func (m CommentsModel) HandleAdd() (CommentsModel, tea.Cmd) {
	if m.phase != PhaseReady {
		return m, nil
	}

	draft := m.composer.Value()
	body := strings.TrimSpace(draft)
	if body == "" {
		m.notice = &Notice{Kind: NoticeValidation, Text: emptyDraftNotice}
		return m, nil
	}

	slog.Debug("creating comment", "task", m.taskID)
	return m, m.createCmd(body)
}

// StartEdit opens an edit session for the given comment, abandoning any other
// open session.
func (m CommentsModel) StartEdit(commentID string) (CommentsModel, tea.Cmd) {
	idx := m.indexOf(commentID)
	if m.phase != PhaseReady || idx < 0 {
		return m, nil
	}

	input := newCommentInput("Comment text...")
	input.SetWidth(m.inputWidth())
	input.SetValue(m.comments[idx].Body)
	cmd := input.Focus()

	m.edit = &editSession{targetID: commentID, input: input}
	m.cursor = idx
	m.focus = focusList
	m.composer.Blur()
	return m, cmd
}

// CancelEdit closes the edit session and discards its draft.
func (m CommentsModel) CancelEdit() CommentsModel {
	m.edit = nil
	return m
}

// SaveEdit sends the edit draft to the store as-is. The session stays open
// until the store confirms the update.
func (m CommentsModel) SaveEdit() (CommentsModel, tea.Cmd) {
	if m.edit == nil {
		return m, nil
	}

	slog.Debug("updating comment", "task", m.taskID, "comment", m.edit.targetID)
	return m, m.updateCmd(m.edit.targetID, m.edit.input.Value())
}

// HandleDelete opens the confirmation gate for deleting a comment.
func (m CommentsModel) HandleDelete(commentID string) CommentsModel {
	if m.phase != PhaseReady || m.indexOf(commentID) < 0 {
		return m
	}
	m.pendingDelete = commentID
	return m
}

// ConfirmDelete resolves the confirmation gate. Declining leaves everything as it was.
func (m CommentsModel) ConfirmDelete(confirmed bool) (CommentsModel, tea.Cmd) {
	id := m.pendingDelete
	if id == "" {
		return m, nil
	}
	m.pendingDelete = ""
	if !confirmed {
		return m, nil
	}

	slog.Debug("deleting comment", "task", m.taskID, "comment", id)
	return m, m.deleteCmd(id)
}

// DismissNotice clears the current notice.
func (m CommentsModel) DismissNotice() CommentsModel {
	m.notice = nil
	return m
}

// handleKeyPress routes keys by the innermost active mode: notice, delete
// confirmation, edit session, composer, then the list.
func (m CommentsModel) handleKeyPress(msg tea.KeyMsg) (CommentsModel, tea.Cmd) {
	if m.notice != nil {
		return m.DismissNotice(), nil
	}

	if m.pendingDelete != "" {
		switch msg.String() {
		case "y", "Y":
			return m.ConfirmDelete(true)
		case "n", "N", "esc":
			return m.ConfirmDelete(false)
		}
		return m, nil
	}

	if m.phase != PhaseReady {
		if msg.String() == "r" {
			return m.Reload()
		}
		return m, nil
	}

	if m.edit != nil {
		return m.handleEditKeys(msg)
	}
	if m.focus == focusComposer {
		return m.handleComposerKeys(msg)
	}
	return m.handleListKeys(msg)
}

func (m CommentsModel) handleEditKeys(msg tea.KeyMsg) (CommentsModel, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		return m.SaveEdit()
	case "esc":
		return m.CancelEdit(), nil
	}

	s := *m.edit
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	m.edit = &s
	return m, cmd
}

func (m CommentsModel) handleComposerKeys(msg tea.KeyMsg) (CommentsModel, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		return m.HandleAdd()
	case "esc", "tab":
		m.focus = focusList
		m.composer.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

func (m CommentsModel) handleListKeys(msg tea.KeyMsg) (CommentsModel, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.comments)-1 {
			m.cursor++
		}
	case "e", "enter":
		if c, ok := m.selected(); ok {
			return m.StartEdit(c.ID)
		}
	case "d", "x":
		if c, ok := m.selected(); ok {
			return m.HandleDelete(c.ID), nil
		}
	case "a", "i", "tab":
		m.focus = focusComposer
		return m, m.composer.Focus()
	case "r":
		return m.Reload()
	}
	return m, nil
}

// updateFocusedInput forwards non-key messages to whichever textarea has focus.
func (m CommentsModel) updateFocusedInput(msg tea.Msg) (CommentsModel, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.edit != nil:
		s := *m.edit
		s.input, cmd = s.input.Update(msg)
		m.edit = &s
	case m.focus == focusComposer:
		m.composer, cmd = m.composer.Update(msg)
	}
	return m, cmd
}

func (m CommentsModel) indexOf(commentID string) int {
	for i, c := range m.comments {
		if c.ID == commentID {
			return i
		}
	}
	return -1
}

func (m CommentsModel) selected() (comment.Comment, bool) {
	if m.cursor < 0 || m.cursor >= len(m.comments) {
		return comment.Comment{}, false
	}
	return m.comments[m.cursor], true
}

func (m *CommentsModel) clampCursor() {
	if m.cursor >= len(m.comments) {
		m.cursor = len(m.comments) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m CommentsModel) inputWidth() int {
	w := m.width - 8
	if w < 20 {
		w = 20
	}
	return w
}

// SetSize updates the model dimensions.
func (m *CommentsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.composer.SetWidth(m.inputWidth())
	if m.edit != nil {
		s := *m.edit
		s.input.SetWidth(m.inputWidth())
		m.edit = &s
	}
}

// SetPosition records where the current task sits in the task list, shown
// in the status bar. A single task shows nothing.
func (m *CommentsModel) SetPosition(index, total int) {
	if total <= 1 {
		m.position = ""
		return
	}
	m.position = fmt.Sprintf("task %d/%d", index+1, total)
}

// CapturingInput reports whether keys are currently consumed as text or by a
// modal prompt, so the parent model must not interpret them as shortcuts.
func (m CommentsModel) CapturingInput() bool {
	return m.notice != nil || m.pendingDelete != "" || m.edit != nil || m.focus == focusComposer
}

// Getters

// TaskID returns the task whose comments are shown.
func (m CommentsModel) TaskID() string {
	return m.taskID
}

// Generation returns the load generation; it increases on every task change or reload.
func (m CommentsModel) Generation() uint64 {
	return m.generation
}

// Phase returns the current load phase.
func (m CommentsModel) Phase() LoadPhase {
	return m.phase
}

// LoadError returns the failure reason when Phase is PhaseFailed.
func (m CommentsModel) LoadError() string {
	return m.loadErr
}

// Comments returns the locally cached comments in display order.
func (m CommentsModel) Comments() []comment.Comment {
	return m.comments
}

// Draft returns the new-comment draft.
func (m CommentsModel) Draft() string {
	return m.composer.Value()
}

// SetDraft replaces the new-comment draft.
func (m *CommentsModel) SetDraft(s string) {
	m.composer.SetValue(s)
}

// Edit returns the open edit session, if any.
func (m CommentsModel) Edit() (EditSession, bool) {
	if m.edit == nil {
		return EditSession{}, false
	}
	return EditSession{TargetID: m.edit.targetID, Draft: m.edit.input.Value()}, true
}

// SetEditDraft replaces the draft of the open edit session.
func (m *CommentsModel) SetEditDraft(s string) {
	if m.edit == nil {
		return
	}
	session := *m.edit
	session.input.SetValue(s)
	m.edit = &session
}

// PendingDelete returns the comment awaiting delete confirmation, if any.
func (m CommentsModel) PendingDelete() string {
	return m.pendingDelete
}

// Notice returns the current notice, or nil.
func (m CommentsModel) Notice() *Notice {
	return m.notice
}

// Cursor returns the index of the selected comment.
func (m CommentsModel) Cursor() int {
	return m.cursor
}
