// Package msgs defines shared message types passed between TUI models.
package msgs

// SelectTaskMsg switches the comment panel to another task.
type SelectTaskMsg struct {
	TaskID string
}

// NextTaskMsg moves to the next task in the session's task list.
type NextTaskMsg struct{}

// PrevTaskMsg moves to the previous task in the session's task list.
type PrevTaskMsg struct{}
