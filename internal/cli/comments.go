package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/pablasso/quill/internal/comment"
	"github.com/spf13/cobra"
)

var (
	addAuthor string
	deleteYes bool
)

var listCmd = &cobra.Command{
	Use:   "list TASK",
	Short: "List the comments on a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

var addCmd = &cobra.Command{
	Use:   "add TASK BODY...",
	Short: "Add a comment to a task",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runAdd,
}

var editCmd = &cobra.Command{
	Use:   "edit TASK COMMENT_ID BODY...",
	Short: "Replace the body of a comment",
	Args:  cobra.MinimumNArgs(3),
	RunE:  runEdit,
}

var deleteCmd = &cobra.Command{
	Use:   "delete TASK COMMENT_ID",
	Short: "Delete a comment",
	Long:  "Deletes a comment after asking for confirmation. This action cannot be undone.",
	Args:  cobra.ExactArgs(2),
	RunE:  runDelete,
}

func init() {
	addCmd.Flags().StringVar(&addAuthor, "author", "", "author name (default from config)")
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip confirmation prompt")
}

func runList(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	comments, err := store.List(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to list comments: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(comments) == 0 {
		fmt.Fprintln(out, "No comments.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAUTHOR\tCREATED\tBODY")
	for _, c := range comments {
		created := humanize.Time(c.CreatedAt)
		if c.Edited() {
			created += " (edited)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.DisplayAuthor(), created, summarize(c.Body, 60))
	}
	return w.Flush()
}

func runAdd(cmd *cobra.Command, args []string) error {
	body := strings.TrimSpace(strings.Join(args[1:], " "))
	if body == "" {
		return comment.ErrEmptyBody
	}

	author := addAuthor
	if author == "" {
		author = settings.Author
	}

	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	created, err := store.Create(cmd.Context(), args[0], body, author)
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added comment %s to %s\n", created.ID, args[0])
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	taskID, commentID := args[0], args[1]
	body := strings.Join(args[2:], " ")

	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if _, err := store.Update(cmd.Context(), taskID, commentID, body); err != nil {
		return fmt.Errorf("failed to update comment: %w", describe(err, taskID, commentID))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated comment %s\n", commentID)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	taskID, commentID := args[0], args[1]
	out := cmd.OutOrStdout()

	if !deleteYes {
		confirmed, err := confirmDelete(commentID)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.Delete(cmd.Context(), taskID, commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", describe(err, taskID, commentID))
	}

	fmt.Fprintf(out, "Deleted comment %s\n", commentID)
	return nil
}

// confirmDelete asks before deleting; swapped out in tests.
var confirmDelete = func(commentID string) (bool, error) {
	var confirmed bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete comment %s?", commentID)).
				Description("This action cannot be undone.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirmed),
		),
	).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return confirmed, err
}

// describe adds the task to not-found errors so the message says where we looked.
func describe(err error, taskID, commentID string) error {
	if errors.Is(err, comment.ErrNotFound) {
		return fmt.Errorf("no comment %s on task %s: %w", commentID, taskID, comment.ErrNotFound)
	}
	return err
}

// summarize returns the first line of body, cut to n runes.
func summarize(body string, n int) string {
	line, _, more := strings.Cut(body, "\n")
	r := []rune(line)
	if len(r) > n {
		return string(r[:n-1]) + "…"
	}
	if more {
		return line + " …"
	}
	return line
}
