package cli

import (
	"github.com/pablasso/quill/internal/tui"
	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open TASK [TASK...]",
	Short: "Open the comment panel",
	Long: `Opens the interactive comment panel for the first task.
With several tasks, [ and ] switch between them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOpen,
}

func runOpen(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	return tui.Run(tui.Options{
		Store:   store,
		Tasks:   args,
		Author:  settings.Author,
		Context: cmd.Context(),
	})
}
