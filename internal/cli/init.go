package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/pablasso/quill/internal/config"
	"github.com/spf13/cobra"
)

var initDefaults bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the quill config file",
	Long:  "Asks for your author name and where comments live, then writes the config file.",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initDefaults, "defaults", false, "write the current settings without prompting")
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg := settings

	if !initDefaults {
		err := newInitForm(&cfg).Run()
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read settings: %w", err)
		}
	}

	cfg.Author = strings.TrimSpace(cfg.Author)
	cfg.ServerURL = strings.TrimSpace(cfg.ServerURL)
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.DBPath = strings.TrimSpace(cfg.DBPath)

	if err := config.Save(settingsPath, cfg); err != nil {
		return err
	}

	fmt.Fprintln(out, "Wrote config to", settingsPath)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  1. Run: quill add TASK your first comment")
	fmt.Fprintln(out, "  2. Run: quill open TASK")
	return nil
}

func newInitForm(cfg *config.Config) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Author").
				Description("Name recorded on the comments you write.").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("author is required")
					}
					return nil
				}).
				Value(&cfg.Author),
			huh.NewInput().
				Title("Server URL").
				Description("A quill server to share comments with. Leave empty to use a local database.").
				Value(&cfg.ServerURL),
			huh.NewInput().
				Title("API key").
				Description("Sent as a bearer token to the server. Leave empty if it has none.").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.APIKey),
			huh.NewInput().
				Title("Database path").
				Description("Leave empty for ~/.quill/comments.db.").
				Value(&cfg.DBPath),
		),
	)
}
