package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pablasso/quill/internal/web"
	"github.com/spf13/cobra"
)

var (
	serveListen string
	serveRate   float64
	serveBurst  int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the comment API over HTTP",
	Long: `Serves comments from the local database (or memory with --memory) so that
other quill clients can use it as their server_url.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "address to listen on (default from config)")
	serveCmd.Flags().Float64Var(&serveRate, "rate-limit", 20, "API requests per second per client, 0 to disable")
	serveCmd.Flags().IntVar(&serveBurst, "burst", 40, "request burst allowed per client")
}

func runServe(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openLocalStore()
	if err != nil {
		return err
	}
	defer closeStore()

	addr := serveListen
	if addr == "" {
		addr = settings.Listen
	}
	if settings.APIKey == "" {
		slog.Warn("serving without an API key; anyone who can reach the address can edit comments")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := web.NewServer(store, settings.APIKey, web.WithRateLimit(serveRate, serveBurst))
	return srv.ListenAndServe(ctx, addr)
}
