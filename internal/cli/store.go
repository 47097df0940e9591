package cli

import (
	"log/slog"

	"github.com/pablasso/quill/internal/client"
	"github.com/pablasso/quill/internal/comment"
	"github.com/pablasso/quill/internal/db"
)

func noopClose() error { return nil }

// openStore returns the store selected by flags and config, and a function
// that releases it: in-memory, a remote server, or the local database.
func openStore() (comment.Store, func() error, error) {
	if !useMemory && settings.ServerURL != "" {
		slog.Debug("using remote store", "server", settings.ServerURL)
		return client.New(settings.ServerURL, settings.APIKey), noopClose, nil
	}
	return openLocalStore()
}

// openLocalStore ignores the server setting; it backs `quill serve`.
func openLocalStore() (comment.Store, func() error, error) {
	if useMemory {
		slog.Debug("using in-memory store")
		return comment.NewMemoryStore(), noopClose, nil
	}

	path := settings.DBPath
	if path == "" {
		p, err := db.DefaultPath()
		if err != nil {
			return nil, nil, err
		}
		path = p
	}

	conn, err := db.Open(path)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("using local database", "path", path)
	return comment.NewRepository(conn), conn.Close, nil
}
