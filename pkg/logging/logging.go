// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
)

// Setup installs the default slog logger. With debug unset everything is
// discarded; otherwise debug-level text records go to w.
func Setup(w io.Writer, debug bool) {
	if !debug || w == nil {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))
}
