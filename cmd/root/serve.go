package root

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/slidecraft/slidecraft/pkg/cli"
	"github.com/slidecraft/slidecraft/pkg/environment"
	"github.com/slidecraft/slidecraft/pkg/registry"
	"github.com/slidecraft/slidecraft/pkg/server"
)

type serveFlags struct {
	listenAddr string
	sessionTTL string
	watch      bool
}

func newServeCmd(root *rootFlags) *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the slidecraft HTTP API",
		Long: `Serve the theme and template registry and per-session form editing and
submission under /api. Addresses may be host:port, unix://path, fd://N or,
on Windows, npipe://name.`,
		GroupID: "advanced",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.run(cmd, root)
		},
	}

	cmd.Flags().StringVarP(&flags.listenAddr, "listen", "l", "127.0.0.1:8080", "Address to listen on")
	cmd.Flags().StringVar(&flags.sessionTTL, "session-ttl", server.DefaultSessionTTL.String(), "Forget sessions after this much inactivity")
	cmd.Flags().BoolVar(&flags.watch, "watch", false, "Reload the custom template catalog when it changes")

	return cmd
}

func (f *serveFlags) run(cmd *cobra.Command, root *rootFlags) error {
	ctx := cmd.Context()

	ttl, err := parseDuration("--session-ttl", f.sessionTTL)
	if err != nil {
		return err
	}

	eng, err := root.loadEngine(ctx)
	if err != nil {
		return err
	}

	srv := server.New(eng, server.WithSessionTTL(ttl))

	if f.watch {
		if path := eng.Config().TemplatesFile; path != "" {
			expanded, err := environment.ExpandTilde(path)
			if err != nil {
				return err
			}
			watcher := registry.NewCatalogWatcher(expanded, srv.SetRegistry)
			if err := watcher.Start(); err != nil {
				return err
			}
			defer watcher.Stop()
		} else {
			slog.Warn("--watch has no effect without templates_file in the config")
		}
	}

	ln, err := server.Listen(ctx, f.listenAddr)
	if err != nil {
		return err
	}
	defer ln.Close()

	cli.NewPrinter(cmd.OutOrStdout()).Printf("Listening on %s (transport: %s)\n", ln.Addr(), eng.Transport().Name())
	slog.Info("Serving API", "addr", ln.Addr().String(), "transport", eng.Transport().Name())

	return srv.Serve(ctx, ln)
}
