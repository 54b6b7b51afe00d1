package cli

import (
	"context"
	"io"
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/drpeachy/tagbubbles/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve showcases and live sessions over HTTP",
		Long: `Serve runs the preview server. Static snapshots are rendered through the
snapshot cache; live sessions stream frames to the browser over
Server-Sent Events. The address defaults to [server].addr, with the port
taken from $PORT when set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), cmd.OutOrStdout(), addr, noCache)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config or $PORT)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the snapshot cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, w io.Writer, addr string, noCache bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}

	srv := server.New(cfg, reg, runner, loggerFromContext(ctx))
	defer srv.Close()

	addr = listenAddr(addr, cfg.Server.Addr, os.Getenv(envPort))
	newPrinter(w).info("Serving %d showcases on %s", len(cfg.Showcases), StyleLink.Render("http://"+displayHost(addr)))
	return srv.ListenAndServe(ctx, addr)
}

// listenAddr picks the flag, then the config address with $PORT applied.
func listenAddr(flag, configured, port string) string {
	if flag != "" {
		return flag
	}
	if port == "" {
		return configured
	}
	host, _, err := net.SplitHostPort(configured)
	if err != nil {
		host = ""
	}
	return net.JoinHostPort(host, port)
}

// displayHost turns ":8080" into "localhost:8080".
func displayHost(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil || host != "" {
		return addr
	}
	return net.JoinHostPort("localhost", port)
}
