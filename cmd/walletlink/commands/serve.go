package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"walletlink/internal/app"
	"walletlink/internal/bridge"
	"walletlink/internal/inbound"
)

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local HTTP bridge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = wire.Config.Listen.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			links := make(chan string, 8)
			blog := wire.Logging.Logger(app.SubsysBridge)
			srv := &http.Server{
				Addr:              addr,
				Handler:           bridge.New(wire.Session, links, blog).NewRouter(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return inbound.NewWatcher(wire.Config.Listen.Inbox, wire.Logging.Logger(app.SubsysInbox)).Run(gctx, links)
			})
			g.Go(func() error { return wire.Router.Run(gctx, links) })
			g.Go(func() error { return wire.Router.Run(gctx, wire.TransportCallbacks()) })
			g.Go(func() error {
				blog.Infof("Bridge listening on %s", addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("bridge: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8765)")
	return cmd
}
