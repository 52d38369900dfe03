package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/decred/slog"
	"github.com/spf13/cobra"

	"walletlink/internal/crypto"
	"walletlink/internal/walletsim"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		addr   string
		scheme string
		reject bool
		debug  bool
	)
	cmd := &cobra.Command{
		Use:          "mockwallet",
		Short:        "Simulated wallet for local development",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.NewBackend(os.Stderr).Logger("WLLT")
			if debug {
				log.SetLevel(slog.LevelDebug)
			}

			w, err := walletsim.New(scheme)
			if err != nil {
				return err
			}
			w.SetReject(reject)

			srv := &http.Server{
				Addr:              addr,
				Handler:           newServer(w, log).router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			log.Infof("Wallet %s listening on %s (key %s)", scheme, addr, crypto.Fingerprint(w.PublicKey()))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8766", "listen address")
	cmd.Flags().StringVar(&scheme, "scheme", "petra", "wallet URL scheme")
	cmd.Flags().BoolVar(&reject, "reject", false, "decline every request")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	return cmd
}
