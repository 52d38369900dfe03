package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"walletlink/internal/app"
	"walletlink/internal/inbound"
)

func listenCmd() *cobra.Command {
	var (
		submit    uint64
		hasSubmit bool
		stdin     bool
	)
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Route callback links until interrupted",
		Long: "Watch the inbox directory (and optionally stdin) for callback links and\n" +
			"route them to the session. With --submit the value is sent first (pairing\n" +
			"if needed) and the command exits once the wallet has answered.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hasSubmit = cmd.Flags().Changed("submit")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			if hasSubmit {
				exitAfterResult(cmd.OutOrStdout(), cancel)
			}

			links := make(chan string, 8)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return inbound.NewWatcher(wire.Config.Listen.Inbox, wire.Logging.Logger(app.SubsysInbox)).Run(gctx, links)
			})
			g.Go(func() error { return wire.Router.Run(gctx, links) })
			g.Go(func() error { return wire.Router.Run(gctx, wire.TransportCallbacks()) })
			if stdin {
				go readLines(gctx, os.Stdin, links)
			}

			if hasSubmit {
				if err := wire.Session.Submit(gctx, submit); err != nil {
					cancel()
					_ = g.Wait()
					return err
				}
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Listening for callbacks in %s\n", wire.Config.Listen.Inbox)
			return g.Wait()
		},
	}
	cmd.Flags().Uint64Var(&submit, "submit", 0, "submit this value, then exit when the wallet answers")
	cmd.Flags().BoolVar(&stdin, "stdin", false, "also read callback links from stdin, one per line")
	return cmd
}

// exitAfterResult replaces the sinks so the command stops once the flow has
// finished: after a submission result, or after a failed pairing.
func exitAfterResult(out io.Writer, cancel context.CancelFunc) {
	wire.Session.SetPairingResultHandler(func(approved bool) {
		if approved {
			fmt.Fprintln(out, "Wallet connected")
			return
		}
		fmt.Fprintln(out, "Wallet did not approve the connection")
		cancel()
	})
	wire.Session.SetSubmissionResultHandler(func(success bool, message string) {
		if success {
			fmt.Fprintln(out, "Submission approved")
		} else {
			fmt.Fprintf(out, "Submission failed: %s\n", message)
		}
		cancel()
	})
}

// readLines forwards non-empty lines from r until EOF or ctx is done.
func readLines(ctx context.Context, r io.Reader, out chan<- string) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		select {
		case out <- line:
		case <-ctx.Done():
			return
		}
	}
}
