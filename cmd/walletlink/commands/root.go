package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"walletlink/internal/app"
)

var (
	home       string
	configPath string
	passphrase string
	debug      bool

	wire *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:           "walletlink",
		Short:         "Pair with a mobile wallet and submit values over deep links",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			dir, err := app.ResolveHome(home)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return err
			}

			cfg, err := app.LoadConfig(configPath, dir)
			if err != nil {
				return err
			}
			if debug {
				cfg.Debug = true
			}
			if cfg.Storage.Encrypt && passphrase == "" {
				if passphrase, err = promptPassphrase(cmd.ErrOrStderr()); err != nil {
					return err
				}
			}

			wire, err = app.NewWire(cfg, app.Options{
				Passphrase: passphrase,
				Out:        cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}
			installResultPrinters(cmd.OutOrStdout())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if wire != nil {
				wire.Close()
			}
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "state dir (default ~/.walletlink)")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <home>/config.yaml)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase for encrypted key storage")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(
		connectCmd(),
		submitCmd(),
		routeCmd(),
		disconnectCmd(),
		statusCmd(),
		fingerprintCmd(),
		listenCmd(),
		serveCmd(),
	)
	return root.Execute()
}

// installResultPrinters reports sink results on out.
func installResultPrinters(out io.Writer) {
	wire.Session.SetPairingResultHandler(func(approved bool) {
		if approved {
			fmt.Fprintln(out, "Wallet connected")
			return
		}
		fmt.Fprintln(out, "Wallet did not approve the connection")
	})
	wire.Session.SetSubmissionResultHandler(func(success bool, message string) {
		if success {
			fmt.Fprintln(out, "Submission approved")
			return
		}
		fmt.Fprintf(out, "Submission failed: %s\n", message)
	})
}

func promptPassphrase(w io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", app.ErrPassphraseRequired
	}
	fmt.Fprint(w, "Passphrase: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	return string(b), nil
}
