package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"walletlink/internal/crypto"
)

func fingerprintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the fingerprint of our encryption key",
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, ok := wire.Pairing.PublicKey(cmd.Context())
			if !ok {
				return fmt.Errorf("no key pair yet; run connect first")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Fingerprint: %s\n", crypto.Fingerprint(pub))
			return nil
		},
	}
	return cmd
}
