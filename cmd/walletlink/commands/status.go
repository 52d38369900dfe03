package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show pairing state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := wire.Session.Status(cmd.Context())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "State:       %s\n", st.State)
			fmt.Fprintf(out, "Connected:   %t\n", st.Connected)
			if st.Fingerprint != "" {
				fmt.Fprintf(out, "Fingerprint: %s\n", st.Fingerprint)
			}
			if st.Pending != nil {
				fmt.Fprintf(out, "Pending:     %d\n", *st.Pending)
			}
			return nil
		},
	}
}
