package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func submitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit <value>",
		Short: "Encrypt a value and send it to the wallet for signing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[0], err)
			}

			ctx := cmd.Context()
			if err := wire.Session.Submit(ctx, value); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if st := wire.Session.Status(ctx); st.Pending != nil {
				fmt.Fprintln(out, "Not paired yet; a connect request was sent instead.")
				fmt.Fprintln(out, "Run `walletlink listen --submit` to keep the value until the wallet answers.")
				return nil
			}
			fmt.Fprintln(out, "Submission sent; confirm it in the wallet")
			return nil
		},
	}
}
