package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"walletlink/internal/domain"
	"walletlink/internal/inbound"
)

// route: register this as the OS handler for the app scheme.
func routeCmd() *cobra.Command {
	var deliver bool
	cmd := &cobra.Command{
		Use:   "route <url>",
		Short: "Handle a callback link from the wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if deliver {
				name, err := inbound.Drop(wire.Config.Listen.Inbox, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Queued %s\n", name)
				return nil
			}

			err := wire.Router.Route(cmd.Context(), args[0])
			if errors.Is(err, domain.ErrForeignLink) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&deliver, "deliver", false, "hand the link to a running listen/serve via the inbox")
	return cmd
}
