package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xfbs/mdbook-files/internal/preprocessor"
)

// NewSupportsCommand creates the renderer handshake subcommand mdbook calls
// before processing. It exits successfully for supported renderers.
func NewSupportsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "supports <renderer>",
		Short: "Check whether a renderer is supported",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !preprocessor.SupportsRenderer(args[0]) {
				return fmt.Errorf("unknown renderer %s", args[0])
			}
			return nil
		},
		SilenceUsage: true,
	}
}
