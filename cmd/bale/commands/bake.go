package commands

import (
	"github.com/spf13/cobra"
	baleprogrock "go.trai.ch/bale/internal/adapters/telemetry/progrock"
)

func (c *CLI) newBakeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bake",
		Short: "Build all asset groups and write the production manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plain, _ := cmd.Flags().GetBool("plain")
			if !plain {
				recorder := baleprogrock.New()
				defer recorder.Close() //nolint:errcheck // best effort close
				c.app.SetTracer(recorder)
			}
			return c.app.Bake(cmd.Context())
		},
	}
	cmd.Flags().Bool("plain", false, "Record builds without the progress tape")
	return cmd
}
