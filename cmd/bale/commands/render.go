package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <script|style> [groups...]",
		Short: "Print the output references for the given asset groups",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}

			force, _ := cmd.Flags().GetBool("force")
			production, _ := cmd.Flags().GetBool("production")

			refs, err := c.app.Render(cmd.Context(), kind, args[1:], force, production)
			if err != nil {
				return err
			}

			for _, ref := range refs {
				fmt.Fprintln(cmd.OutOrStdout(), ref)
			}
			return nil
		},
	}
	cmd.Flags().BoolP("force", "f", false, "Render disabled groups as well")
	cmd.Flags().BoolP("production", "p", false, "Serve from the baked manifest instead of building")
	return cmd
}

func parseKind(s string) (domain.Kind, error) {
	for _, kind := range domain.Kinds {
		if s == string(kind) {
			return kind, nil
		}
	}
	return "", zerr.With(zerr.New("unknown asset kind"), "kind", s)
}
