package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/card-statement-parser/internal/parser"
)

func newDetectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <label>...",
		Short: "Show which issuer layout a file name resolves to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, label := range args {
				issuer := parser.Detect(label)
				profile, err := parser.ProfileFor(issuer)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", label, issuer, profile.Name())
			}
			return nil
		},
	}
}
