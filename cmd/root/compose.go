package root

import (
	"github.com/spf13/cobra"

	"github.com/slidecraft/slidecraft/pkg/cli"
	"github.com/slidecraft/slidecraft/pkg/engine"
	"github.com/slidecraft/slidecraft/pkg/prompt"
)

func newComposeCmd(root *rootFlags) *cobra.Command {
	var (
		flags  formFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Print the generation request without sending it",
		Long:  "Compose the instruction text for a form. Paste it into Claude when no generation service is reachable.",
		Example: `  slidecraft compose --topic "Q4 Results" --slides 8 --company Acme
  slidecraft compose --template sermon --field sermon_title="Hope" --json`,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, reg, err := root.loadRegistry()
			if err != nil {
				return err
			}

			s, err := flags.build(reg, engine.NewForm(cfg, reg))
			if err != nil {
				return err
			}

			req, err := prompt.Compose(s, reg)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, req)
			}
			cli.NewPrinter(cmd.OutOrStdout()).PrintRequest(req)
			return nil
		},
	}
	addFormFlags(cmd, &flags)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the full request as JSON")

	return cmd
}
