package root

import (
	"github.com/spf13/cobra"

	"github.com/slidecraft/slidecraft/pkg/cli"
)

func newTemplatesCmd(root *rootFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "templates [template-id]",
		Short: "List templates by category, or show the fields of one template",
		Example: `  slidecraft templates
  slidecraft templates sermon`,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, reg, err := root.loadRegistry()
			if err != nil {
				return err
			}
			out := cli.NewPrinter(cmd.OutOrStdout())

			if len(args) == 1 {
				tmpl, err := reg.Template(args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, tmpl)
				}
				out.PrintTemplate(tmpl)
				return nil
			}

			if asJSON {
				return writeJSON(cmd, reg.Categories())
			}
			out.PrintCategories(reg.Categories())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}
