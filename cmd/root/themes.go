package root

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/slidecraft/slidecraft/pkg/cli"
	"github.com/slidecraft/slidecraft/pkg/registry"
)

func newThemesCmd(root *rootFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "themes",
		Short:   "List available themes",
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, reg, err := root.loadRegistry()
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, reg.Themes())
			}

			selected := cfg.DefaultTheme
			if selected == "" {
				selected = registry.DefaultThemeID
			}
			cli.NewPrinter(cmd.OutOrStdout()).PrintThemes(reg.Themes(), selected)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
