package root

import (
	"github.com/spf13/cobra"

	"github.com/slidecraft/slidecraft/pkg/cli"
	"github.com/slidecraft/slidecraft/pkg/useragent"
	"github.com/slidecraft/slidecraft/pkg/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Long:  `Display the version, commit hash and the User-Agent sent to generation services`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cli.NewPrinter(cmd.OutOrStdout())
			out.Printf("slidecraft version %s\n", version.Version)
			out.Printf("Commit: %s\n", version.Commit)
			out.Printf("User-Agent: %s\n", useragent.Header)
			return nil
		},
	}
}
