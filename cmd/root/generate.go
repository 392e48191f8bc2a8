package root

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/slidecraft/slidecraft/pkg/cli"
	"github.com/slidecraft/slidecraft/pkg/engine"
	"github.com/slidecraft/slidecraft/pkg/submit"
)

func newGenerateCmd(root *rootFlags) *cobra.Command {
	var flags formFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Compose a request and send it to the configured generation service",
		Example: `  slidecraft generate --topic "Q4 Results" --theme finance_corporate
  slidecraft generate --template quarterly_review --field quarter=Q4 --field revenue=12M`,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, root, &flags)
		},
	}
	addFormFlags(cmd, &flags)

	return cmd
}

func runGenerate(cmd *cobra.Command, root *rootFlags, flags *formFlags, opts ...engine.Opt) error {
	ctx := cmd.Context()

	eng, err := root.loadEngine(ctx, opts...)
	if err != nil {
		return err
	}

	s, err := flags.build(eng.Registry(), eng.NewForm())
	if err != nil {
		return err
	}

	out := cli.NewPrinter(cmd.OutOrStdout())
	out.Printf("Generating with the %s transport...\n", eng.Transport().Name())

	task, err := eng.NewController().Submit(ctx, s)
	if err != nil {
		return err
	}

	result, err := task.Wait(ctx)
	if err != nil {
		return err
	}

	out.PrintResult(result)
	if f, ok := result.(*submit.Failure); ok {
		return RuntimeError{Err: errors.New(f.ErrorMessage)}
	}
	return nil
}
