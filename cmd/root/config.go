package root

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/slidecraft/slidecraft/pkg/cli"
	"github.com/slidecraft/slidecraft/pkg/userconfig"
)

func newConfigCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage user configuration",
		Long:  "View and manage the slidecraft configuration stored in ~/.config/slidecraft/config.yaml",
		Example: `  # Write a config file with the defaults
  slidecraft config init

  # Show the effective configuration
  slidecraft config show`,
		GroupID: "advanced",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, root)
		},
	}

	cmd.AddCommand(newConfigInitCmd(root))
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, root)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the path to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cli.NewPrinter(cmd.OutOrStdout()).Println(root.configFile())
			return nil
		},
	})

	return cmd
}

func newConfigInitCmd(root *rootFlags) *cobra.Command {
	var (
		force     bool
		transport string
		proxyURL  string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := root.configFile()

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			cfg := userconfig.Default()
			cfg.Transport = transport
			cfg.Proxy.BaseURL = proxyURL
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.Save(path); err != nil {
				return err
			}

			cli.NewPrinter(cmd.OutOrStdout()).Printf("Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	cmd.Flags().StringVar(&transport, "transport", userconfig.TransportDirect, "Generation transport: direct or proxy")
	cmd.Flags().StringVar(&proxyURL, "proxy-url", "", "Base URL of the presentation backend (proxy transport)")

	return cmd
}

func runConfigShow(cmd *cobra.Command, root *rootFlags) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	data, err := yaml.MarshalWithOptions(cfg, yaml.IndentSequence(true), yaml.UseSingleQuote(false))
	if err != nil {
		return fmt.Errorf("failed to format config: %w", err)
	}

	cli.NewPrinter(cmd.OutOrStdout()).Printf("%s", data)
	return nil
}

func (f *rootFlags) configFile() string {
	if f.configPath != "" {
		return f.configPath
	}
	return userconfig.Path()
}

func parseDuration(flag, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", flag, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", flag)
	}
	return d, nil
}
