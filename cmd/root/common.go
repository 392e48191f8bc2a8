package root

import (
	"context"
	"fmt"
	"slices"

	"github.com/slidecraft/slidecraft/pkg/engine"
	"github.com/slidecraft/slidecraft/pkg/environment"
	"github.com/slidecraft/slidecraft/pkg/registry"
	"github.com/slidecraft/slidecraft/pkg/userconfig"
)

func (f *rootFlags) loadConfig() (*userconfig.Config, error) {
	cfg, err := userconfig.Load(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// loadRegistry is enough for commands that never reach a transport.
func (f *rootFlags) loadRegistry() (*userconfig.Config, *registry.Registry, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	reg, err := engine.LoadRegistry(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, reg, nil
}

func (f *rootFlags) loadEngine(ctx context.Context, opts ...engine.Opt) (*engine.Engine, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, err
	}

	env, err := environment.NewDefaultProvider(slices.Concat(f.envFiles, cfg.EnvFiles)...)
	if err != nil {
		return nil, err
	}

	return engine.New(ctx, cfg, env, opts...)
}
