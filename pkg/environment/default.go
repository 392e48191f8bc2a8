package environment

import (
	"errors"
	"io/fs"
	"log/slog"
)

// NewDefaultProvider reads the process environment first, then each of the
// given dotenv files in order. Missing files are skipped.
func NewDefaultProvider(envFiles ...string) (Provider, error) {
	providers := []Provider{NewOsEnvProvider()}

	for _, path := range envFiles {
		p, err := NewEnvFileProvider(path)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("Env file not found, skipping", "path", path)
			continue
		}
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}

	return NewMultiProvider(providers...), nil
}
