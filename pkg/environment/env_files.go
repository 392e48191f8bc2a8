package environment

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/slidecraft/slidecraft/pkg/paths"
)

type KeyValuePair struct {
	Key   string
	Value string
}

// EnvFileProvider serves values read once from a dotenv file.
type EnvFileProvider struct {
	path   string
	values map[string]string
}

func NewEnvFileProvider(path string) (*EnvFileProvider, error) {
	abs, err := ExpandTilde(path)
	if err != nil {
		return nil, err
	}

	pairs, err := ReadEnvFile(abs)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(pairs))
	for _, kv := range pairs {
		values[kv.Key] = kv.Value
	}
	return &EnvFileProvider{path: abs, values: values}, nil
}

func (p *EnvFileProvider) Get(_ context.Context, name string) (string, bool) {
	v, ok := p.values[name]
	return v, ok
}

// ExpandTilde expands a leading ~ or ~/ to the user's home directory.
func ExpandTilde(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}

	homeDir := paths.GetHomeDir()
	if homeDir == "" {
		return "", fmt.Errorf("failed to get user home directory")
	}

	if p == "~" {
		return homeDir, nil
	}

	if strings.HasPrefix(p, "~/") {
		return filepath.Join(homeDir, p[2:]), nil
	}

	return "", fmt.Errorf("unsupported tilde expansion format: %s", p)
}

// ReadEnvFile parses KEY=VALUE lines. Blank lines and # comments are
// skipped, an optional "export " prefix is dropped and matching single or
// double quotes around the value are removed.
func ReadEnvFile(absolutePath string) ([]KeyValuePair, error) {
	buf, err := os.ReadFile(absolutePath)
	if err != nil {
		return nil, err
	}

	var lines []KeyValuePair

	for line := range strings.SplitSeq(string(buf), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		k, v, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid env file line in %s: %s", absolutePath, line)
		}

		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k == "" {
			return nil, fmt.Errorf("invalid env file line in %s: empty key", absolutePath)
		}

		for _, q := range []string{`"`, `'`} {
			if len(v) >= 2 && strings.HasPrefix(v, q) && strings.HasSuffix(v, q) {
				v = v[1 : len(v)-1]
				break
			}
		}

		lines = append(lines, KeyValuePair{
			Key:   k,
			Value: v,
		})
	}

	return lines, nil
}
