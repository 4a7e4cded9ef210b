package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var ErrDuplicateSite = errors.New("duplicate site ref")

// Loader reads a NetSvcConfig from a YAML file, expanding ${VAR} references
// from the environment so passwords can stay out of the file.
type Loader struct {
	useDotEnv   bool
	dotEnvFiles []string
}

func NewLoader() *Loader {
	return &Loader{useDotEnv: true}
}

// WithDotEnv toggles loading variables from .env files before reading config.
func (l *Loader) WithDotEnv(enabled bool, files ...string) *Loader {
	l.useDotEnv = enabled
	l.dotEnvFiles = files
	return l
}

func (l *Loader) Load(path string) (*NetSvcConfig, error) {
	if l.useDotEnv {
		// A missing .env is normal outside development.
		if err := godotenv.Load(l.dotEnvFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load dotenv: %w", err)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes YAML config on top of DefaultNetSvcConfig.
func Parse(raw []byte) (*NetSvcConfig, error) {
	cfg := DefaultNetSvcConfig()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	seen := make(map[string]struct{}, len(cfg.Sites))
	for i, site := range cfg.Sites {
		if site.Ref == "" {
			return nil, fmt.Errorf("site %d: empty ref", i)
		}
		if _, dup := seen[site.Ref]; dup {
			return nil, fmt.Errorf("site %q: %w", site.Ref, ErrDuplicateSite)
		}
		seen[site.Ref] = struct{}{}
		if err := site.Validate(); err != nil {
			return nil, fmt.Errorf("site %q: %w", site.Ref, err)
		}
	}
	return &cfg, nil
}
