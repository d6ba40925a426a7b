// Package config loads guardgen's per-repository settings from
// .guardgen.yaml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/guardgen/internal/discover"
	"github.com/phobologic/guardgen/internal/guard"
)

const (
	// FileName is the config file looked up in the repository root.
	FileName = ".guardgen.yaml"
	// EnvPath names an environment variable that overrides the config path.
	EnvPath = "GUARDGEN_CONFIG"

	DefaultMaxFileSize = 1_000_000 // 1 MB
)

// Config is the on-disk configuration.
type Config struct {
	NullAssertions     []string `yaml:"null_assertions"`
	ArgumentExceptions []string `yaml:"argument_exceptions"`
	NullFailure        string   `yaml:"null_failure"`
	IncludeAbstract    bool     `yaml:"include_abstract"`
	IncludeTests       bool     `yaml:"include_tests"`
	Exclude            []string `yaml:"exclude"`
	MaxFileSize        int64    `yaml:"max_file_size"`
	Workers            int      `yaml:"workers"` // 0 means GOMAXPROCS
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		NullAssertions:     []string{guard.DefaultNullAssertion},
		ArgumentExceptions: []string{guard.DefaultArgumentException},
		NullFailure:        guard.DefaultNullFailure,
		MaxFileSize:        DefaultMaxFileSize,
	}
}

// Path resolves which config file to read: an explicit path wins, then
// $GUARDGEN_CONFIG, then FileName under root.
func Path(root, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvPath); env != "" {
		return env
	}
	return filepath.Join(root, FileName)
}

// Load reads the configuration for root. A .env file in root is loaded
// first so it can set GUARDGEN_CONFIG. A missing file at the default
// location yields Default(); a missing explicit file is an error. The
// returned path is empty when defaults were used.
func Load(root, explicit string) (*Config, string, error) {
	_ = godotenv.Load(filepath.Join(root, ".env"))

	path := Path(root, explicit)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && explicit == "" && os.Getenv(EnvPath) == "" {
			return Default(), "", nil
		}
		return nil, "", fmt.Errorf("reading config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return cfg, path, nil
}

// Parse decodes YAML over Default(). Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values guardgen cannot use.
func (c *Config) Validate() error {
	var errs []error
	for _, name := range c.NullAssertions {
		if !isIdentifier(name) {
			errs = append(errs, fmt.Errorf("null_assertions: %q is not a method name", name))
		}
	}
	for _, name := range c.ArgumentExceptions {
		if !isTypeName(name) {
			errs = append(errs, fmt.Errorf("argument_exceptions: %q is not a type name", name))
		}
	}
	if c.NullFailure != "" && !isTypeName(c.NullFailure) {
		errs = append(errs, fmt.Errorf("null_failure: %q is not a type name", c.NullFailure))
	}
	if c.MaxFileSize < 0 {
		errs = append(errs, fmt.Errorf("max_file_size: must not be negative"))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers: must not be negative"))
	}
	return errors.Join(errs...)
}

// GuardOptions converts the configuration into detector options.
func (c *Config) GuardOptions(logger *zap.Logger) guard.Options {
	return guard.Options{
		NullAssertions:     c.NullAssertions,
		ArgumentExceptions: c.ArgumentExceptions,
		NullFailure:        c.NullFailure,
		Logger:             logger,
	}
}

// DiscoverOptions converts the configuration into discovery options.
func (c *Config) DiscoverOptions() discover.Options {
	return discover.Options{Exclude: c.Exclude, IncludeTests: c.IncludeTests}
}

// Marshal renders c as a commented YAML document.
func Marshal(c *Config) ([]byte, error) {
	body, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	header := "# guardgen configuration. See `guardgen --help`.\n"
	return append([]byte(header), body...), nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// isTypeName accepts simple or dot-qualified Java type names.
func isTypeName(s string) bool {
	for _, part := range strings.Split(s, ".") {
		if !isIdentifier(part) {
			return false
		}
	}
	return true
}
