package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

const (
	DefaultToctree  = "SUMMARY.md"
	DefaultRoot     = "README.md"
	DefaultDatabase = "mdlint.db"
	DefaultLogFile  = "mdlint.log"

	// FileName is looked up in the working directory when no --config is given
	FileName = ".mdlint.yaml"
)

// Config holds the settings of a lint run
type Config struct {
	Toctree  string   `yaml:"toctree"`
	Root     string   `yaml:"root"`
	Database string   `yaml:"database"`
	LogFile  string   `yaml:"log_file"`
	Include  []string `yaml:"include"`
	Exclude  []string `yaml:"exclude"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Toctree:  DefaultToctree,
		Root:     DefaultRoot,
		Database: DefaultDatabase,
		LogFile:  DefaultLogFile,
		Include:  []string{"*.md"},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// A missing file is not an error unless the path was asked for explicitly.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = FileName
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

// applyEnv lets MDLINT_* variables win over the file
func (c *Config) applyEnv() {
	if env := os.Getenv("MDLINT_DB"); env != "" {
		c.Database = env
	}
	if env := os.Getenv("MDLINT_TOCTREE"); env != "" {
		c.Toctree = env
	}
	if env, ok := os.LookupEnv("MDLINT_ROOT"); ok {
		c.Root = env
	}
}

// Validate checks the configuration is usable
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Toctree, validation.Required, validation.By(markdownName)),
		validation.Field(&c.Root, validation.By(markdownName)),
		validation.Field(&c.Database, validation.Required),
		validation.Field(&c.Include, validation.Required, validation.Each(validation.By(globPattern))),
		validation.Field(&c.Exclude, validation.Each(validation.By(globPattern))),
	)
}

func markdownName(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !strings.HasSuffix(s, ".md") || strings.ContainsAny(s, `/\`) {
		return validation.NewError("mdlint.config.markdown_name", "must be a bare .md filename")
	}
	return nil
}

func globPattern(value any) error {
	s, _ := value.(string)
	if !doublestar.ValidatePattern(s) {
		return validation.NewError("mdlint.config.glob", fmt.Sprintf("invalid pattern %q", s))
	}
	return nil
}
