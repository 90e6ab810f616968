package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mdlint.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
toctree: TOC.md
root: index.md
database: .cache/lint.db
include: ["*.md", "chapters/**/*.md"]
exclude: ["drafts/**"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "TOC.md", cfg.Toctree)
	assert.Equal(t, "index.md", cfg.Root)
	assert.Equal(t, ".cache/lint.db", cfg.Database)
	assert.Equal(t, DefaultLogFile, cfg.LogFile)
	assert.Equal(t, []string{"*.md", "chapters/**/*.md"}, cfg.Include)
	assert.Equal(t, []string{"drafts/**"}, cfg.Exclude)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "toctree: TOC.md\n")
	t.Setenv("MDLINT_DB", "/tmp/other.db")
	t.Setenv("MDLINT_TOCTREE", "CONTENTS.md")
	t.Setenv("MDLINT_ROOT", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.db", cfg.Database)
	assert.Equal(t, "CONTENTS.md", cfg.Toctree)
	assert.Empty(t, cfg.Root, "an empty MDLINT_ROOT disables the root exemption")
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "toctree: [unclosed\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "no root", mutate: func(c *Config) { c.Root = "" }},
		{name: "no toctree", mutate: func(c *Config) { c.Toctree = "" }, wantErr: true},
		{name: "toctree with directory", mutate: func(c *Config) { c.Toctree = "docs/SUMMARY.md" }, wantErr: true},
		{name: "root not markdown", mutate: func(c *Config) { c.Root = "index.html" }, wantErr: true},
		{name: "no database", mutate: func(c *Config) { c.Database = "" }, wantErr: true},
		{name: "no include", mutate: func(c *Config) { c.Include = nil }, wantErr: true},
		{name: "bad include", mutate: func(c *Config) { c.Include = []string{"[.md"} }, wantErr: true},
		{name: "bad exclude", mutate: func(c *Config) { c.Exclude = []string{"{a"} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
