// Package config loads the pipeline configuration from a TOML file
// with environment-variable overrides for the vector store connection.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the top-level application configuration.
type Config struct {
	Inputs InputsConfig `toml:"inputs"`
	Output OutputConfig `toml:"output"`
	Vector VectorConfig `toml:"vector"`
	Build  BuildConfig  `toml:"build"`
}

// InputsConfig names the raw data sources the pipeline reads.
type InputsConfig struct {
	CatalogPath      string `toml:"catalog_path"`
	ProcessDefsPath  string `toml:"process_defs_path"`
	DiagramSourceDir string `toml:"diagram_source_dir"`
	DiagramSVGDir    string `toml:"diagram_svg_dir"`
	DiagramPNGDir    string `toml:"diagram_png_dir"`
}

// OutputConfig names the build output locations.
type OutputConfig struct {
	DataDir   string `toml:"data_dir"`
	PublicDir string `toml:"public_dir"`
}

// VectorConfig holds the external vector store connection. An empty
// URL disables enrichment entirely; the build still succeeds.
type VectorConfig struct {
	URL        string `toml:"url"`
	APIKey     string `toml:"api_key"`
	Collection string `toml:"collection"`
}

// BuildConfig holds settings for the build behavior.
type BuildConfig struct {
	Concurrency int    `toml:"concurrency"`
	HistoryDB   string `toml:"history_db"`
	RenderPDF   bool   `toml:"render_pdf"`
}

// DefaultConfig returns a Config populated with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Inputs: InputsConfig{
			CatalogPath:      "data/element-catalog.json",
			ProcessDefsPath:  "data/process-definitions.json",
			DiagramSourceDir: "data/diagrams/puml",
			DiagramSVGDir:    "data/diagrams/svg",
			DiagramPNGDir:    "data/diagrams/png",
		},
		Output: OutputConfig{
			DataDir:   "public/data",
			PublicDir: "public/diagrams",
		},
		Vector: VectorConfig{
			Collection: "references",
		},
		Build: BuildConfig{
			Concurrency: 4,
			HistoryDB:   filepath.Join(".atlas", "history.db"),
			RenderPDF:   true,
		},
	}
}

// Load reads the config file at path, merged over the defaults. A
// missing file is not an error; the defaults plus environment
// overrides apply. Environment variables ATLAS_VECTOR_URL,
// ATLAS_VECTOR_API_KEY and ATLAS_VECTOR_COLLECTION always win over
// file values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.Build.Concurrency <= 0 {
		cfg.Build.Concurrency = 1
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ATLAS_VECTOR_URL"); v != "" {
		c.Vector.URL = v
	}
	if v := os.Getenv("ATLAS_VECTOR_API_KEY"); v != "" {
		c.Vector.APIKey = v
	}
	if v := os.Getenv("ATLAS_VECTOR_COLLECTION"); v != "" {
		c.Vector.Collection = v
	}
}
