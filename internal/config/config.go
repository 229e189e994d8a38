package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/refdex/refdex/internal/relocate"
	"gopkg.in/yaml.v3"
)

// Config holds everything the build, watch and serve commands need.
// Values come from the environment (REFDEX_* variables) with an optional
// YAML file layered on top.
type Config struct {
	// Document sources and header output.
	SourceDir      string `yaml:"source_dir"`
	Dest           string `yaml:"dest"`
	MakeDirs       bool   `yaml:"make_dirs"`
	FilenameSuffix string `yaml:"filename_suffix"`
	Template       string `yaml:"template"`
	MacroPrefix    string `yaml:"macro_prefix"`

	// Incremental build cache (empty disables it).
	CachePath string `yaml:"cache_path"`

	// Parse worker pool.
	ParseWorkers int `yaml:"parse_workers"`

	// Inspection server.
	Port string `yaml:"port"`

	// PDF extraction.
	PDFFallbackPdftotext bool `yaml:"pdf_fallback_pdftotext"`

	// Header relocation into a native source tree.
	RelocateHeaders bool            `yaml:"relocate_headers"`
	Relocate        relocate.Config `yaml:"relocate"`
}

// Load builds a configuration from the environment.
func Load() Config {
	cfg := Config{
		SourceDir:      envOr("REFDEX_SOURCE_DIR", "docs/ref"),
		Dest:           envOr("REFDEX_DEST", "generated/headers"),
		MakeDirs:       envBool("REFDEX_MKDIRS", false),
		FilenameSuffix: envOr("REFDEX_FILENAME_SUFFIX", "_doc"),
		Template:       os.Getenv("REFDEX_TEMPLATE"),
		MacroPrefix:    envOr("REFDEX_MACRO_PREFIX", "DOC_"),

		CachePath: os.Getenv("REFDEX_CACHE_PATH"),

		ParseWorkers: envInt("REFDEX_PARSE_WORKERS", 4),

		Port: envOr("REFDEX_PORT", "8091"),

		PDFFallbackPdftotext: envBool("REFDEX_PDF_FALLBACK_PDFTOTEXT", true),

		RelocateHeaders: envBool("REFDEX_RELOCATE", false),
	}
	if cfg.ParseWorkers <= 0 {
		cfg.ParseWorkers = 4
	}
	return cfg
}

// LoadFile layers a YAML file over the environment configuration.
func LoadFile(path string) (Config, error) {
	cfg := Load()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.ParseWorkers <= 0 {
		cfg.ParseWorkers = 4
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.SourceDir == "" {
		return fmt.Errorf("source_dir is required")
	}
	if c.Dest == "" {
		return fmt.Errorf("dest is required")
	}
	if c.RelocateHeaders && c.Relocate.SourceDir == "" {
		return fmt.Errorf("relocate.source_dir is required when relocation is enabled")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
