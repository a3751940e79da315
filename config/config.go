// Package config provides configuration loading and management for
// semtrace.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete semtrace configuration
type Config struct {
	Precondition PreconditionConfig `yaml:"precondition"`
	Export       ExportConfig       `yaml:"export"`
	NATS         NATSConfig         `yaml:"nats"`
	Watch        WatchConfig        `yaml:"watch"`
}

// PreconditionConfig configures placeholder prefix allocation
type PreconditionConfig struct {
	// Prefix is an explicit placeholder prefix (autogenerated if empty)
	Prefix string `yaml:"prefix"`
	// PrefixLength is the length of autogenerated prefixes (default: 3)
	PrefixLength int `yaml:"prefix_length"`
	// Alphabet is the candidate character set for autogenerated prefixes
	Alphabet string `yaml:"alphabet"`
}

// ExportConfig configures RDF output
type ExportConfig struct {
	// Format is the serialization format: turtle or ntriples
	Format string `yaml:"format"`
	// LineComments enables source-line provenance comments in Turtle
	// output. Nil means unset, so a layered config saying false is
	// distinguishable from one that omits the key.
	LineComments *bool `yaml:"line_comments"`
}

// GetLineComments returns whether line comments are enabled (default: true).
func (c *ExportConfig) GetLineComments() bool {
	if c.LineComments == nil {
		return true
	}
	return *c.LineComments
}

// NATSConfig configures the NATS connection
type NATSConfig struct {
	// URL is the NATS server URL (empty = do not publish)
	URL string `yaml:"url"`
	// Source is the provenance source tag on published triples
	Source string `yaml:"source"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	// DebounceDelay is how long to wait for more changes before processing
	DebounceDelay string `yaml:"debounce_delay"`
	// FileExtensions lists file extensions to watch (default: .jsonld, .json)
	FileExtensions []string `yaml:"file_extensions"`
	// ExcludeDirs lists directory names to skip
	ExcludeDirs []string `yaml:"exclude_dirs"`
}

// GetDebounceDelay returns the debounce delay as a duration.
func (c *WatchConfig) GetDebounceDelay() time.Duration {
	if c.DebounceDelay == "" {
		return 500 * time.Millisecond
	}
	d, err := time.ParseDuration(c.DebounceDelay)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Precondition: PreconditionConfig{
			Prefix:       "", // Autogenerate
			PrefixLength: 3,
			Alphabet:     "abcdefghijklmnopqrstuvwxyz",
		},
		Export: ExportConfig{
			Format:       "turtle",
			LineComments: boolPtr(true),
		},
		NATS: NATSConfig{
			URL:    "",
			Source: "semtrace.ingest",
		},
		Watch: WatchConfig{
			DebounceDelay:  "500ms",
			FileExtensions: []string{".jsonld", ".json"},
			ExcludeDirs:    []string{".git", "node_modules", "vendor"},
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Precondition.PrefixLength <= 0 {
		return fmt.Errorf("precondition.prefix_length must be positive")
	}
	if c.Precondition.Alphabet == "" {
		return fmt.Errorf("precondition.alphabet is required")
	}
	switch c.Export.Format {
	case "turtle", "ntriples":
	default:
		return fmt.Errorf("export.format must be turtle or ntriples, got %q", c.Export.Format)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func boolPtr(b bool) *bool {
	return &b
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Precondition
	if other.Precondition.Prefix != "" {
		c.Precondition.Prefix = other.Precondition.Prefix
	}
	if other.Precondition.PrefixLength != 0 {
		c.Precondition.PrefixLength = other.Precondition.PrefixLength
	}
	if other.Precondition.Alphabet != "" {
		c.Precondition.Alphabet = other.Precondition.Alphabet
	}

	// Export
	if other.Export.Format != "" {
		c.Export.Format = other.Export.Format
	}
	if other.Export.LineComments != nil {
		c.Export.LineComments = other.Export.LineComments
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Source != "" {
		c.NATS.Source = other.NATS.Source
	}

	// Watch
	if other.Watch.DebounceDelay != "" {
		c.Watch.DebounceDelay = other.Watch.DebounceDelay
	}
	if len(other.Watch.FileExtensions) > 0 {
		c.Watch.FileExtensions = other.Watch.FileExtensions
	}
	if len(other.Watch.ExcludeDirs) > 0 {
		c.Watch.ExcludeDirs = other.Watch.ExcludeDirs
	}
}
