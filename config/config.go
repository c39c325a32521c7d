// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/poiesic/medsearch/dataset"
	"github.com/poiesic/medsearch/importer"
	"github.com/poiesic/medsearch/search"
)

// Config holds every tunable setting.
type Config struct {
	Dataset DatasetConfig `toml:"dataset"`
	Scoring ScoringConfig `toml:"scoring"`
	Storage StorageConfig `toml:"storage"`
}

// DatasetConfig locates the dataset file and its required columns.
type DatasetConfig struct {
	// Path is the CSV or TSV file to search.
	Path string `toml:"path"`

	// NameColumn is the header of the display name column.
	// Default: "medicine_name"
	NameColumn string `toml:"name_column"`

	// TextColumn is the header of the searchable text column.
	// Default: "search_text"
	TextColumn string `toml:"text_column"`
}

// ScoringConfig controls how results are ranked and filtered.
type ScoringConfig struct {
	// SemanticWeight multiplies the TF-IDF cosine similarity. Default: 0.7
	SemanticWeight float64 `toml:"semantic_weight"`

	// FuzzyWeight multiplies the name partial-ratio similarity. Default: 0.3
	FuzzyWeight float64 `toml:"fuzzy_weight"`

	// MinScore is the exclusive floor on the blended score. Default: 0.1
	MinScore float64 `toml:"min_score"`

	// Limit caps results per query. 0 means unlimited.
	Limit int `toml:"limit"`
}

// StorageConfig locates the record store and tunes imports into it.
type StorageConfig struct {
	// Path is the BadgerDB directory.
	Path string `toml:"path"`

	// BatchSize is the number of records written per transaction. Default: 500
	BatchSize int `toml:"batch_size"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithDatasetPath sets the dataset file.
func WithDatasetPath(path string) ConfigOption {
	return func(c *Config) {
		c.Dataset.Path = path
	}
}

// WithColumns sets the name and text column headers.
func WithColumns(name, text string) ConfigOption {
	return func(c *Config) {
		c.Dataset.NameColumn = name
		c.Dataset.TextColumn = text
	}
}

// WithWeights sets the semantic and fuzzy blend weights.
func WithWeights(semantic, fuzzy float64) ConfigOption {
	return func(c *Config) {
		c.Scoring.SemanticWeight = semantic
		c.Scoring.FuzzyWeight = fuzzy
	}
}

// WithMinScore sets the score floor.
func WithMinScore(score float64) ConfigOption {
	return func(c *Config) {
		c.Scoring.MinScore = score
	}
}

// WithLimit sets the per-query result cap.
func WithLimit(limit int) ConfigOption {
	return func(c *Config) {
		c.Scoring.Limit = limit
	}
}

// WithDBPath sets the record store directory.
func WithDBPath(path string) ConfigOption {
	return func(c *Config) {
		c.Storage.Path = path
	}
}

// WithBatchSize sets the import batch size.
func WithBatchSize(size int) ConfigOption {
	return func(c *Config) {
		c.Storage.BatchSize = size
	}
}

// DefaultConfig returns a Config with the default column names and scoring.
// Neither a dataset nor a store path is set.
func DefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			NameColumn: dataset.DefaultNameColumn,
			TextColumn: dataset.DefaultTextColumn,
		},
		Scoring: ScoringConfig{
			SemanticWeight: search.DefaultSemanticWeight,
			FuzzyWeight:    search.DefaultFuzzyWeight,
			MinScore:       search.DefaultMinScore,
		},
		Storage: StorageConfig{
			BatchSize: importer.DefaultConfig().BatchSize,
		},
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Load reads a TOML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", ErrInvalidConfig, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize trims paths and column names and restores defaults for blank columns
// and a zero batch size.
func (c *Config) Normalize() {
	c.Dataset.Path = strings.TrimSpace(c.Dataset.Path)
	c.Dataset.NameColumn = strings.TrimSpace(c.Dataset.NameColumn)
	c.Dataset.TextColumn = strings.TrimSpace(c.Dataset.TextColumn)
	c.Storage.Path = strings.TrimSpace(c.Storage.Path)

	if c.Dataset.NameColumn == "" {
		c.Dataset.NameColumn = dataset.DefaultNameColumn
	}
	if c.Dataset.TextColumn == "" {
		c.Dataset.TextColumn = dataset.DefaultTextColumn
	}
	if c.Storage.BatchSize == 0 {
		c.Storage.BatchSize = importer.DefaultConfig().BatchSize
	}
}

// Validate checks that the configuration is valid.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	s := c.Scoring
	if s.SemanticWeight < 0 || s.FuzzyWeight < 0 {
		return fmt.Errorf("%w: weights cannot be negative", ErrInvalidConfig)
	}
	if s.SemanticWeight+s.FuzzyWeight == 0 {
		return fmt.Errorf("%w: at least one weight must be positive", ErrInvalidConfig)
	}
	if s.MinScore < 0 || s.MinScore >= 1 {
		return fmt.Errorf("%w: min_score must be in [0, 1)", ErrInvalidConfig)
	}
	if s.Limit < 0 {
		return fmt.Errorf("%w: limit cannot be negative", ErrInvalidConfig)
	}
	if c.Storage.BatchSize < 1 {
		return fmt.Errorf("%w: batch_size must be positive", ErrInvalidConfig)
	}
	return nil
}

// DatasetOptions returns the loader options for the configured columns.
func (c *Config) DatasetOptions() dataset.Options {
	return dataset.Options{
		NameColumn: c.Dataset.NameColumn,
		TextColumn: c.Dataset.TextColumn,
	}
}

// ScoringOptions returns the searcher options for the configured scoring.
func (c *Config) ScoringOptions() []search.Option {
	return []search.Option{
		search.WithWeights(c.Scoring.SemanticWeight, c.Scoring.FuzzyWeight),
		search.WithMinScore(c.Scoring.MinScore),
		search.WithLimit(c.Scoring.Limit),
	}
}

// ImportConfig returns importer settings using the configured batch size.
func (c *Config) ImportConfig() *importer.Config {
	cfg := importer.DefaultConfig()
	cfg.BatchSize = c.Storage.BatchSize
	cfg.ReportInterval = c.Storage.BatchSize
	return cfg
}
