// Package config loads the command-line tool's configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/meigma/gltfpack/reencode"
)

// Config is the configuration of the gltfpack command. Command-line flags
// override values loaded from a file.
type Config struct {
	// PackOnly packs buffers without re-encoding images.
	PackOnly bool `yaml:"pack_only"`

	// Format is the output encoding of plain images: "jpeg" or "png".
	Format string `yaml:"format"`

	// Quality is the JPEG quality, 1 to 100.
	Quality int `yaml:"quality"`

	// KTXQuality is the basis compression quality, 0 to 255.
	// 0 lets the encoder choose.
	KTXQuality int `yaml:"ktx_quality"`

	// KTXTranscode requests transcoding basis data to BC1 or BC3.
	KTXTranscode bool `yaml:"ktx_transcode"`

	// Workers is the number of images encoded concurrently.
	// 0 uses one per CPU.
	Workers int `yaml:"workers"`

	// JSONC accepts comments and trailing commas in .gltf input.
	JSONC bool `yaml:"jsonc"`

	// ZstdLevel is the zstd level, 1 to 22, for outputs ending in .zst.
	// 0 uses the library default.
	ZstdLevel int `yaml:"zstd_level"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Cache configures the on-disk cache of encoded images.
	Cache CacheConfig `yaml:"cache"`
}

// CacheConfig configures the encoded image cache.
type CacheConfig struct {
	// Dir is the cache directory. Empty disables the cache.
	Dir string `yaml:"dir"`

	// MaxBytes limits the cache size. 0 means no limit.
	MaxBytes int64 `yaml:"max_bytes"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	p := reencode.DefaultParams()
	return &Config{
		Format:       p.Format.String(),
		Quality:      p.Quality,
		KTXQuality:   int(p.KTXQuality),
		KTXTranscode: p.KTXTranscode,
		LogLevel:     "info",
	}
}

// Load reads a YAML configuration file. Fields absent from the file keep
// their [Default] values; unknown fields are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	defer f.Close()

	cfg := Default()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if _, err := reencode.ParseFormat(c.Format); err != nil {
		errs = append(errs, fmt.Errorf("format: %w", err))
	}
	if c.Quality < 1 || c.Quality > 100 {
		errs = append(errs, fmt.Errorf("quality must be 1..100, got %d", c.Quality))
	}
	if c.KTXQuality < 0 || c.KTXQuality > 255 {
		errs = append(errs, fmt.Errorf("ktx_quality must be 0..255, got %d", c.KTXQuality))
	}
	if c.ZstdLevel < 0 || c.ZstdLevel > 22 {
		errs = append(errs, fmt.Errorf("zstd_level must be 0..22, got %d", c.ZstdLevel))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", c.Workers))
	}
	if c.Cache.MaxBytes < 0 {
		errs = append(errs, fmt.Errorf("cache.max_bytes must be >= 0, got %d", c.Cache.MaxBytes))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Params returns the re-encode parameters. Call Validate first.
func (c *Config) Params() (reencode.Params, error) {
	format, err := reencode.ParseFormat(c.Format)
	if err != nil {
		return reencode.Params{}, err
	}
	return reencode.Params{
		Format:       format,
		Quality:      c.Quality,
		KTXQuality:   uint8(c.KTXQuality), //nolint:gosec // range checked by Validate
		KTXTranscode: c.KTXTranscode,
	}, nil
}

// Level returns the configured log level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
