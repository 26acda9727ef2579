// Package config loads SAPF's runtime configuration from environment
// variables, with an optional sapf.yaml override file, mirroring the
// teacher's env-plus-file configuration layering.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Version is the current SAPF version. Set at build time via -ldflags,
// or left at this default for development builds.
var Version = "0.1.0"

const SourceFileExt = ".sapf"

// defaultBlockSizes is the default block-scheduling granularity for a given
// sample rate, overridable per-rate via sapf.yaml's block_sizes map.
var defaultBlockSizes = map[int]int{
	44100: 64,
	48000: 64,
	96000: 128,
}

const defaultBlockSize = 64

// Config holds SAPF's resolved runtime configuration: environment
// variables read once at startup, optionally overridden by sapf.yaml.
type Config struct {
	SampleRate      int
	BlockSizes      map[int]int
	Prelude         string
	LogPath         string
	RecordingsDir   string
	SpectrogramsDir string
}

// fileConfig is the shape of an optional sapf.yaml override.
type fileConfig struct {
	SampleRate      int         `yaml:"sample_rate"`
	BlockSizes      map[int]int `yaml:"block_sizes"`
	RecordingsDir   string      `yaml:"recordings_dir"`
	SpectrogramsDir string      `yaml:"spectrograms_dir"`
}

// Load reads SAPF_PRELUDE, SAPF_LOG, SAPF_RECORDINGS, SAPF_SPECTROGRAMS
// from the environment, then applies sapf.yaml (if present in the
// current directory or at $SAPF_CONFIG) on top.
func Load() (*Config, error) {
	home, _ := os.UserHomeDir()

	c := &Config{
		SampleRate:      48000,
		BlockSizes:      cloneBlockSizes(),
		Prelude:         os.Getenv("SAPF_PRELUDE"),
		LogPath:         os.Getenv("SAPF_LOG"),
		RecordingsDir:   os.Getenv("SAPF_RECORDINGS"),
		SpectrogramsDir: os.Getenv("SAPF_SPECTROGRAMS"),
	}
	if c.LogPath == "" && home != "" {
		c.LogPath = filepath.Join(home, "sapf-log.txt")
	}
	if c.RecordingsDir == "" && home != "" {
		c.RecordingsDir = filepath.Join(home, "sapf", "recordings")
	}
	if c.SpectrogramsDir == "" && home != "" {
		c.SpectrogramsDir = filepath.Join(home, "sapf", "spectrograms")
	}

	path := os.Getenv("SAPF_CONFIG")
	if path == "" {
		path = "sapf.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, err
	}
	if fc.SampleRate != 0 {
		c.SampleRate = fc.SampleRate
	}
	for rate, size := range fc.BlockSizes {
		c.BlockSizes[rate] = size
	}
	if fc.RecordingsDir != "" {
		c.RecordingsDir = fc.RecordingsDir
	}
	if fc.SpectrogramsDir != "" {
		c.SpectrogramsDir = fc.SpectrogramsDir
	}
	return c, nil
}

// BlockSize returns the configured block size for rate, falling back to
// defaultBlockSize when the rate has no explicit entry.
func (c *Config) BlockSize(rate int) int {
	if n, ok := c.BlockSizes[rate]; ok {
		return n
	}
	return defaultBlockSize
}

func cloneBlockSizes() map[int]int {
	m := make(map[int]int, len(defaultBlockSizes))
	for k, v := range defaultBlockSizes {
		m[k] = v
	}
	return m
}
