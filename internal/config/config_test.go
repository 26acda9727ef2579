package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlockSizeFallsBackToDefaultForUnknownRate(t *testing.T) {
	c := &Config{BlockSizes: cloneBlockSizes()}
	require.Equal(t, 64, c.BlockSize(48000))
	require.Equal(t, defaultBlockSize, c.BlockSize(22050))
}

func TestLoadWithNoEnvOrFileUsesBuiltinDefaults(t *testing.T) {
	t.Setenv("SAPF_PRELUDE", "")
	t.Setenv("SAPF_LOG", "")
	t.Setenv("SAPF_RECORDINGS", "")
	t.Setenv("SAPF_SPECTROGRAMS", "")
	t.Setenv("SAPF_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, 48000, c.SampleRate)
	require.Equal(t, 64, c.BlockSize(48000))
}

func TestLoadAppliesYamlOverrideOnTopOfDefaults(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "sapf.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("sample_rate: 96000\nblock_sizes:\n  96000: 256\n"), 0644))
	t.Setenv("SAPF_CONFIG", yamlPath)
	t.Setenv("SAPF_PRELUDE", "")

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, 96000, c.SampleRate)
	require.Equal(t, 256, c.BlockSize(96000))
	require.Equal(t, 64, c.BlockSize(44100), "an override for one rate must not disturb the others")
}
