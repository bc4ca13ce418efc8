package surfaceinput

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "surface.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.Enable)
	assert.True(t, cfg.NormalizeValues)
	assert.Equal(t, VariantLegacy, cfg.Variant)
	assert.Nil(t, cfg.Reference)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, Inputs{Enable: true, NormalizeValues: true}, cfg.Inputs())
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
normalize_values: false
variant: touchpoint
refresh_reference: true
device_path: /dev/input/event7
reference:
  position: {width: 512, height: 512}
  size: {width: 512, height: 384}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Enable, "unset keys keep their defaults")
	assert.False(t, cfg.NormalizeValues)
	assert.Equal(t, VariantTouchPoint, cfg.Variant)
	assert.True(t, cfg.RefreshReference)
	assert.Equal(t, "/dev/input/event7", cfg.DevicePath)
	require.NotNil(t, cfg.Reference)
	assert.Equal(t, Dimensions{Width: 512, Height: 384}, cfg.Reference.Size)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "variant: [unterminated"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "variant: hologram"))
	assert.ErrorContains(t, err, "variant")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero position reference", func(c *Config) {
			c.Reference = &Reference{Size: Dimensions{Width: 1, Height: 1}}
		}},
		{"zero size reference", func(c *Config) {
			c.Reference = &Reference{Position: Dimensions{Width: 1, Height: 1}}
		}},
		{"refresh on legacy", func(c *Config) {
			c.RefreshReference = true
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
