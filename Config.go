package surfaceinput

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds node configuration.
type Config struct {
	// Enable gates polling. While false the last frame is kept.
	// Default: true
	Enable bool `yaml:"enable"`

	// NormalizeValues gates position normalization only.
	// Default: true
	NormalizeValues bool `yaml:"normalize_values"`

	// Variant selects the reference dimensions source.
	// Default: "legacy"
	Variant Variant `yaml:"variant"`

	// Reference overrides the variant's reference dimensions when set.
	Reference *Reference `yaml:"reference,omitempty"`

	// RefreshReference re-queries the device surface size every cycle
	// instead of once at construction. Only meaningful for "touchpoint".
	RefreshReference bool `yaml:"refresh_reference"`

	// DevicePath pins the evdev node, e.g. "/dev/input/event3".
	// Empty picks the first direct-touch multitouch device.
	DevicePath string `yaml:"device_path"`
}

// DefaultConfig returns a Config with the node's defaults.
func DefaultConfig() Config {
	return Config{
		Enable:          true,
		NormalizeValues: true,
		Variant:         VariantLegacy,
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	switch c.Variant {
	case VariantLegacy, VariantTouchPoint:
	default:
		return fmt.Errorf("variant must be %q or %q, got %q", VariantLegacy, VariantTouchPoint, c.Variant)
	}
	if c.Reference != nil {
		if !c.Reference.Position.Valid() {
			return fmt.Errorf("reference.position must be positive, got %vx%v", c.Reference.Position.Width, c.Reference.Position.Height)
		}
		if !c.Reference.Size.Valid() {
			return fmt.Errorf("reference.size must be positive, got %vx%v", c.Reference.Size.Width, c.Reference.Size.Height)
		}
	}
	if c.RefreshReference && c.Variant != VariantTouchPoint {
		return fmt.Errorf("refresh_reference requires variant %q", VariantTouchPoint)
	}
	return nil
}

// Inputs Returns the per-cycle inputs the config starts with.
func (c *Config) Inputs() Inputs {
	return Inputs{Enable: c.Enable, NormalizeValues: c.NormalizeValues}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
