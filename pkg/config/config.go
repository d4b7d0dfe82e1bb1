package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds exporter configuration for relief-engine.
// Configuration can come from a YAML file or environment variables;
// environment variables override YAML values. Every field has a default
// equal to the platform constant it replaces, so a zero-config load
// reproduces the documented export behavior exactly. Downstream HXL/IATI
// consumers depend on these defaults; override them only for a deployment
// that genuinely reports under a different organization.
type Config struct {
	// OrganizationName is the fallback organization used whenever an input
	// record carries no organization of its own.
	OrganizationName string `yaml:"organization_name" env:"RELIEF_ORGANIZATION_NAME" env-default:"ReliefWorks"`

	// DefaultCountry labels locations that arrive without a usable name and
	// fills the 3W country column.
	DefaultCountry string `yaml:"default_country" env:"RELIEF_DEFAULT_COUNTRY" env-default:"Kenya"`

	// IATI holds settings specific to IATI activity export.
	IATI IATIConfig `yaml:"iati"`
}

// IATIConfig holds IATI-specific export settings.
type IATIConfig struct {
	// ActivityPrefix is prepended to mission IDs to form globally unique
	// IATI activity identifiers ("<prefix>-<mission id>").
	ActivityPrefix string `yaml:"activity_prefix" env:"RELIEF_IATI_ACTIVITY_PREFIX" env-default:"RW-KE"`

	// ReportingOrgRef is the IATI organisation identifier this platform
	// publishes under.
	ReportingOrgRef string `yaml:"reporting_org_ref" env:"RELIEF_IATI_REPORTING_ORG_REF" env-default:"KE-NGO-RELIEFWORKS"`

	// DefaultCurrency is used for transactions whose currency is unspecified.
	DefaultCurrency string `yaml:"default_currency" env:"RELIEF_IATI_DEFAULT_CURRENCY" env-default:"USD"`
}

// Default returns the configuration built from environment variables and
// built-in defaults, without reading any file. This is the normal entry
// point for library consumers.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment config: %w", err)
	}
	return cfg, nil
}

// Load reads configuration from the given YAML file with environment
// variable overrides. A missing file is not an error; the defaults apply.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default()
	}

	cfg := &Config{}
	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return cfg, nil
}
