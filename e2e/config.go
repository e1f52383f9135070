package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// EXTRACTION_SERVICE_URL points at a running extraction service;
	// scenarios are skipped when it is empty.
	ExtractionServiceURL string `envconfig:"EXTRACTION_SERVICE_URL"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
	// E2E_SAMPLE_DIR holds the fixture documents sent to the service
	SampleDir string `envconfig:"E2E_SAMPLE_DIR" default:"testdata"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
