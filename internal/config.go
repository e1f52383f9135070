package internal

import (
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	NumberOfWorkers int           `env:"NUMBER_OF_WORKERS,default=4" validate:"gt=0"`
	ExtractTimeout  time.Duration `env:"EXTRACT_TIMEOUT,default=30s" validate:"gt=0"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms" validate:"gt=0"`
	MonitorInterval time.Duration `env:"MONITOR_INTERVAL"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true" validate:"required"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true" validate:"required"`
	LogLevel       string `env:"LOG_LEVEL,default=info" validate:"oneof=debug info warn error"`

	// ExtractionServiceURL points at the external OCR/ASR/PDF service;
	// empty means non-text media degrades to empty text.
	ExtractionServiceURL string `env:"EXTRACTION_SERVICE_URL" validate:"omitempty,url"`

	// Narrative generation is optional; set the three NARRATIVE_* values
	// to enable it.
	NarrativeBaseURL  string        `env:"NARRATIVE_BASE_URL" validate:"omitempty,url"`
	NarrativeAPIKey   string        `env:"NARRATIVE_API_KEY"`
	NarrativeModel    string        `env:"NARRATIVE_MODEL"`
	NarrativeMaxChars int           `env:"NARRATIVE_MAX_CHARS,default=4000" validate:"gt=0"`
	NarrativeRPM      int           `env:"NARRATIVE_RPM,default=30" validate:"gt=0"`
	NarrativeTimeout  time.Duration `env:"NARRATIVE_TIMEOUT,default=20s" validate:"gt=0"`

	DebugPort int `env:"DEBUG_PORT"`
}

func (c Config) Validate() error {
	return validator.New().Struct(c)
}

// NarrativeEnabled reports whether the LLM collaborator is configured.
func (c Config) NarrativeEnabled() bool {
	return c.NarrativeBaseURL != "" && c.NarrativeModel != ""
}
