// Package config loads and validates host configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// validate is a package-level singleton; creating a validator per call is expensive.
var validate = validator.New()

// Config is the host configuration, usually read from a YAML file.
type Config struct {
	LogLevel       string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat      string        `yaml:"log_format" validate:"oneof=text json"`
	Codec          string        `yaml:"codec" validate:"oneof=json cbor"`
	WasmModuleName string        `yaml:"wasm_module_name" validate:"required,max=64"`
	InvokeExport   string        `yaml:"invoke_export" validate:"omitempty,max=64"`
	Tracing        TracingConfig `yaml:"tracing"`
	MaxRequestSize uint32        `yaml:"max_request_size" validate:"gte=64"`
	PanicRecovery  bool          `yaml:"panic_recovery"`
	Metrics        MetricsConfig `yaml:"metrics"`
}

// MetricsConfig controls the Prometheus invocation metrics.
type MetricsConfig struct {
	Namespace string `yaml:"namespace" validate:"omitempty,alphanum"`
	Enabled   bool   `yaml:"enabled"`
}

// TracingConfig controls OpenTelemetry spans around invocations.
type TracingConfig struct {
	ServiceName string `yaml:"service_name" validate:"required_if=Enabled true"`
	Enabled     bool   `yaml:"enabled"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Codec:          "json",
		WasmModuleName: "native",
		InvokeExport:   "native_invoke",
		MaxRequestSize: 1 * 1024 * 1024,
		PanicRecovery:  true,
		Metrics:        MetricsConfig{Namespace: "nativefn"},
		Tracing:        TracingConfig{ServiceName: "nativefn"},
	}
}

// Load reads and validates the YAML configuration at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the struct tags.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
