// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides optional file-based configuration for
// storefront processes.
//
// Configuration is loaded from a single YAML file specified by:
//   - the STOREFRONT_CONFIG environment variable, or
//   - the --config flag passed to the command
//
// There are no fallbacks or automatic discovery. When neither source
// names a file, Load returns the built-in defaults. Values from the
// file are defaults for the command line: positional arguments and
// flags always win.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/storefront-foundation/storefront/lib/wire"
)

// EnvVar names the environment variable that locates the config file.
const EnvVar = "STOREFRONT_CONFIG"

// Config is the master configuration for storefront processes. Each
// process reads only its own section plus Registry.
type Config struct {
	// Registry locates the service registry.
	Registry RegistryConfig `yaml:"registry"`

	// Store configures the storefront orchestrator.
	Store ServiceConfig `yaml:"store"`

	// Bank configures the financial validator.
	Bank ServiceConfig `yaml:"bank"`

	// Content configures the content repository.
	Content ServiceConfig `yaml:"content"`
}

// RegistryConfig locates the registry process.
type RegistryConfig struct {
	// Host is the registry's address, "localhost" or a dotted quad.
	Host string `yaml:"host"`

	// Port is the registry's listening port.
	Port int `yaml:"port"`
}

// ServiceConfig holds the per-process settings a config file can
// default.
type ServiceConfig struct {
	// Port is the process's listening port.
	Port int `yaml:"port"`

	// DataFile is the stock or content file path, resolved relative
	// to the process working directory.
	DataFile string `yaml:"data_file"`
}

// Default returns the built-in configuration: registry on localhost,
// everything else unset (supplied by positional arguments).
func Default() *Config {
	return &Config{
		Registry: RegistryConfig{Host: "localhost"},
	}
}

// Load reads configuration from explicitPath, or from $STOREFRONT_CONFIG
// when explicitPath is empty, or returns Default when neither is set.
// A named file that is missing or malformed is an error — a config
// file the operator pointed at must never be half-applied.
func Load(explicitPath string) (*Config, error) {
	path := explicitPath
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	configuration := Default()
	if err := yaml.Unmarshal(data, configuration); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := configuration.validate(path); err != nil {
		return nil, err
	}
	return configuration, nil
}

// validate rejects values the registry would also reject, so a bad
// config file fails at startup rather than at registration time.
func (c *Config) validate(path string) error {
	if c.Registry.Host != "" && !wire.ValidAddress(c.Registry.Host) {
		return fmt.Errorf("%s: registry host %q is not localhost or a dotted quad", path, c.Registry.Host)
	}
	for _, section := range []struct {
		name string
		port int
	}{
		{"registry", c.Registry.Port},
		{"store", c.Store.Port},
		{"bank", c.Bank.Port},
		{"content", c.Content.Port},
	} {
		if section.port != 0 && !wire.ValidPort(section.port) {
			return fmt.Errorf("%s: %s port %d out of range 1-65535", path, section.name, section.port)
		}
	}
	return nil
}
