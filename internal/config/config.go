// Package config loads the engagectl configuration from disk and the
// environment. The file is optional; environment variables override it.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/engagectl/internal/messages"
)

// Defaults applied when neither the config file nor the environment sets a value.
const (
	DefaultServiceURL          = "https://policy.engage.conn-castle.dev"
	DefaultConnectorRepository = "https://releases.conn-castle.dev/engage-connector"
)

// Environment variable names recognized by Load.
const (
	EnvServiceURL          = "ENGAGECTL_SERVICE_URL"
	EnvTenant              = "ENGAGECTL_TENANT"
	EnvToken               = "ENGAGECTL_TOKEN"
	EnvConnectorRepository = "ENGAGECTL_CONNECTOR_REPOSITORY"
)

// Config holds connection parameters for the policy service and the connector
// release repository.
type Config struct {
	ServiceURL          string `toml:"service_url"`
	Tenant              string `toml:"tenant"`
	Token               string `toml:"token"`
	ConnectorRepository string `toml:"connector_repository"`
	ConnectorDir        string `toml:"connector_dir"`
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf(messages.ConfigResolveHomeFmt, err)
	}
	return filepath.Join(home, ".engagectl", "config.toml"), nil
}

// DefaultConnectorDir returns where versioned connector copies are kept.
func DefaultConnectorDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf(messages.ConfigResolveHomeFmt, err)
	}
	return filepath.Join(home, ".engagectl", "connectors"), nil
}

// Load reads path (when it exists), applies environment overrides, fills
// defaults, and validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf(messages.ConfigParseErrFmt, path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf(messages.ConfigReadErrFmt, path, err)
	}

	applyEnv(cfg)
	if cfg.ServiceURL == "" {
		cfg.ServiceURL = DefaultServiceURL
	}
	if cfg.ConnectorRepository == "" {
		cfg.ConnectorRepository = DefaultConnectorRepository
	}
	if cfg.ConnectorDir == "" {
		dir, err := DefaultConnectorDir()
		if err != nil {
			return nil, err
		}
		cfg.ConnectorDir = dir
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvServiceURL)); v != "" {
		cfg.ServiceURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTenant)); v != "" {
		cfg.Tenant = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvToken)); v != "" {
		cfg.Token = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvConnectorRepository)); v != "" {
		cfg.ConnectorRepository = v
	}
}

func (c *Config) validate() error {
	parsed, err := url.Parse(c.ServiceURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		if err == nil {
			err = fmt.Errorf("missing scheme or host")
		}
		return fmt.Errorf(messages.ConfigServiceURLErrFmt, c.ServiceURL, err)
	}
	if strings.TrimSpace(c.Tenant) == "" {
		return errors.New(messages.ConfigTenantRequired)
	}
	return nil
}
