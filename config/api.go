package config

import (
	"fmt"
	"os"
)

// APIConfig defines settings for the HTTP API server.
type APIConfig struct {
	// Addr is the listen address of the API server.
	Addr string `json:"addr"`
	// Token, when set, is required as a bearer token on every request.
	Token string `json:"token"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// Validate checks mandatory fields.
func (c APIConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("api addr is required")
	}
	return nil
}

// CatalogConfig points at the trade template catalog file.
type CatalogConfig struct {
	// Path is the catalog file location. Empty disables the catalog.
	Path string `json:"path"`
}

// Validate checks the catalog file exists when configured.
func (c CatalogConfig) Validate() error {
	if c.Path == "" {
		return nil
	}
	if _, err := os.Stat(c.Path); err != nil {
		return fmt.Errorf("catalog path: %w", err)
	}
	return nil
}
