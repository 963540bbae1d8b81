// Package sanity holds the CMS-facing helpers the renderer and the static
// build share: project configuration, image URL construction from asset
// references, date formatting and the shape of a published entry.
package sanity

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDataset    = "production"
	DefaultAPIVersion = "2025-02-01"
	DefaultLocale     = "es-AR"
)

// ErrMissingProjectID is returned by Validate when no project is configured.
var ErrMissingProjectID = errors.New("sanity: missing projectId")

// Config identifies the Sanity project and the site being built.
type Config struct {
	SiteURL       string `yaml:"siteUrl"`
	ProjectID     string `yaml:"projectId"`
	Dataset       string `yaml:"dataset"`
	APIVersion    string `yaml:"apiVersion"`
	DefaultLocale string `yaml:"defaultLocale"`
}

// LoadConfig reads a YAML config file, applies environment overrides and
// fills defaults. An empty path or a missing file yields a config built from
// the environment and defaults alone.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SITE_URL"); v != "" {
		c.SiteURL = v
	}
	if v := os.Getenv("SANITY_PROJECT_ID"); v != "" {
		c.ProjectID = v
	}
	if v := os.Getenv("SANITY_DATASET"); v != "" {
		c.Dataset = v
	}
	if v := os.Getenv("SANITY_API_VERSION"); v != "" {
		c.APIVersion = v
	}
}

func (c *Config) normalize() {
	c.SiteURL = strings.TrimRight(strings.TrimSpace(c.SiteURL), "/")
	c.ProjectID = strings.TrimSpace(c.ProjectID)
	c.Dataset = strings.TrimSpace(c.Dataset)
	if c.Dataset == "" {
		c.Dataset = DefaultDataset
	}
	c.APIVersion = strings.TrimSpace(c.APIVersion)
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	c.DefaultLocale = strings.TrimSpace(c.DefaultLocale)
	if c.DefaultLocale == "" {
		c.DefaultLocale = DefaultLocale
	}
}

// Validate reports whether asset references can be resolved.
func (c Config) Validate() error {
	if c.ProjectID == "" {
		return ErrMissingProjectID
	}
	return nil
}

// SanitizeSlug lowercases s and strips everything outside [a-z0-9-].
func SanitizeSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
