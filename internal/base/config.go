package base

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
)

// APIPath is appended to the base URL for every request.
const APIPath = "/api.php"

// Config holds the wiki endpoint settings. It is read once at startup and
// not modified afterwards.
type Config struct {
	// BaseURL is the wiki root (e.g., https://wiki.example.com/w). ENV: MEDIAWIKI_URL
	BaseURL string `env:"MEDIAWIKI_URL,default=http://localhost"`

	// UserAgent identifies the client to the wiki. ENV: MEDIAWIKI_USER_AGENT
	UserAgent string `env:"MEDIAWIKI_USER_AGENT,default=mediawiki-mcp-server/1.0 (github.com/olgasafonova/mediawiki-mcp-server)"`

	// Timeout bounds a single HTTP request; zero disables it. ENV: MEDIAWIKI_TIMEOUT
	Timeout time.Duration `env:"MEDIAWIKI_TIMEOUT,default=30s"`
}

// LoadConfig reads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate normalizes BaseURL and checks that it is an absolute http(s) URL.
func (c *Config) Validate() error {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		return fmt.Errorf("MEDIAWIKI_URL must not be empty")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid MEDIAWIKI_URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid MEDIAWIKI_URL %q: scheme must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid MEDIAWIKI_URL %q: missing host", c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("MEDIAWIKI_TIMEOUT must not be negative")
	}
	return nil
}

// Endpoint returns the full api.php URL.
func (c *Config) Endpoint() string {
	return c.BaseURL + APIPath
}
