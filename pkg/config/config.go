package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// EnvConfigPath overrides the config file location when set.
const EnvConfigPath = "FILEGATE_CONFIG_PATH"

type Server struct {
	ListenAddress  string   `yaml:"listenAddress"`
	TLSCertFile    string   `yaml:"tlsCertFile"`
	TLSKeyFile     string   `yaml:"tlsKeyFile"`
	TrustedProxies []string `yaml:"trustedProxies"` // IPs/CIDRs to trust for X-Forwarded-For headers
	AllowedOrigins []string `yaml:"allowedOrigins"` // CORS allow-list; empty disables CORS
}

// Client is a registered API consumer. The set is fixed at startup and
// never mutated at runtime.
type Client struct {
	ID     string `yaml:"id"`
	Secret string `yaml:"secret"`
}

type Auth struct {
	// SigningKey is the shared HMAC key for token signing. Minimum 32 bytes.
	SigningKey string `yaml:"signingKey"`
	// TokenTTL is the token lifetime as a Go duration string, e.g. "24h".
	TokenTTL string   `yaml:"tokenTTL"`
	Clients  []Client `yaml:"clients"`
}

// TTL parses TokenTTL, falling back to 24h on empty or malformed input.
func (a Auth) TTL() time.Duration {
	d, err := time.ParseDuration(a.TokenTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

type RateLimit struct {
	// RequestsPerSecond and Burst configure the general per-IP limiter.
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
	Burst             int     `yaml:"burst"`
	// DownloadMax requests per DownloadWindow configure the stricter
	// download limiter.
	DownloadMax    int    `yaml:"downloadMax"`
	DownloadWindow string `yaml:"downloadWindow"`
}

// Window parses DownloadWindow, falling back to one hour.
func (r RateLimit) Window() time.Duration {
	d, err := time.ParseDuration(r.DownloadWindow)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// Artifact describes the single externally hosted binary this gateway
// gates access to. The gateway never stores or streams the artifact itself.
type Artifact struct {
	URL      string `yaml:"url"`
	FileName string `yaml:"fileName"`
	Source   string `yaml:"source"`
}

type Storage struct {
	BaseURL string `yaml:"baseURL"`
	APIKey  string `yaml:"apiKey"`
	Timeout string `yaml:"timeout"`
	// EncryptionKey optionally enables AES-256-GCM sealing of uploads
	// before they reach the blob store. Base64-encoded 32-byte key.
	EncryptionKey string `yaml:"encryptionKey"`
}

// RequestTimeout parses Timeout, falling back to 30s.
func (s Storage) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(s.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

type Config struct {
	Server    Server    `yaml:"server"`
	Auth      Auth      `yaml:"auth"`
	RateLimit RateLimit `yaml:"rateLimit"`
	Artifact  Artifact  `yaml:"artifact"`
	Storage   Storage   `yaml:"storage"`
}

// Defaults fills unset fields with production defaults.
func (c *Config) Defaults() {
	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = ":8080"
	}
	if c.Auth.TokenTTL == "" {
		c.Auth.TokenTTL = "24h"
	}
	if c.RateLimit.RequestsPerSecond == 0 {
		// 100 requests per 15 minutes, matching the deployed policy.
		c.RateLimit.RequestsPerSecond = 100.0 / (15 * 60)
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 100
	}
	if c.RateLimit.DownloadMax == 0 {
		c.RateLimit.DownloadMax = 10
	}
	if c.RateLimit.DownloadWindow == "" {
		c.RateLimit.DownloadWindow = "1h"
	}
	if c.Storage.Timeout == "" {
		c.Storage.Timeout = "30s"
	}
}

// Validate checks the invariants that cannot be defaulted away.
func (c Config) Validate() error {
	if len(c.Auth.SigningKey) < 32 {
		return fmt.Errorf("auth.signingKey must be at least 32 bytes, got %d", len(c.Auth.SigningKey))
	}
	if len(c.Auth.Clients) == 0 {
		return fmt.Errorf("auth.clients must register at least one client")
	}
	seen := make(map[string]struct{}, len(c.Auth.Clients))
	for i, cl := range c.Auth.Clients {
		if cl.ID == "" || cl.Secret == "" {
			return fmt.Errorf("auth.clients[%d]: id and secret are required", i)
		}
		if _, dup := seen[cl.ID]; dup {
			return fmt.Errorf("auth.clients[%d]: duplicate client id %q", i, cl.ID)
		}
		seen[cl.ID] = struct{}{}
	}
	if c.Artifact.URL == "" {
		return fmt.Errorf("artifact.url is required")
	}
	return nil
}

// Load loads the gateway configuration from a file path.
// If configPath is empty, the FILEGATE_CONFIG_PATH environment variable is
// consulted, then "./config.yaml".
func Load(configPath ...string) (Config, error) {
	var path string
	if len(configPath) > 0 && configPath[0] != "" {
		path = configPath[0]
	} else if env := os.Getenv(EnvConfigPath); env != "" {
		path = env
	} else {
		path = "./config.yaml"
	}

	var config Config

	content, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("trying to open filegate config file %s: %v", path, err)
	}

	err = yaml.Unmarshal(content, &config)
	if err != nil {
		return config, fmt.Errorf("error unmarshaling YAML %s: %v", path, err)
	}
	config.Defaults()
	return config, nil
}
