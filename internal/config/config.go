package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "TALENTLINK_"

// Config represents the client configuration.
type Config struct {
	API struct {
		BaseURL       string  `koanf:"base_url"`
		RatePerSecond float64 `koanf:"rate_per_second"`
		Burst         int     `koanf:"burst"`
	} `koanf:"api"`

	Poll struct {
		MessagesInterval      time.Duration `koanf:"messages_interval"`
		NotificationsInterval time.Duration `koanf:"notifications_interval"`
		ReadGracePolls        int           `koanf:"read_grace_polls"`
	} `koanf:"poll"`

	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`

	Data struct {
		Dir string `koanf:"dir"`
	} `koanf:"data"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"api.base_url":                "http://localhost:8000/api",
		"api.rate_per_second":         5.0,
		"api.burst":                   5,
		"poll.messages_interval":      "4s",
		"poll.notifications_interval": "10s",
		"poll.read_grace_polls":       2,
		"log.level":                   "info",
		"data.dir":                    "$HOME/.talentlink",
	}
}

// Load loads the configuration. An explicit path must exist; otherwise the
// default locations are tried in order and a missing file is not an error.
func Load(configPath string) (*Config, error) {
	var k = koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		defaultPaths := []string{"./talentlink.toml", "$HOME/.talentlink.toml"}
		for _, path := range defaultPaths {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err == nil {
					break
				}
			}
		}
	}

	// TALENTLINK_API_BASE_URL -> api.base_url: only the first underscore
	// separates the section.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.Replace(key, "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	cfg.Data.Dir = expandHome(cfg.Data.Dir)
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	return &cfg, nil
}

func expandHome(p string) string {
	p = os.ExpandEnv(p)
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[2:])
		}
	}
	return p
}

// LogFile is where the TUI writes its logs.
func (c *Config) LogFile() string { return filepath.Join(c.Data.Dir, "talentlink.log") }

// Init writes a sample configuration file.
func Init(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists at %s", configPath)
	}

	sample := `# TalentLink client configuration

[api]
base_url = "http://localhost:8000/api"
rate_per_second = 5.0
burst = 5

[poll]
messages_interval = "4s"
notifications_interval = "10s"
# polls after a mark-read is acknowledged during which the local read state wins
read_grace_polls = 2

[log]
level = "info"

[data]
dir = "$HOME/.talentlink"
`
	return os.WriteFile(configPath, []byte(sample), 0o644)
}

// Validate validates the configuration.
func Validate(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute URL, got %q", cfg.API.BaseURL)
	}
	if cfg.API.RatePerSecond <= 0 {
		return fmt.Errorf("api.rate_per_second must be positive")
	}
	if cfg.API.Burst < 1 {
		return fmt.Errorf("api.burst must be at least 1")
	}
	if cfg.Poll.MessagesInterval <= 0 || cfg.Poll.NotificationsInterval <= 0 {
		return fmt.Errorf("poll intervals must be positive")
	}
	if cfg.Poll.ReadGracePolls < 0 {
		return fmt.Errorf("poll.read_grace_polls cannot be negative")
	}
	if cfg.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}
	return nil
}
