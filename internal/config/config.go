package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Client ClientConfig
	Server ServerConfig
}

type ClientConfig struct {
	BaseURL        string
	CollectionPath string
	// Timeout bounds a single request; zero means no deadline.
	Timeout     time.Duration
	HistoryFile string
}

type ServerConfig struct {
	Addr string
	DSN  string
	Seed bool
}

func Default() Config {
	return Config{
		Client: ClientConfig{
			BaseURL:        "http://localhost:8080",
			CollectionPath: "api/heroes",
			HistoryFile:    "/tmp/heroes_history",
		},
		Server: ServerConfig{
			Addr: "localhost:8080",
			DSN:  "file:heroes.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)",
			Seed: true,
		},
	}
}

type FileConfig struct {
	Client FileClientConfig `yaml:"client"`
	Server FileServerConfig `yaml:"server"`
}

type FileClientConfig struct {
	BaseURL        string        `yaml:"baseURL"`
	CollectionPath string        `yaml:"collectionPath"`
	Timeout        time.Duration `yaml:"timeout"`
	HistoryFile    string        `yaml:"historyFile"`
}

type FileServerConfig struct {
	Addr string `yaml:"addr"`
	DSN  string `yaml:"dsn"`
	Seed *bool  `yaml:"seed"`
}

// LoadFromPath reads configPath, or the default candidates when it is empty.
// Unreadable or malformed files are skipped; env overrides always apply.
func LoadFromPath(configPath string) Config {
	cfg := Default()

	candidates := make([]string, 0, 2)
	if configPath != "" {
		candidates = append(candidates, configPath)
	} else {
		candidates = append(candidates,
			"configs/config.yaml",
			"config.yaml",
		)
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var parsed FileConfig
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			continue
		}
		Merge(&cfg, parsed)
		break
	}

	ApplyEnvOverrides(&cfg)
	return cfg
}

func Merge(dst *Config, src FileConfig) {
	if src.Client.BaseURL != "" {
		dst.Client.BaseURL = src.Client.BaseURL
	}
	if src.Client.CollectionPath != "" {
		dst.Client.CollectionPath = src.Client.CollectionPath
	}
	if src.Client.Timeout != 0 {
		dst.Client.Timeout = src.Client.Timeout
	}
	if src.Client.HistoryFile != "" {
		dst.Client.HistoryFile = src.Client.HistoryFile
	}
	if src.Server.Addr != "" {
		dst.Server.Addr = src.Server.Addr
	}
	if src.Server.DSN != "" {
		dst.Server.DSN = src.Server.DSN
	}
	if src.Server.Seed != nil {
		dst.Server.Seed = *src.Server.Seed
	}
}

func ApplyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("HEROES_BASE_URL")); v != "" {
		cfg.Client.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("HEROES_SERVER_ADDR")); v != "" {
		cfg.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("HEROES_DB_DSN")); v != "" {
		cfg.Server.DSN = v
	}

	raw := strings.TrimSpace(os.Getenv("HEROES_TIMEOUT"))
	if raw == "" {
		return
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return
	}
	cfg.Client.Timeout = d
}
