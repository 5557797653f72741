package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Upload    UploadConfig    `yaml:"upload"`
	Datasets  DatasetConfig   `yaml:"datasets"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release, test
}

// UploadConfig bounds CSV uploads.
type UploadConfig struct {
	MaxSizeMB int     `yaml:"max_size_mb"`
	RateRPS   float64 `yaml:"rate_rps"`
	RateBurst int     `yaml:"rate_burst"`
}

// DatasetConfig controls the in-memory dataset store. Datasets are never
// persisted; the TTL only bounds how long an idle upload stays resident.
type DatasetConfig struct {
	TTLHours    int `yaml:"ttl_hours"`
	CleanupMins int `yaml:"cleanup_mins"`
}

// AnalyticsConfig carries the metric knobs. The status and type labels
// default to the values used by the Jira exports this dashboard was built
// for (a Portuguese-language project, hence "História" and "Cancelado").
type AnalyticsConfig struct {
	StoryType          string   `yaml:"story_type"`
	DoneStatus         string   `yaml:"done_status"`
	ClosedStatuses     []string `yaml:"closed_statuses"`
	AllSentinels       []string `yaml:"all_sentinels"`
	LeadTimeTargetDays float64  `yaml:"lead_time_target_days"`
	TopAssignees       int      `yaml:"top_assignees"`
	// FilterResolved controls whether lead-time statistics are computed
	// from the resolved rows of the filtered view (true) or from all
	// resolved rows of the dataset regardless of active filters (false,
	// the historical behavior).
	FilterResolved bool `yaml:"filter_resolved"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

var GlobalConfig *Config

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		fileCfg := *DefaultConfig()
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, err
		}
		cfg = &fileCfg
	}

	cfg.overrideFromEnv()
	GlobalConfig = cfg
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
			Mode: "debug",
		},
		Upload: UploadConfig{
			MaxSizeMB: 20,
			RateRPS:   2,
			RateBurst: 5,
		},
		Datasets: DatasetConfig{
			TTLHours:    24,
			CleanupMins: 15,
		},
		Analytics: AnalyticsConfig{
			StoryType:          "História",
			DoneStatus:         "Done",
			ClosedStatuses:     []string{"Done", "Canceled", "Cancelado"},
			AllSentinels:       []string{"All", "Todos"},
			LeadTimeTargetDays: 10,
			TopAssignees:       10,
			FilterResolved:     false,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if v := os.Getenv("UPLOAD_MAX_SIZE_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Upload.MaxSizeMB = n
		}
	}
	if v := os.Getenv("DATASET_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Datasets.TTLHours = n
		}
	}
	if v := os.Getenv("STORY_TYPE"); v != "" {
		c.Analytics.StoryType = v
	}
	if v := os.Getenv("FILTER_RESOLVED"); v != "" {
		c.Analytics.FilterResolved = v == "true" || v == "1"
	}
}

func (c *Config) Save(configPath string) error {
	if configPath == "" {
		configPath = "config.yaml"
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}
