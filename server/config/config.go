// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	localfsconfig "github.com/vudl/hierarchy/server/store/localfs/config"
	"github.com/vudl/hierarchy/utils/logging"
)

const (
	// Config params.

	DefaultEnvPrefix  = "VUDL"
	DefaultConfigName = "vudl.config"
	DefaultConfigType = "yml"
	DefaultConfigPath = "/etc/vudl"

	// Search backends.

	SearchBackendDatastore = "datastore"
	SearchBackendSQLite    = "sqlite"

	DefaultSearchBackend        = SearchBackendDatastore
	DefaultMaxConcurrentFetches = 8
)

var logger = logging.Logger("config")

type Config struct {
	// Objects moved under this PID skip containment rules.
	TrashPID string `json:"trash_pid,omitempty" mapstructure:"trash_pid"`

	// Ancestor resolution stops at these objects.
	TopLevelPIDs []string `json:"top_level_pids,omitempty" mapstructure:"top_level_pids"`

	Repository    localfsconfig.Config `json:"repository,omitempty"     mapstructure:"repository"`
	Cache         CacheConfig          `json:"cache,omitempty"          mapstructure:"cache"`
	DocumentCache DocumentCacheConfig  `json:"document_cache,omitempty" mapstructure:"document_cache"`
	Search        SearchConfig         `json:"search,omitempty"         mapstructure:"search"`
	Collector     CollectorConfig      `json:"collector,omitempty"      mapstructure:"collector"`
	Events        EventsConfig         `json:"events,omitempty"         mapstructure:"events"`
}

type CacheConfig struct {
	Enabled bool `json:"enabled,omitempty" mapstructure:"enabled"`

	// Directory of the persistent payload cache. Empty keeps it in memory.
	Dir string `json:"dir,omitempty" mapstructure:"dir"`
}

type DocumentCacheConfig struct {
	// Root of the derived document cache. Empty disables it.
	Dir string `json:"dir,omitempty" mapstructure:"dir"`
}

type SearchConfig struct {
	Backend      string `json:"backend,omitempty"       mapstructure:"backend"`
	DatastoreDir string `json:"datastore_dir,omitempty" mapstructure:"datastore_dir"`
	SQLitePath   string `json:"sqlite_path,omitempty"   mapstructure:"sqlite_path"`
}

type EventsConfig struct {
	// Prefix stripped from event IDs to get the object PID.
	BaseURL string `json:"base_url,omitempty" mapstructure:"base_url"`
}

type CollectorConfig struct {
	MaxConcurrentFetches int `json:"max_concurrent_fetches,omitempty" mapstructure:"max_concurrent_fetches"`
}

// LoadConfig reads the configuration from the environment and an optional config file.
func LoadConfig() (*Config, error) {
	v := viper.NewWithOptions(
		viper.KeyDelimiter("."),
		viper.EnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_")),
	)

	v.SetConfigName(DefaultConfigName)
	v.SetConfigType(DefaultConfigType)
	v.AddConfigPath(DefaultConfigPath)

	v.SetEnvPrefix(DefaultEnvPrefix)
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	// Read the config file
	if err := v.ReadInConfig(); err != nil {
		fileNotFoundError := viper.ConfigFileNotFoundError{}
		if errors.As(err, &fileNotFoundError) {
			logger.Info("Config file not found, use defaults.")
		} else {
			return nil, fmt.Errorf("failed to read configuration file: %w", err)
		}
	}

	return load(v)
}

// LoadConfigFile reads the configuration from path, with environment overrides.
func LoadConfigFile(path string) (*Config, error) {
	v := viper.NewWithOptions(
		viper.KeyDelimiter("."),
		viper.EnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_")),
	)

	v.SetConfigFile(path)
	v.SetEnvPrefix(DefaultEnvPrefix)
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	//
	// Objects
	//
	_ = v.BindEnv("trash_pid")
	v.SetDefault("trash_pid", "")

	_ = v.BindEnv("top_level_pids")

	//
	// Repository configuration
	//
	_ = v.BindEnv("repository.local_dir")
	v.SetDefault("repository.local_dir", localfsconfig.DefaultDir)

	//
	// Cache configuration
	//
	_ = v.BindEnv("cache.enabled")
	v.SetDefault("cache.enabled", false)

	_ = v.BindEnv("cache.dir")
	v.SetDefault("cache.dir", "")

	_ = v.BindEnv("document_cache.dir")
	v.SetDefault("document_cache.dir", "")

	//
	// Search configuration
	//
	_ = v.BindEnv("search.backend")
	v.SetDefault("search.backend", DefaultSearchBackend)

	_ = v.BindEnv("search.datastore_dir")
	v.SetDefault("search.datastore_dir", "")

	_ = v.BindEnv("search.sqlite_path")
	v.SetDefault("search.sqlite_path", "")

	//
	// Collector configuration
	//
	_ = v.BindEnv("collector.max_concurrent_fetches")
	v.SetDefault("collector.max_concurrent_fetches", DefaultMaxConcurrentFetches)

	//
	// Events configuration
	//
	_ = v.BindEnv("events.base_url")
	v.SetDefault("events.base_url", "")

	// Load configuration into struct
	decodeHooks := mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)

	config := &Config{}
	if err := v.Unmarshal(config, viper.DecodeHook(decodeHooks)); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	switch c.Search.Backend {
	case SearchBackendDatastore:
	case SearchBackendSQLite:
		if c.Search.SQLitePath == "" {
			return errors.New("search.sqlite_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown search backend: %q", c.Search.Backend)
	}

	if c.Collector.MaxConcurrentFetches < 1 {
		return fmt.Errorf("collector.max_concurrent_fetches must be positive, got %d", c.Collector.MaxConcurrentFetches)
	}

	return nil
}
