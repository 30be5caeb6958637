/*
Package config manages TOML config for the SynServe engine.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/nkarev/synserve/internal/utils"
)

// Config holds the entire config structure
type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Context ContextConfig `toml:"context"`
	Cache   CacheConfig   `toml:"cache"`
	Store   StoreConfig   `toml:"store"`
	Model   ModelConfig   `toml:"model"`
}

// EngineConfig tunes the request controller.
type EngineConfig struct {
	DebounceMs       int `toml:"debounce_ms"`
	RequestTimeoutMs int `toml:"request_timeout_ms"`
	MaxSuggestions   int `toml:"max_suggestions"`
}

// ContextConfig tunes the context extractor.
type ContextConfig struct {
	Window     int    `toml:"window"`
	Connectors string `toml:"connectors"`
}

// CacheConfig tunes the in-memory suggestion cache.
type CacheConfig struct {
	Capacity   int `toml:"capacity"`
	TTLMinutes int `toml:"ttl_minutes"`
}

// StoreConfig tunes the optional persistent suggestion store.
type StoreConfig struct {
	Enabled  bool   `toml:"enabled"`
	Path     string `toml:"path"`
	TTLHours int    `toml:"ttl_hours"`
}

// ModelConfig selects the model backend.
type ModelConfig struct {
	Provider string `toml:"provider"`
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"api_key"`
	Model    string `toml:"model"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
// 4. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "synserve")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	// Not conventional, fallback from ~/.config if not writable
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "synserve")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/synserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	var config *Config
	var err error

	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err = LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err = InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			DebounceMs:       200,
			RequestTimeoutMs: 8000,
			MaxSuggestions:   10,
		},
		Context: ContextConfig{
			Window:     120,
			Connectors: "-'’",
		},
		Cache: CacheConfig{
			Capacity:   256,
			TTLMinutes: 30,
		},
		Store: StoreConfig{
			Enabled:  false,
			Path:     "",
			TTLHours: 720,
		},
		Model: ModelConfig{
			Provider: "ollama",
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := utils.SaveTOMLFile(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file, clamping out-of-range values back to
// their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return nil, err
	}
	config.Validate()
	return config, nil
}

// Validate clamps nonsensical values back to defaults.
func (c *Config) Validate() {
	def := DefaultConfig()
	if c.Engine.DebounceMs <= 0 || c.Engine.DebounceMs > 5000 {
		c.Engine.DebounceMs = def.Engine.DebounceMs
	}
	if c.Engine.RequestTimeoutMs <= 0 {
		c.Engine.RequestTimeoutMs = def.Engine.RequestTimeoutMs
	}
	if c.Engine.MaxSuggestions <= 0 || c.Engine.MaxSuggestions > 64 {
		c.Engine.MaxSuggestions = def.Engine.MaxSuggestions
	}
	if c.Context.Window <= 0 || c.Context.Window > 2000 {
		c.Context.Window = def.Context.Window
	}
	if c.Cache.Capacity <= 0 {
		c.Cache.Capacity = def.Cache.Capacity
	}
	if c.Cache.TTLMinutes < 0 {
		c.Cache.TTLMinutes = def.Cache.TTLMinutes
	}
	if c.Store.TTLHours < 0 {
		c.Store.TTLHours = def.Store.TTLHours
	}
}
