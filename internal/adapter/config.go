package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Theme names
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Config holds all application configuration
type Config struct {
	Source  SourceConfig  `mapstructure:"source"`
	UI      UIConfig      `mapstructure:"ui"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SourceConfig holds the countries API settings
type SourceConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme          string `mapstructure:"theme"` // "dark" or "light"
	PageSize       int    `mapstructure:"page_size"`
	DebounceMS     int    `mapstructure:"debounce_ms"`
	ReplaceHistory bool   `mapstructure:"replace_history"`
	LoadMoreMargin string `mapstructure:"load_more_margin"` // CSS margin shorthand, px
	Opener         string `mapstructure:"opener"`           // command for opening URLs, empty for system default
}

// CacheConfig holds the persisted query cache settings
type CacheConfig struct {
	Dir       string        `mapstructure:"dir"` // empty disables persistence
	StaleTime time.Duration `mapstructure:"stale_time"`
	MaxAge    time.Duration `mapstructure:"max_age"`
	Throttle  time.Duration `mapstructure:"throttle"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			BaseURL: "https://restcountries.com/v3.1",
			Timeout: 10 * time.Second,
		},
		UI: UIConfig{
			Theme:          ThemeDark,
			PageSize:       10,
			DebounceMS:     300,
			ReplaceHistory: false,
			LoadMoreMargin: "0px 0px 200px 0px",
		},
		Cache: CacheConfig{
			Dir:       defaultCachePath(),
			StaleTime: 5 * time.Minute,
			MaxAge:    24 * time.Hour,
			Throttle:  1 * time.Second,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// Debounce returns the configured settle delay
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.UI.DebounceMS) * time.Millisecond
}

// IsLight reports whether the light theme is selected
func (c *Config) IsLight() bool {
	return strings.EqualFold(c.UI.Theme, ThemeLight)
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "globe", "globe.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "globe", "globe.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "globe")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "globe")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "globe", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "globe", "cache")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	return loadConfig(viper.GetViper(), defaultConfigPath())
}

func loadConfig(v *viper.Viper, dir string) (*Config, error) {
	cfg := DefaultConfig()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.AddConfigPath(".")

	// Defaults make every key visible to env lookups
	setAll(v, cfg, v.SetDefault)

	// Environment variable overrides, e.g. GLOBE_UI_PAGE_SIZE
	v.SetEnvPrefix("GLOBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	return saveConfig(viper.GetViper(), defaultConfigPath(), cfg)
}

func saveConfig(v *viper.Viper, dir string, cfg *Config) error {
	// Ensure config directory exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	setAll(v, cfg, v.Set)

	configFile := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveTheme updates just the theme in the configuration file
func SaveTheme(theme string) error {
	return saveTheme(viper.GetViper(), defaultConfigPath(), theme)
}

func saveTheme(v *viper.Viper, dir, theme string) error {
	v.Set("ui.theme", theme)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func setAll(v *viper.Viper, cfg *Config, set func(key string, value any)) {
	set("source.base_url", cfg.Source.BaseURL)
	set("source.timeout", cfg.Source.Timeout)

	set("ui.theme", cfg.UI.Theme)
	set("ui.page_size", cfg.UI.PageSize)
	set("ui.debounce_ms", cfg.UI.DebounceMS)
	set("ui.replace_history", cfg.UI.ReplaceHistory)
	set("ui.load_more_margin", cfg.UI.LoadMoreMargin)
	set("ui.opener", cfg.UI.Opener)

	set("cache.dir", cfg.Cache.Dir)
	set("cache.stale_time", cfg.Cache.StaleTime)
	set("cache.max_age", cfg.Cache.MaxAge)
	set("cache.throttle", cfg.Cache.Throttle)

	set("logging.file", cfg.Logging.File)
	set("logging.level", cfg.Logging.Level)
}

// ClearCache removes all cached data in dir
func ClearCache(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
