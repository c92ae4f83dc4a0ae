package config

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultUserAgent is the browser User-Agent attached to extraction requests
// for platforms that reject non-browser clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type Config struct {
	// TempDir is where extraction artifacts are written before encoding.
	TempDir string `mapstructure:"temp_dir"`

	// Cookies holds per-platform credential file paths. A missing file means
	// the platform is accessed unauthenticated; it is never an error.
	Cookies struct {
		YouTube   string `mapstructure:"youtube"`
		Instagram string `mapstructure:"instagram"`
	} `mapstructure:"cookies"`

	Extractor struct {
		// Binary is the yt-dlp executable name or path.
		Binary string `mapstructure:"binary"`
		// Timeout is a Go duration string bounding a single extraction.
		Timeout string `mapstructure:"timeout"`
		// MaxConcurrent caps simultaneous extractions.
		MaxConcurrent int `mapstructure:"max_concurrent"`
	} `mapstructure:"extractor"`

	Server struct {
		Port    int    `mapstructure:"port"`
		Address string `mapstructure:"address"`
	} `mapstructure:"server"`

	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"metrics"`

	Cache struct {
		Provider      string `mapstructure:"provider"`  // "memory" or "redis"; empty disables caching
		Size          int    `mapstructure:"size"`      // entry bound
		MaxBytes      int64  `mapstructure:"max_bytes"` // payload byte bound for the memory provider
		TTL           string `mapstructure:"ttl"`       // Go duration string like "1h", "24h", etc.
		RedisAddress  string `mapstructure:"redis_address"`
		RedisPassword string `mapstructure:"redis_password"`
		RedisDB       int    `mapstructure:"redis_db"`
	} `mapstructure:"cache"`

	LogLevel  string `mapstructure:"log_level"`
	SentryDSN string `mapstructure:"sentry_dsn"`
	UserAgent string `mapstructure:"user_agent"`
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stdout,
		NoColor: false,
	}).With().Timestamp().Logger()

	config, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	// Parse and set log level from config
	level := zerolog.InfoLevel // default
	if config.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", config.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)

	globalConfig = config
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variable support
	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = viper.BindEnv("log_level", "LOG_LEVEL")

	// Set defaults
	viper.SetDefault("temp_dir", "temp_downloads")
	viper.SetDefault("cookies.youtube", "cookies_youtube.txt")
	viper.SetDefault("cookies.instagram", "cookies_instagram.txt")
	viper.SetDefault("extractor.binary", "yt-dlp")
	viper.SetDefault("extractor.timeout", "10m")
	viper.SetDefault("extractor.max_concurrent", 4)
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.address", "0.0.0.0")
	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.port", 9090)
	viper.SetDefault("cache.provider", "")
	viper.SetDefault("cache.size", 64)
	viper.SetDefault("cache.max_bytes", 256<<20)
	viper.SetDefault("cache.ttl", "1h")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}

	return &config, nil
}

func GetConfig() *Config {
	return globalConfig
}

func GetLogger() zerolog.Logger {
	return logger
}
