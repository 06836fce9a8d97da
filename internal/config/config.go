package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Auth     AuthConfig     `json:"auth"`
	OpenAI   OpenAIConfig   `json:"openai"`
}

type ServerConfig struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	CORSOrigins string `json:"cors_origins"`
}

// DatabaseConfig selects the durable store backend. Driver is "sqlite"
// (embedded, default) or "postgres".
type DatabaseConfig struct {
	Driver   string `json:"driver"`
	Path     string `json:"path"` // sqlite file path
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"sslmode"`
}

type AuthConfig struct {
	Enabled bool   `json:"enabled"`
	Secret  string `json:"secret"`
	Issuer  string `json:"issuer"`
}

type OpenAIConfig struct {
	APIKey string `json:"api_key"`
	Model  string `json:"model"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	// Add config paths
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Check for user config directory
	homeDir, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(homeDir, ".voxstream"))
	}

	// Set defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.path", defaultDBPath())
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "voxstream")
	viper.SetDefault("database.database", "voxstream")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("auth.enabled", false)
	viper.SetDefault("auth.issuer", "voxstream-backend")
	viper.SetDefault("openai.model", "gpt-3.5-turbo")

	// Read config
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			cfg := defaultConfig()
			loadEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Load environment variables
	loadEnvOverrides(&cfg)

	return &cfg, nil
}

func defaultDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "voxstream.sqlite"
	}
	return filepath.Join(homeDir, ".voxstream", "voxstream.sqlite")
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Driver:   "sqlite",
			Path:     defaultDBPath(),
			Host:     "localhost",
			Port:     5432,
			User:     "voxstream",
			Database: "voxstream",
			SSLMode:  "disable",
		},
		Auth: AuthConfig{
			Enabled: false,
			Issuer:  "voxstream-backend",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-3.5-turbo",
		},
	}
}

func loadEnvOverrides(cfg *Config) {
	// Override with environment variables
	if port := os.Getenv("VOXSTREAM_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}

	if host := os.Getenv("VOXSTREAM_HOST"); host != "" {
		cfg.Server.Host = host
	}

	if origins := os.Getenv("VOXSTREAM_CORS_ORIGINS"); origins != "" {
		cfg.Server.CORSOrigins = origins
	}

	// Database overrides
	if driver := os.Getenv("VOXSTREAM_DB_DRIVER"); driver != "" {
		cfg.Database.Driver = driver
	}
	if path := os.Getenv("VOXSTREAM_DB_PATH"); path != "" {
		cfg.Database.Path = path
	}
	if dbHost := os.Getenv("POSTGRES_HOST"); dbHost != "" {
		cfg.Database.Host = dbHost
	}
	if dbPort := os.Getenv("POSTGRES_PORT"); dbPort != "" {
		if port, err := strconv.Atoi(dbPort); err == nil {
			cfg.Database.Port = port
		}
	}
	if dbUser := os.Getenv("POSTGRES_USER"); dbUser != "" {
		cfg.Database.User = dbUser
	}
	if dbPass := os.Getenv("POSTGRES_PASSWORD"); dbPass != "" {
		cfg.Database.Password = dbPass
	}
	if dbName := os.Getenv("POSTGRES_DB"); dbName != "" {
		cfg.Database.Database = dbName
	}

	// Auth and summarization
	if secret := os.Getenv("VOXSTREAM_AUTH_SECRET"); secret != "" {
		cfg.Auth.Secret = secret
		cfg.Auth.Enabled = true
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.OpenAI.APIKey = key
	}
}
