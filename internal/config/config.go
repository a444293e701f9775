package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Engine   EngineConfig
	Gateway  GatewayConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// StorageConfig selects where the customer record is persisted
type StorageConfig struct {
	Driver   string // "file", "mongodb" or "memory"
	FilePath string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// AuthConfig holds the demo login credentials. The password is stored as a
// bcrypt hash; the default below is the hash of "password123".
type AuthConfig struct {
	Email        string
	PasswordHash string
}

// EngineConfig holds the session engine tunables
type EngineConfig struct {
	CustomerName       string
	SubscriptionAmount float64
	RewardAmount       float64
	CashbackRate       float64
	BillingInterval    time.Duration
	SweepInterval      time.Duration
	StatusResetDelay   time.Duration
	OfferTTL           time.Duration
}

// GatewayConfig holds the simulated payment gateway tunables
type GatewayConfig struct {
	MinDelay    time.Duration
	MaxDelay    time.Duration
	FailureRate float64
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("Storage.Driver", "file")
	viper.SetDefault("Storage.FilePath", "customer.json")
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "brewpoints")
	viper.SetDefault("JWT.Secret", "change-me")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Auth.Email", "member@brewpoints.io")
	viper.SetDefault("Auth.PasswordHash", "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")
	viper.SetDefault("Engine.CustomerName", "Amazing Member")
	viper.SetDefault("Engine.SubscriptionAmount", 50.0)
	viper.SetDefault("Engine.RewardAmount", 60.0)
	viper.SetDefault("Engine.CashbackRate", 0.05)
	viper.SetDefault("Engine.BillingInterval", "5m")
	viper.SetDefault("Engine.SweepInterval", "30s")
	viper.SetDefault("Engine.StatusResetDelay", "3s")
	viper.SetDefault("Engine.OfferTTL", "5m")
	viper.SetDefault("Gateway.MinDelay", "500ms")
	viper.SetDefault("Gateway.MaxDelay", "1500ms")
	viper.SetDefault("Gateway.FailureRate", 0.1)
	viper.SetDefault("LogLevel", "info")
}
