package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		MonitoringPort     int      `mapstructure:"monitoring_port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	// Operator is the single configured login. Auth here is scaffolding for
	// the shop-floor terminal, not a user management system.
	Operator struct {
		Username     string `mapstructure:"username"`
		PasswordHash string `mapstructure:"password_hash"` // bcrypt
	} `mapstructure:"operator"`

	// External read-only production databases holding route cards
	External struct {
		Enabled          bool   `mapstructure:"enabled"`
		FoundryDBPath    string `mapstructure:"foundry_db_path"`
		RouteCardsDBPath string `mapstructure:"route_cards_db_path"`
	} `mapstructure:"external"`

	Shifts struct {
		AutoCloseEnabled bool `mapstructure:"auto_close_enabled"`
	} `mapstructure:"shifts"`

	// Archive is an optional S3-compatible target for generated shift
	// reports
	Archive struct {
		Enabled   bool   `mapstructure:"enabled"`
		Endpoint  string `mapstructure:"endpoint"`
		Region    string `mapstructure:"region"`
		Bucket    string `mapstructure:"bucket"`
		AccessKey string `mapstructure:"access_key"`
		SecretKey string `mapstructure:"secret_key"`
	} `mapstructure:"archive"`
}

func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")

	// Auto bind environment variables
	v.AutomaticEnv()

	// Set sensible defaults (binary works without config file)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.monitoring_port", 9090)
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "qc-backend")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "qc_db")
	v.SetDefault("external.enabled", true)
	v.SetDefault("external.foundry_db_path", "data/foundry.db")
	v.SetDefault("external.route_cards_db_path", "data/route_cards.db")
	v.SetDefault("shifts.auto_close_enabled", true)
	v.SetDefault("archive.region", "auto")
	v.SetDefault("operator.username", "operator")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	// Override database settings from DB_* environment variables
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	} else if cfg.Database.Password == "${DB_PASSWORD}" {
		cfg.Database.Password = ""
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}

	// Override external DB paths from environment
	if p := os.Getenv("FOUNDRY_DB_PATH"); p != "" {
		cfg.External.FoundryDBPath = p
	}
	if p := os.Getenv("ROUTE_CARDS_DB_PATH"); p != "" {
		cfg.External.RouteCardsDBPath = p
	}

	// Override JWT secret from environment if not set
	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
		if cfg.JWT.Secret == "" {
			log.Fatal("JWT_SECRET not found in config or environment")
		}
	}

	// Operator password hash must come from somewhere
	if cfg.Operator.PasswordHash == "" || cfg.Operator.PasswordHash == "${OPERATOR_PASSWORD_HASH}" {
		cfg.Operator.PasswordHash = os.Getenv("OPERATOR_PASSWORD_HASH")
	}

	// Archive credentials from environment
	if key := os.Getenv("ARCHIVE_ACCESS_KEY"); key != "" || cfg.Archive.AccessKey == "${ARCHIVE_ACCESS_KEY}" {
		cfg.Archive.AccessKey = key
	}
	if key := os.Getenv("ARCHIVE_SECRET_KEY"); key != "" || cfg.Archive.SecretKey == "${ARCHIVE_SECRET_KEY}" {
		cfg.Archive.SecretKey = key
	}

	return &cfg
}
