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
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	App struct {
		Name     string `mapstructure:"name"`
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"app"`

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

	Session struct {
		TimeoutMinutes int `mapstructure:"timeout_minutes"`
	} `mapstructure:"session"`

	Uploads struct {
		Dir       string `mapstructure:"dir"`
		MaxSizeMB int    `mapstructure:"max_size_mb"`
	} `mapstructure:"uploads"`

	Mirror struct {
		Bucket    string `mapstructure:"bucket"`
		Endpoint  string `mapstructure:"endpoint"`
		Region    string `mapstructure:"region"`
		AccessKey string `mapstructure:"access_key"`
		SecretKey string `mapstructure:"secret_key"`
	} `mapstructure:"mirror"`

	Razorpay struct {
		KeyID         string `mapstructure:"key_id"`
		KeySecret     string `mapstructure:"key_secret"`
		WebhookSecret string `mapstructure:"webhook_secret"`
	} `mapstructure:"razorpay"`

	Notify struct {
		WebhookURL string `mapstructure:"webhook_url"`
	} `mapstructure:"notify"`
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
	v.SetDefault("app.name", "desynflow")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "desynflow-backend")
	v.SetDefault("session.timeout_minutes", 30)
	v.SetDefault("uploads.dir", "uploads")
	v.SetDefault("uploads.max_size_mb", 20)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "desynflow_db")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	// Override from well-known environment variables
	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Server.Port = n
		}
	}
	if name := os.Getenv("APP_NAME"); name != "" {
		cfg.App.Name = name
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.App.LogLevel = level
	}
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
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}

	// JWT secret must come from somewhere
	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
		if cfg.JWT.Secret == "" {
			log.Fatal("JWT_SECRET not found in environment or config file")
		}
	}
	if hours := os.Getenv("JWT_EXPIRES_IN"); hours != "" {
		if n, err := strconv.Atoi(hours); err == nil && n > 0 {
			cfg.JWT.ExpirationHours = n
		}
	}

	// Receipt mirror (S3-compatible) settings
	if bucket := os.Getenv("MIRROR_BUCKET"); bucket != "" {
		cfg.Mirror.Bucket = bucket
	}
	if endpoint := os.Getenv("MIRROR_ENDPOINT"); endpoint != "" {
		cfg.Mirror.Endpoint = endpoint
	}
	if region := os.Getenv("MIRROR_REGION"); region != "" {
		cfg.Mirror.Region = region
	}
	if key := os.Getenv("MIRROR_ACCESS_KEY"); key != "" {
		cfg.Mirror.AccessKey = key
	}
	if secret := os.Getenv("MIRROR_SECRET_KEY"); secret != "" {
		cfg.Mirror.SecretKey = secret
	}

	// Razorpay (optional online payment of inspection fees)
	if keyID := os.Getenv("RAZORPAY_KEY_ID"); keyID != "" {
		cfg.Razorpay.KeyID = keyID
	}
	if keySecret := os.Getenv("RAZORPAY_KEY_SECRET"); keySecret != "" {
		cfg.Razorpay.KeySecret = keySecret
	}
	if webhookSecret := os.Getenv("RAZORPAY_WEBHOOK_SECRET"); webhookSecret != "" {
		cfg.Razorpay.WebhookSecret = webhookSecret
	}

	if url := os.Getenv("NOTIFY_WEBHOOK_URL"); url != "" {
		cfg.Notify.WebhookURL = url
	}

	return &cfg
}
