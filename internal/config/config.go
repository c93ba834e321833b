package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Admin struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"admin"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Storage struct {
		Type       string `yaml:"type"`        // local, s3, cloudflare_r2
		BasePath   string `yaml:"base_path"`   // For local storage
		BaseURL    string `yaml:"base_url"`    // Public URL base
		Folder     string `yaml:"folder"`      // Key prefix for documents
		Bucket     string `yaml:"bucket"`      // For S3/R2
		Region     string `yaml:"region"`      // For S3
		AccessKey  string `yaml:"access_key"`  // For S3/R2
		SecretKey  string `yaml:"secret_key"`  // For S3/R2
		Endpoint   string `yaml:"endpoint"`    // For R2 or custom S3
		UseSSL     bool   `yaml:"use_ssl"`     // For S3/R2
		PublicRead bool   `yaml:"public_read"` // Make files public
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"`      // Max file size in bytes
		MaxFiles     int      `yaml:"max_files"`     // Max files per multi-upload request
		AllowedTypes []string `yaml:"allowed_types"` // Allowed MIME types
		AllowedExts  []string `yaml:"allowed_exts"`  // Allowed file extensions
	} `yaml:"upload"`

	OpenAI struct {
		APIKey    string  `yaml:"api_key"`
		BaseURL   string  `yaml:"base_url"`
		Model     string  `yaml:"model"`
		MaxTokens int     `yaml:"max_tokens"`
		Temp      float64 `yaml:"temperature"`
	} `yaml:"openai"`

	Stripe struct {
		SecretKey     string `yaml:"secret_key"`
		WebhookSecret string `yaml:"webhook_secret"`
		BaseURL       string `yaml:"base_url"`
	} `yaml:"stripe"`

	Notifications struct {
		RetentionDays int    `yaml:"retention_days"` // Read notifications older than this are purged
		CleanupCron   string `yaml:"cleanup_cron"`
	} `yaml:"notifications"`
}

var AppConfig *Config

// LoadConfig reads config.yaml, or falls back to environment variables when
// DATABASE_URL is set (test and container deployments).
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60

	cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	cfg.Stripe.SecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.Stripe.WebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/api/files"

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 60
	}
	if cfg.Storage.Folder == "" {
		cfg.Storage.Folder = "permiso-documents"
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 10 * 1024 * 1024 // 10MB
	}
	if cfg.Upload.MaxFiles == 0 {
		cfg.Upload.MaxFiles = 10
	}
	if len(cfg.Upload.AllowedTypes) == 0 {
		cfg.Upload.AllowedTypes = []string{
			"image/jpeg", "image/png", "image/gif",
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"image/vnd.dwg", "image/vnd.dxf",
		}
	}
	if len(cfg.Upload.AllowedExts) == 0 {
		cfg.Upload.AllowedExts = []string{
			".jpeg", ".jpg", ".png", ".gif",
			".pdf", ".doc", ".docx",
			".dwg", ".dxf",
		}
	}
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-3.5-turbo"
	}
	if cfg.OpenAI.MaxTokens == 0 {
		cfg.OpenAI.MaxTokens = 500
	}
	if cfg.OpenAI.Temp == 0 {
		cfg.OpenAI.Temp = 0.7
	}
	if cfg.Stripe.BaseURL == "" {
		cfg.Stripe.BaseURL = "https://api.stripe.com/v1"
	}
	if cfg.Notifications.RetentionDays == 0 {
		cfg.Notifications.RetentionDays = 90
	}
	if cfg.Notifications.CleanupCron == "" {
		cfg.Notifications.CleanupCron = "0 3 * * *"
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
