package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime setting, populated from the environment.
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	MongoURI string `envconfig:"MONGO_URI" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	PayPalBaseURL  string `envconfig:"PAYPAL_BASE_URL" default:"https://api-m.sandbox.paypal.com"`
	PayPalClientID string `envconfig:"PAYPAL_CLIENT_ID"`
	PayPalSecret   string `envconfig:"PAYPAL_CLIENT_SECRET"`
	Currency       string `envconfig:"CURRENCY" default:"USD"`

	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     string `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser     string `envconfig:"SMTP_USER"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	EmailFrom    string `envconfig:"EMAIL_FROM"`

	StoreBaseURL string `envconfig:"STORE_BASE_URL" default:"http://localhost:3000"`

	// Defaults applied to OrderDesignFile grants when the design file does
	// not set its own limits.
	DownloadExpiryDays  int `envconfig:"DOWNLOAD_EXPIRY_DAYS" default:"30"`
	DefaultMaxDownloads int `envconfig:"DEFAULT_MAX_DOWNLOADS" default:"10"`
}

// Load reads .env when present, then parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
