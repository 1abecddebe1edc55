package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port                   int      `mapstructure:"port"`
		CorsAllowedOrigins     []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods     []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders     []string `mapstructure:"cors_allowed_headers"`
		RateLimitRequests      int      `mapstructure:"rate_limit_requests"`
		RateLimitWindowMinutes int      `mapstructure:"rate_limit_window_minutes"`
	} `mapstructure:"server"`

	Database struct {
		URL      string `mapstructure:"url"`
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

	Auth struct {
		AllowRegistration bool `mapstructure:"allow_registration"`
	} `mapstructure:"auth"`

	App struct {
		Timezone string `mapstructure:"timezone"`
	} `mapstructure:"app"`

	Agreement struct {
		CurrencyPrefix string `mapstructure:"currency_prefix"`
	} `mapstructure:"agreement"`

	Mail struct {
		Provider       string `mapstructure:"provider"` // "", smtp or sendgrid
		From           string `mapstructure:"from"`
		CopyTo         string `mapstructure:"copy_to"`
		SMTPHost       string `mapstructure:"smtp_host"`
		SMTPPort       int    `mapstructure:"smtp_port"`
		SMTPUser       string `mapstructure:"smtp_user"`
		SMTPPassword   string `mapstructure:"smtp_password"`
		SendGridAPIKey string `mapstructure:"sendgrid_api_key"`
	} `mapstructure:"mail"`

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`

	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
		Topic   string   `mapstructure:"topic"`
	} `mapstructure:"kafka"`

	Archive struct {
		Endpoint  string `mapstructure:"endpoint"`
		Region    string `mapstructure:"region"`
		Bucket    string `mapstructure:"bucket"`
		Prefix    string `mapstructure:"prefix"`
		AccessKey string `mapstructure:"access_key"`
		SecretKey string `mapstructure:"secret_key"`
	} `mapstructure:"archive"`

	Scheduler struct {
		ReminderCron string `mapstructure:"reminder_cron"`
	} `mapstructure:"scheduler"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // console or json
	} `mapstructure:"log"`
}

// Load reads configuration and exits the process when it is unusable
func Load() *Config {
	cfg, err := LoadFrom("configs/config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	return cfg
}

// LoadFrom reads the configuration and checks the settings the API server
// cannot run without
func LoadFrom(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

// Read reads an optional YAML file, .env and the environment without
// validating. Operator tooling that never issues tokens uses it directly.
func Read(path string) (*Config, error) {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)

	// Auto bind environment variables (server.port -> SERVER_PORT)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set sensible defaults (binary works without config file)
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.cors_allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Content-Type", "Authorization", "x-auth-token"})
	v.SetDefault("server.rate_limit_requests", 100)
	v.SetDefault("server.rate_limit_window_minutes", 15)
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "rental-backend")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "rental_db")
	v.SetDefault("app.timezone", "Asia/Kolkata")
	v.SetDefault("agreement.currency_prefix", "Rs.")
	v.SetDefault("mail.smtp_host", "smtp.gmail.com")
	v.SetDefault("mail.smtp_port", 587)
	v.SetDefault("kafka.topic", "rental-events")
	v.SetDefault("archive.region", "auto")
	v.SetDefault("archive.prefix", "agreements/")
	v.SetDefault("scheduler.reminder_cron", "0 0 9 * * *")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Info().Str("path", path).Msg("no config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}

	applyEnv(&cfg)
	return &cfg, nil
}

// applyEnv maps the conventional deployment variables onto the config
func applyEnv(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Server.Port = n
		}
	}
	if origin := os.Getenv("FRONTEND_URL"); origin != "" {
		cfg.Server.CorsAllowedOrigins = appendUnique(cfg.Server.CorsAllowedOrigins, origin)
	}
	if n, err := strconv.Atoi(os.Getenv("RATE_LIMIT_REQUESTS")); err == nil && n > 0 {
		cfg.Server.RateLimitRequests = n
	}

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		cfg.Database.URL = dsn
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

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}
	if h, err := strconv.Atoi(os.Getenv("JWT_EXPIRATION_HOURS")); err == nil && h > 0 {
		cfg.JWT.ExpirationHours = h
	}
	if allow := os.Getenv("ALLOW_REGISTRATION"); allow != "" {
		cfg.Auth.AllowRegistration, _ = strconv.ParseBool(allow)
	}
	if tz := os.Getenv("APP_TIMEZONE"); tz != "" {
		cfg.App.Timezone = tz
	}

	if p := os.Getenv("MAIL_PROVIDER"); p != "" {
		cfg.Mail.Provider = p
	}
	if from := os.Getenv("MAIL_FROM"); from != "" {
		cfg.Mail.From = from
	}
	if cc := os.Getenv("MAIL_COPY_TO"); cc != "" {
		cfg.Mail.CopyTo = cc
	}
	if host := os.Getenv("SMTP_HOST"); host != "" {
		cfg.Mail.SMTPHost = host
	}
	if n, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && n > 0 {
		cfg.Mail.SMTPPort = n
	}
	if user := os.Getenv("EMAIL_USER"); user != "" {
		cfg.Mail.SMTPUser = user
		if cfg.Mail.From == "" {
			cfg.Mail.From = user
		}
	}
	if pass := os.Getenv("EMAIL_PASS"); pass != "" {
		cfg.Mail.SMTPPassword = pass
	}
	if key := os.Getenv("SENDGRID_API_KEY"); key != "" {
		cfg.Mail.SendGridAPIKey = key
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if pass := os.Getenv("REDIS_PASSWORD"); pass != "" {
		cfg.Redis.Password = pass
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = splitList(brokers)
	}

	if v := os.Getenv("ARCHIVE_ENDPOINT"); v != "" {
		cfg.Archive.Endpoint = v
	}
	if v := os.Getenv("ARCHIVE_BUCKET"); v != "" {
		cfg.Archive.Bucket = v
	}
	if v := os.Getenv("ARCHIVE_ACCESS_KEY"); v != "" {
		cfg.Archive.AccessKey = v
	}
	if v := os.Getenv("ARCHIVE_SECRET_KEY"); v != "" {
		cfg.Archive.SecretKey = v
	}

	if spec := os.Getenv("REMINDER_CRON"); spec != "" {
		cfg.Scheduler.ReminderCron = spec
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		cfg.Log.Level = lvl
	}
	if f := os.Getenv("LOG_FORMAT"); f != "" {
		cfg.Log.Format = f
	}
}

// DatabaseURL returns DATABASE_URL when set, otherwise a URL built from the
// individual database settings
func (c *Config) DatabaseURL() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:     c.Database.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
