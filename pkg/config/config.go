package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Pricing      PricingConfig
	RateLimit    RateLimitConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STASHLINE_APP_ENV" required:"true"`
	Port         string `envconfig:"STASHLINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STASHLINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STASHLINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"STASHLINE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"STASHLINE_DB_DSN"`
	Driver string `envconfig:"STASHLINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STASHLINE_DB_HOST"`
	LegacyPort     int    `envconfig:"STASHLINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STASHLINE_DB_USER"`
	LegacyPassword string `envconfig:"STASHLINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"STASHLINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"STASHLINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STASHLINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STASHLINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STASHLINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STASHLINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STASHLINE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"STASHLINE_REDIS_ADDR"`
	Password     string        `envconfig:"STASHLINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"STASHLINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STASHLINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STASHLINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STASHLINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STASHLINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STASHLINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"STASHLINE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"STASHLINE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"STASHLINE_JWT_EXPIRATION_MINUTES" default:"60"`
}

// AccessTokenTTL returns the access token lifetime configured in minutes.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"STASHLINE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"STASHLINE_AUTO_MIGRATE" default:"false"`
}

type PricingConfig struct {
	PromotionCacheTTL time.Duration `envconfig:"STASHLINE_PRICING_PROMO_CACHE_TTL" default:"60s"`
}

type RateLimitConfig struct {
	MenuWindow   time.Duration `envconfig:"STASHLINE_RATE_LIMIT_MENU_WINDOW" default:"1m"`
	MenuIPLimit  int           `envconfig:"STASHLINE_RATE_LIMIT_MENU_IP_LIMIT" default:"120"`
	QuoteWindow  time.Duration `envconfig:"STASHLINE_RATE_LIMIT_QUOTE_WINDOW" default:"1m"`
	QuoteIPLimit int           `envconfig:"STASHLINE_RATE_LIMIT_QUOTE_IP_LIMIT" default:"60"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"STASHLINE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"STASHLINE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"STASHLINE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	MenuTopic        string `envconfig:"STASHLINE_PUBSUB_MENU_TOPIC" default:"sl-menu-events"`
	MenuSubscription string `envconfig:"STASHLINE_PUBSUB_MENU_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"STASHLINE_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"STASHLINE_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"STASHLINE_OUTBOX_MAX_ATTEMPTS" default:"10"`
	RetentionDays  int `envconfig:"STASHLINE_OUTBOX_RETENTION_DAYS" default:"30"`

	PublishGuardTTL time.Duration `envconfig:"STASHLINE_OUTBOX_PUBLISH_GUARD_TTL" default:"24h"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"STASHLINE_CRON_INTERVAL" default:"1m"`
	LockTTL  time.Duration `envconfig:"STASHLINE_CRON_LOCK_TTL" default:"5m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if strings.EqualFold(db.Driver, "sqlite") {
		return fmt.Errorf("%s is required when the sqlite driver is selected", EnvDBDSN)
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
