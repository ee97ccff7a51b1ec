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
	Password     PasswordConfig
	Identifier   IdentifierConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
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
	Env          string `envconfig:"PHONESHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"PHONESHOP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PHONESHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PHONESHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"PHONESHOP_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"PHONESHOP_DB_DSN"`
	Driver string `envconfig:"PHONESHOP_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"PHONESHOP_DB_HOST"`
	Port     int    `envconfig:"PHONESHOP_DB_PORT" default:"5432"`
	User     string `envconfig:"PHONESHOP_DB_USER"`
	Password string `envconfig:"PHONESHOP_DB_PASSWORD"`
	Name     string `envconfig:"PHONESHOP_DB_NAME"`
	SSLMode  string `envconfig:"PHONESHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PHONESHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PHONESHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PHONESHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PHONESHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PHONESHOP_REDIS_URL"`
	Address      string        `envconfig:"PHONESHOP_REDIS_ADDR"`
	Password     string        `envconfig:"PHONESHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"PHONESHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PHONESHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PHONESHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PHONESHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PHONESHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PHONESHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PHONESHOP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PHONESHOP_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PHONESHOP_JWT_EXPIRATION_MINUTES" default:"480"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PHONESHOP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PHONESHOP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PHONESHOP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PHONESHOP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PHONESHOP_ARGON_KEY_LEN" default:"32"`
}

// IdentifierConfig bounds retry loops inside the identifier service.
type IdentifierConfig struct {
	MaxAttempts int `envconfig:"PHONESHOP_IDENTIFIER_MAX_ATTEMPTS" default:"5"`
}

// RateLimitConfig throttles credential guessing on the login endpoint.
type RateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"PHONESHOP_LOGIN_RATE_WINDOW" default:"1m"`
	LoginIPLimit       int           `envconfig:"PHONESHOP_LOGIN_RATE_IP_LIMIT" default:"20"`
	LoginUsernameLimit int           `envconfig:"PHONESHOP_LOGIN_RATE_USERNAME_LIMIT" default:"5"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PHONESHOP_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"PHONESHOP_GCP_PROJECT_ID"`
	ApplicationCredentials string `envconfig:"PHONESHOP_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	ReceiptTopic        string `envconfig:"PHONESHOP_PUBSUB_RECEIPT_TOPIC" default:"ps-receipt-events"`
	ReceiptSubscription string `envconfig:"PHONESHOP_PUBSUB_RECEIPT_SUBSCRIPTION"`
	DomainTopic         string `envconfig:"PHONESHOP_PUBSUB_DOMAIN_TOPIC" default:"ps-domain-events"`
	DomainSubscription  string `envconfig:"PHONESHOP_PUBSUB_DOMAIN_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int    `envconfig:"PHONESHOP_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int    `envconfig:"PHONESHOP_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int    `envconfig:"PHONESHOP_OUTBOX_MAX_ATTEMPTS" default:"10"`
	MetricsPort    string `envconfig:"PHONESHOP_OUTBOX_METRICS_PORT"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	required := map[string]string{
		"PHONESHOP_DB_HOST": db.Host,
		"PHONESHOP_DB_USER": db.User,
		"PHONESHOP_DB_NAME": db.Name,
	}
	for env, value := range required {
		if value == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("database config incomplete, set PHONESHOP_DB_DSN or %s", strings.Join(missing, ", "))
	}

	hostPort := db.Host
	if db.Port > 0 {
		hostPort = fmt.Sprintf("%s:%d", db.Host, db.Port)
	}
	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(db.User, db.Password),
		Host:   hostPort,
		Path:   db.Name,
	}
	query := dsn.Query()
	if db.SSLMode != "" {
		query.Set("sslmode", db.SSLMode)
	}
	dsn.RawQuery = query.Encode()
	db.DSN = dsn.String()
	return nil
}
