package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig prefix shared by every section.
const EnvPrefix = "verdemart"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "VERDEMART_DB_DSN"
	EnvDBHost = "VERDEMART_DB_HOST"
	EnvDBUser = "VERDEMART_DB_USER"
	EnvDBName = "VERDEMART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Stripe        StripeConfig
	Checkout      CheckoutConfig
	Cart          CartConfig
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
	Env          string `envconfig:"VERDEMART_APP_ENV" required:"true"`
	Port         string `envconfig:"VERDEMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VERDEMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VERDEMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VERDEMART_DB_DSN"`
	Driver string `envconfig:"VERDEMART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VERDEMART_DB_HOST"`
	LegacyPort     int    `envconfig:"VERDEMART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VERDEMART_DB_USER"`
	LegacyPassword string `envconfig:"VERDEMART_DB_PASSWORD"`
	LegacyName     string `envconfig:"VERDEMART_DB_NAME"`
	LegacySSLMode  string `envconfig:"VERDEMART_DB_SSLMODE" default:"disable"`

	AutoMigrate bool `envconfig:"VERDEMART_AUTO_MIGRATE" default:"false"`

	MaxOpenConns    int           `envconfig:"VERDEMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VERDEMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VERDEMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VERDEMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver was selected (local/dev).
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, "sqlite")
}

type RedisConfig struct {
	URL          string        `envconfig:"VERDEMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VERDEMART_REDIS_ADDR"`
	Password     string        `envconfig:"VERDEMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"VERDEMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VERDEMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VERDEMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VERDEMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VERDEMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VERDEMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"VERDEMART_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"VERDEMART_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"VERDEMART_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"VERDEMART_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"VERDEMART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VERDEMART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VERDEMART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VERDEMART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VERDEMART_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"VERDEMART_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"VERDEMART_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"VERDEMART_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"VERDEMART_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"VERDEMART_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"VERDEMART_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type StripeConfig struct {
	APIKey string `envconfig:"VERDEMART_STRIPE_API_KEY"`
	Env    string `envconfig:"VERDEMART_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

// CheckoutConfig carries the storefront-facing pieces of the Stripe session.
type CheckoutConfig struct {
	Origin         string `envconfig:"VERDEMART_CHECKOUT_ORIGIN" required:"true"`
	Locale         string `envconfig:"VERDEMART_CHECKOUT_LOCALE" default:"es-419"`
	ShippingRegion string `envconfig:"VERDEMART_CHECKOUT_SHIPPING_REGION" default:"MX"`
}

// SuccessURL is the redirect Stripe calls back with the session id filled in.
func (c CheckoutConfig) SuccessURL() string {
	return strings.TrimRight(c.Origin, "/") + "/api/success?session_id={CHECKOUT_SESSION_ID}"
}

// CancelURL sends the shopper back to the storefront root.
func (c CheckoutConfig) CancelURL() string {
	return strings.TrimRight(c.Origin, "/") + "/"
}

type CartConfig struct {
	SlotTTL        time.Duration `envconfig:"VERDEMART_CART_SLOT_TTL" default:"720h"`
	IdempotencyTTL time.Duration `envconfig:"VERDEMART_CHECKOUT_IDEMPOTENCY_TTL" default:"24h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" || db.IsSQLite() {
		return nil
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
