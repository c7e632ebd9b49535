package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Stripe        StripeConfig
	Checkout      CheckoutConfig
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
	Env          string `envconfig:"SMARTLMS_APP_ENV" required:"true"`
	Port         string `envconfig:"SMARTLMS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SMARTLMS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SMARTLMS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"SMARTLMS_DB_DSN"`

	Host     string `envconfig:"SMARTLMS_DB_HOST"`
	Port     int    `envconfig:"SMARTLMS_DB_PORT" default:"5432"`
	User     string `envconfig:"SMARTLMS_DB_USER"`
	Password string `envconfig:"SMARTLMS_DB_PASSWORD"`
	Name     string `envconfig:"SMARTLMS_DB_NAME"`
	SSLMode  string `envconfig:"SMARTLMS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SMARTLMS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SMARTLMS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SMARTLMS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SMARTLMS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SMARTLMS_REDIS_URL"`
	Address      string        `envconfig:"SMARTLMS_REDIS_ADDR"`
	Password     string        `envconfig:"SMARTLMS_REDIS_PASSWORD"`
	DB           int           `envconfig:"SMARTLMS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SMARTLMS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SMARTLMS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SMARTLMS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SMARTLMS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SMARTLMS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SMARTLMS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SMARTLMS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SMARTLMS_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SMARTLMS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SMARTLMS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SMARTLMS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SMARTLMS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SMARTLMS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SMARTLMS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SMARTLMS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SMARTLMS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SMARTLMS_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SMARTLMS_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SMARTLMS_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SMARTLMS_AUTO_MIGRATE" default:"false"`
}

type StripeConfig struct {
	APIKey        string `envconfig:"SMARTLMS_STRIPE_API_KEY"`
	WebhookSecret string `envconfig:"SMARTLMS_STRIPE_WEBHOOK_SECRET"`
	Env           string `envconfig:"SMARTLMS_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type CheckoutConfig struct {
	SuccessURL string `envconfig:"SMARTLMS_CHECKOUT_SUCCESS_URL" required:"true"`
	CancelURL  string `envconfig:"SMARTLMS_CHECKOUT_CANCEL_URL" required:"true"`
	Currency   string `envconfig:"SMARTLMS_CHECKOUT_CURRENCY" default:"usd"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
