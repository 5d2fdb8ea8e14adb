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
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Checkout      CheckoutConfig
	Profile       ProfileConfig
	Realtime      RealtimeConfig
	Cron          CronConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"MANDLIMART_APP_ENV" required:"true"`
	Port         string `envconfig:"MANDLIMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MANDLIMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MANDLIMART_LOG_WARN_STACK" default:"false"`
	// Comma separated; empty keeps the built-in storefront origins.
	CORSOrigins []string `envconfig:"MANDLIMART_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type ServiceConfig struct {
	Kind string `envconfig:"MANDLIMART_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"MANDLIMART_DB_DSN"`
	Driver string `envconfig:"MANDLIMART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MANDLIMART_DB_HOST"`
	LegacyPort     int    `envconfig:"MANDLIMART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MANDLIMART_DB_USER"`
	LegacyPassword string `envconfig:"MANDLIMART_DB_PASSWORD"`
	LegacyName     string `envconfig:"MANDLIMART_DB_NAME"`
	LegacySSLMode  string `envconfig:"MANDLIMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MANDLIMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MANDLIMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MANDLIMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MANDLIMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MANDLIMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MANDLIMART_REDIS_ADDR"`
	Password     string        `envconfig:"MANDLIMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"MANDLIMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MANDLIMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MANDLIMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MANDLIMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MANDLIMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MANDLIMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"MANDLIMART_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"MANDLIMART_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"MANDLIMART_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"MANDLIMART_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MANDLIMART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MANDLIMART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MANDLIMART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MANDLIMART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MANDLIMART_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MANDLIMART_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"MANDLIMART_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"MANDLIMART_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"MANDLIMART_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"MANDLIMART_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"MANDLIMART_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// CheckoutConfig tunes the order placement endpoint and its cart cleanup follow-up.
type CheckoutConfig struct {
	IdempotencyTTL     time.Duration `envconfig:"MANDLIMART_CHECKOUT_IDEMPOTENCY_TTL" default:"24h"`
	CleanupGracePeriod time.Duration `envconfig:"MANDLIMART_CHECKOUT_CLEANUP_GRACE" default:"2m"`
	CleanupBatchSize   int           `envconfig:"MANDLIMART_CHECKOUT_CLEANUP_BATCH_SIZE" default:"100"`
	DefaultOrdersLimit int           `envconfig:"MANDLIMART_ORDERS_DEFAULT_LIMIT" default:"20"`
}

type ProfileConfig struct {
	MaxImageBytes int `envconfig:"MANDLIMART_PROFILE_MAX_IMAGE_BYTES" default:"1048576"`
}

type RealtimeConfig struct {
	ReadBufferSize  int           `envconfig:"MANDLIMART_REALTIME_READ_BUFFER" default:"1024"`
	WriteBufferSize int           `envconfig:"MANDLIMART_REALTIME_WRITE_BUFFER" default:"1024"`
	PingPeriod      time.Duration `envconfig:"MANDLIMART_REALTIME_PING_PERIOD" default:"30s"`
	WriteTimeout    time.Duration `envconfig:"MANDLIMART_REALTIME_WRITE_TIMEOUT" default:"10s"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"MANDLIMART_CRON_INTERVAL" default:"1m"`
	LockTTL  time.Duration `envconfig:"MANDLIMART_CRON_LOCK_TTL" default:"5m"`
}

type FeatureFlagsConfig struct {
	UseSQLite            bool `envconfig:"MANDLIMART_USE_SQLITE" default:"false"`
	AutoMigrate          bool `envconfig:"MANDLIMART_AUTO_MIGRATE" default:"false"`
	RequireKnownLocation bool `envconfig:"MANDLIMART_REQUIRE_KNOWN_LOCATION" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
