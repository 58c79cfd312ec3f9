package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "bundlecart"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "BUNDLECART_DB_DSN"
	EnvDBHost = "BUNDLECART_DB_HOST"
	EnvDBUser = "BUNDLECART_DB_USER"
	EnvDBName = "BUNDLECART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Cart         CartConfig
	Sync         SyncConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"BUNDLECART_APP_ENV" required:"true"`
	Port         string `envconfig:"BUNDLECART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BUNDLECART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BUNDLECART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BUNDLECART_DB_DSN"`
	Driver string `envconfig:"BUNDLECART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BUNDLECART_DB_HOST"`
	LegacyPort     int    `envconfig:"BUNDLECART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BUNDLECART_DB_USER"`
	LegacyPassword string `envconfig:"BUNDLECART_DB_PASSWORD"`
	LegacyName     string `envconfig:"BUNDLECART_DB_NAME"`
	LegacySSLMode  string `envconfig:"BUNDLECART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BUNDLECART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BUNDLECART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BUNDLECART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BUNDLECART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BUNDLECART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BUNDLECART_REDIS_ADDR"`
	Password     string        `envconfig:"BUNDLECART_REDIS_PASSWORD"`
	DB           int           `envconfig:"BUNDLECART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BUNDLECART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BUNDLECART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BUNDLECART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BUNDLECART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BUNDLECART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"BUNDLECART_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"BUNDLECART_JWT_ISSUER" required:"true"`
}

// CartConfig tunes guest cart persistence.
type CartConfig struct {
	GuestTTLHours int `envconfig:"BUNDLECART_CART_GUEST_TTL_HOURS" default:"720"`
}

// GuestTTL returns the guest cart retention window, zero meaning no expiry.
func (c CartConfig) GuestTTL() time.Duration {
	if c.GuestTTLHours <= 0 {
		return 0
	}
	return time.Duration(c.GuestTTLHours) * time.Hour
}

// SyncConfig tunes the guest-to-account cart merge.
type SyncConfig struct {
	RemoteTimeout time.Duration `envconfig:"BUNDLECART_SYNC_REMOTE_TIMEOUT" default:"10s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BUNDLECART_AUTO_MIGRATE" default:"false"`
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
