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
	DB           DBConfig
	Redis        RedisConfig
	Reports      ReportsConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"SAUCEPOS_APP_ENV" required:"true"`
	Port            string        `envconfig:"SAUCEPOS_APP_PORT" required:"true"`
	LogLevel        string        `envconfig:"SAUCEPOS_LOG_LEVEL" default:"info"`
	LogWarnStack    bool          `envconfig:"SAUCEPOS_LOG_WARN_STACK" default:"false"`
	ShutdownTimeout time.Duration `envconfig:"SAUCEPOS_SHUTDOWN_TIMEOUT" default:"15s"`
	CORSOrigins     []string      `envconfig:"SAUCEPOS_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SAUCEPOS_DB_DSN"`
	Driver string `envconfig:"SAUCEPOS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SAUCEPOS_DB_HOST"`
	LegacyPort     int    `envconfig:"SAUCEPOS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SAUCEPOS_DB_USER"`
	LegacyPassword string `envconfig:"SAUCEPOS_DB_PASSWORD"`
	LegacyName     string `envconfig:"SAUCEPOS_DB_NAME"`
	LegacySSLMode  string `envconfig:"SAUCEPOS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SAUCEPOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SAUCEPOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SAUCEPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SAUCEPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

// RedisConfig is optional. When URL is empty the API runs without the
// idempotency store.
type RedisConfig struct {
	URL            string        `envconfig:"SAUCEPOS_REDIS_URL"`
	PoolSize       int           `envconfig:"SAUCEPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns   int           `envconfig:"SAUCEPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout    time.Duration `envconfig:"SAUCEPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout    time.Duration `envconfig:"SAUCEPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout   time.Duration `envconfig:"SAUCEPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
	IdempotencyTTL time.Duration `envconfig:"SAUCEPOS_IDEMPOTENCY_TTL" default:"24h"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type ReportsConfig struct {
	Timezone string `envconfig:"SAUCEPOS_REPORT_TIMEZONE" default:"Asia/Bangkok"`
}

// Location resolves the report timezone, falling back to UTC when the name
// is unknown to the host tz database.
func (r ReportsConfig) Location() *time.Location {
	if strings.TrimSpace(r.Timezone) == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SAUCEPOS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SAUCEPOS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required when using sqlite", EnvDBDSN)
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
