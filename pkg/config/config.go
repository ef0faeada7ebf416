package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App    AppConfig
	DB     DBConfig
	Redis  RedisConfig
	Intake IntakeConfig
	Orders OrdersConfig
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
	Env          string `envconfig:"TREADSTOCK_APP_ENV" required:"true"`
	Port         string `envconfig:"TREADSTOCK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TREADSTOCK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TREADSTOCK_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"TREADSTOCK_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TREADSTOCK_DB_DSN"`
	Driver string `envconfig:"TREADSTOCK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TREADSTOCK_DB_HOST"`
	LegacyPort     int    `envconfig:"TREADSTOCK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TREADSTOCK_DB_USER"`
	LegacyPassword string `envconfig:"TREADSTOCK_DB_PASSWORD"`
	LegacyName     string `envconfig:"TREADSTOCK_DB_NAME"`
	LegacySSLMode  string `envconfig:"TREADSTOCK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TREADSTOCK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TREADSTOCK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TREADSTOCK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TREADSTOCK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TREADSTOCK_REDIS_URL"`
	Address      string        `envconfig:"TREADSTOCK_REDIS_ADDR"`
	Password     string        `envconfig:"TREADSTOCK_REDIS_PASSWORD"`
	DB           int           `envconfig:"TREADSTOCK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TREADSTOCK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TREADSTOCK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TREADSTOCK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TREADSTOCK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TREADSTOCK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// IntakeConfig names the default placement address for newly purchased stock.
// The defaults mirror the warehouse's paper process: everything arriving from a
// purchase lands on the intake rack before it is shelved properly.
type IntakeConfig struct {
	DefaultRack  string `envconfig:"TREADSTOCK_INTAKE_RACK" default:"Закупка"`
	DefaultShelf string `envconfig:"TREADSTOCK_INTAKE_SHELF" default:"Новая"`
	DefaultCell  string `envconfig:"TREADSTOCK_INTAKE_CELL" default:"0"`
	Delimiter    string `envconfig:"TREADSTOCK_INTAKE_FILE_DELIMITER" default:";"`
}

type OrdersConfig struct {
	TransitionTimeout time.Duration `envconfig:"TREADSTOCK_ORDER_TRANSITION_TIMEOUT" default:"10s"`
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
