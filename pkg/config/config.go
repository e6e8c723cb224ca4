package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "bazarpo"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "BAZARPO_DB_DSN"
	EnvDBHost = "BAZARPO_DB_HOST"
	EnvDBUser = "BAZARPO_DB_USER"
	EnvDBName = "BAZARPO_DB_NAME"
	EnvAppEnv = "BAZARPO_APP_ENV"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Realtime      RealtimeConfig
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
	Env          string `envconfig:"BAZARPO_APP_ENV" required:"true"`
	Port         string `envconfig:"BAZARPO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BAZARPO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BAZARPO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BAZARPO_DB_DSN"`
	Driver string `envconfig:"BAZARPO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BAZARPO_DB_HOST"`
	LegacyPort     int    `envconfig:"BAZARPO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BAZARPO_DB_USER"`
	LegacyPassword string `envconfig:"BAZARPO_DB_PASSWORD"`
	LegacyName     string `envconfig:"BAZARPO_DB_NAME"`
	LegacySSLMode  string `envconfig:"BAZARPO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BAZARPO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BAZARPO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BAZARPO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BAZARPO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BAZARPO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BAZARPO_REDIS_ADDR"`
	Password     string        `envconfig:"BAZARPO_REDIS_PASSWORD"`
	DB           int           `envconfig:"BAZARPO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BAZARPO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BAZARPO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BAZARPO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BAZARPO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BAZARPO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BAZARPO_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BAZARPO_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BAZARPO_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"BAZARPO_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the server-side session TTL configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BAZARPO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BAZARPO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BAZARPO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BAZARPO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BAZARPO_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"BAZARPO_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"BAZARPO_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"BAZARPO_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"BAZARPO_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"BAZARPO_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"BAZARPO_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BAZARPO_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"BAZARPO_GCP_PROJECT_ID"`
}

// PubSubConfig names the optional order-events topic. When empty the API
// runs with a no-op publisher.
type PubSubConfig struct {
	OrdersTopic string `envconfig:"BAZARPO_PUBSUB_ORDERS_TOPIC"`
}

type RealtimeConfig struct {
	ClientBuffer      int           `envconfig:"BAZARPO_REALTIME_CLIENT_BUFFER" default:"10"`
	KeepAliveInterval time.Duration `envconfig:"BAZARPO_REALTIME_KEEPALIVE" default:"30s"`
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
