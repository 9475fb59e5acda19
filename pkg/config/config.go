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
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	Checkout     CheckoutConfig
	Kafka        KafkaConfig
	Maps         MapsConfig
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
	Env          string `envconfig:"PASARANTAR_APP_ENV" required:"true"`
	Port         string `envconfig:"PASARANTAR_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PASARANTAR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PASARANTAR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PASARANTAR_DB_DSN"`
	Driver string `envconfig:"PASARANTAR_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PASARANTAR_DB_HOST"`
	LegacyPort     int    `envconfig:"PASARANTAR_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PASARANTAR_DB_USER"`
	LegacyPassword string `envconfig:"PASARANTAR_DB_PASSWORD"`
	LegacyName     string `envconfig:"PASARANTAR_DB_NAME"`
	LegacySSLMode  string `envconfig:"PASARANTAR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PASARANTAR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PASARANTAR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PASARANTAR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PASARANTAR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PASARANTAR_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PASARANTAR_REDIS_ADDR"`
	Password     string        `envconfig:"PASARANTAR_REDIS_PASSWORD"`
	DB           int           `envconfig:"PASARANTAR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PASARANTAR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PASARANTAR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PASARANTAR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PASARANTAR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PASARANTAR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PASARANTAR_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PASARANTAR_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PASARANTAR_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PASARANTAR_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PASARANTAR_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PASARANTAR_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PASARANTAR_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PASARANTAR_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PASARANTAR_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PASARANTAR_AUTO_MIGRATE" default:"false"`
}

type CheckoutConfig struct {
	// CartTTL and DraftTTL bound how long abandoned snapshots stay in Redis.
	CartTTL  time.Duration `envconfig:"PASARANTAR_CART_TTL" default:"720h"`
	DraftTTL time.Duration `envconfig:"PASARANTAR_CHECKOUT_DRAFT_TTL" default:"168h"`
}

type KafkaConfig struct {
	Brokers     []string `envconfig:"PASARANTAR_KAFKA_BROKERS"`
	OrdersTopic string   `envconfig:"PASARANTAR_KAFKA_ORDERS_TOPIC" default:"pasarantar.orders"`
	BufferSize  int      `envconfig:"PASARANTAR_KAFKA_BUFFER_SIZE" default:"256"`
}

// Enabled reports whether event publishing is configured at all.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type MapsConfig struct {
	APIKey  string `envconfig:"PASARANTAR_MAPS_API_KEY"`
	BaseURL string `envconfig:"PASARANTAR_MAPS_BASE_URL"`
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
