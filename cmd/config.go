package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8082"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"orderflow"`
	DBSslMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	MongoURI string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB  string `env:"MONGO_DB" envDefault:"orderflow"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret          string `env:"JWT_SECRET,required"`
	RevocationTTLHours int    `env:"REVOCATION_TTL_HOURS" envDefault:"24"`

	TimeZone    string `env:"TIME_ZONE" envDefault:"UTC"`
	PricingFile string `env:"PRICING_FILE"`

	ProbeProxyURL       string  `env:"PROBE_PROXY_URL"`
	ProbeRatePerSecond  float64 `env:"PROBE_RATE_PER_SECOND" envDefault:"5"`
	ProbeBurst          int     `env:"PROBE_BURST" envDefault:"5"`
	ProbeTimeoutSeconds int     `env:"PROBE_TIMEOUT_SECONDS" envDefault:"10"`
	ProbeRetryDelayMs   int     `env:"PROBE_RETRY_DELAY_MS" envDefault:"500"`
	ProbeUserAgent      string  `env:"PROBE_USER_AGENT"`

	ReconcileEnabled           bool   `env:"RECONCILE_ENABLED" envDefault:"true"`
	ReconcileSchedule          string `env:"RECONCILE_SCHEDULE" envDefault:"0 */15 * * * *"`
	ReconcileLookbackDays      int    `env:"RECONCILE_LOOKBACK_DAYS" envDefault:"7"`
	ReconcileConcurrency       int    `env:"RECONCILE_CONCURRENCY" envDefault:"4"`
	ReconcileBatchLimit        int    `env:"RECONCILE_BATCH_LIMIT" envDefault:"100"`
	ReconcileRunTimeoutMinutes int    `env:"RECONCILE_RUN_TIMEOUT_MINUTES" envDefault:"14"`

	APIRatePerSecond float64 `env:"API_RATE_PER_SECOND" envDefault:"0"`
	APIBurst         int     `env:"API_BURST" envDefault:"0"`

	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"json"`
	LogFile       string `env:"LOG_FILE"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"30"`
}

// LoadConfig reads .env files when present and parses the environment.
func LoadConfig(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errList []error
	if c.StoreDriver != StoreDriverPostgres && c.StoreDriver != StoreDriverMongo {
		errList = append(errList, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q",
			StoreDriverPostgres, StoreDriverMongo, c.StoreDriver))
	}
	if _, err := c.Location(); err != nil {
		errList = append(errList, err)
	}
	if c.RevocationTTLHours <= 0 {
		errList = append(errList, errors.New("REVOCATION_TTL_HOURS must be positive"))
	}
	if c.ReconcileRunTimeoutMinutes <= 0 {
		errList = append(errList, errors.New("RECONCILE_RUN_TIMEOUT_MINUTES must be positive"))
	}
	return errors.Join(errList...)
}

// Location is the time zone calendar dates in requests are read in.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIME_ZONE %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
