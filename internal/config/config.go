package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	PostgresAddress  string `koanf:"postgres.address"`
	PostgresPort     string `koanf:"postgres.port"`
	PostgresDB       string `koanf:"postgres.db"`
	PostgresUsername string `koanf:"postgres.username"`
	PostgresPassword string `koanf:"postgres.password"`

	StorageDriver   string        `koanf:"storage.driver"`
	ConnectRetries  uint64        `koanf:"storage.connect_retries"`
	HTTPPort        string        `koanf:"http.port"`
	LogLevel        string        `koanf:"log.level"`
	OperatorWorkers int           `koanf:"operator.workers"`
	SweepInterval   time.Duration `koanf:"scheduler.interval"`

	// TimezoneOffsetHours is the signed UTC offset of the clients whose
	// calendar days are persisted.
	TimezoneOffsetHours int `koanf:"timezone.offset_hours"`
}

// In all cases the default behavior should be for the docker compose setup
var defaults = map[string]interface{}{
	"postgres.address":        "localhost",
	"postgres.port":           "5433",
	"postgres.db":             "postgres",
	"postgres.username":       "postgres",
	"postgres.password":       "testpassword",
	"storage.driver":          StorageDriverPostgres,
	"storage.connect_retries": 5,
	"http.port":               "9446",
	"log.level":               "info",
	"operator.workers":        1,
	"scheduler.interval":      "1m",
	"timezone.offset_hours":   0,
}

// ProcessEnvironmentVariables loads the configuration from defaults, an
// optional YAML file and the environment, in increasing precedence.
// Variables are read as BUDGET_<SECTION>_<KEY> (BUDGET_HTTP_PORT); the
// unprefixed POSTGRES_* names are honored as well.
func ProcessEnvironmentVariables(configFile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configFile, err)
		}
	}

	if err := k.Load(env.Provider("POSTGRES_", ".", postgresEnvKey), nil); err != nil {
		return nil, fmt.Errorf("config postgres env: %w", err)
	}

	if err := k.Load(env.Provider("BUDGET_", ".", budgetEnvKey), nil); err != nil {
		return nil, fmt.Errorf("config env: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{FlatPaths: true}); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// POSTGRES_ADDRESS -> postgres.address
func postgresEnvKey(s string) string {
	return "postgres." + strings.ToLower(strings.TrimPrefix(s, "POSTGRES_"))
}

// BUDGET_TIMEZONE_OFFSET_HOURS -> timezone.offset_hours
func budgetEnvKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "BUDGET_"))
	return strings.Replace(key, "_", ".", 1)
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("unsupported storage driver %q", c.StorageDriver)
	}
	if c.OperatorWorkers < 1 {
		c.OperatorWorkers = 1
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("scheduler interval must be positive, got %s", c.SweepInterval)
	}
	if c.TimezoneOffsetHours < -14 || c.TimezoneOffsetHours > 14 {
		return fmt.Errorf("timezone offset %d is outside [-14, 14]", c.TimezoneOffsetHours)
	}
	return nil
}

// PostgresURL builds the lib/pq connection string.
func (c *Config) PostgresURL() string {
	return "postgres://" + c.PostgresUsername + ":" +
		c.PostgresPassword + "@" + c.PostgresAddress + ":" +
		c.PostgresPort + "/" + c.PostgresDB + "?sslmode=disable"
}
