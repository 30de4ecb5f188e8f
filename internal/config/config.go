package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// PathEnvVar overrides the location of the optional YAML config file.
const PathEnvVar = "CONFIG_PATH"

// DefaultPaths are searched in order when PathEnvVar is unset.
var DefaultPaths = []string{"config.yaml", "config.yml"}

type Config struct {
	App struct {
		ENV string `koanf:"env"`
	} `koanf:"app"`

	Log struct {
		Level     string `koanf:"level"`
		Format    string `koanf:"format"`
		Component string `koanf:"component"`
		Source    bool   `koanf:"source"`
	} `koanf:"log"`

	DB struct {
		DSN             string        `koanf:"dsn"`
		Host            string        `koanf:"host"`
		Port            string        `koanf:"port"`
		User            string        `koanf:"user"`
		Password        string        `koanf:"password"`
		Name            string        `koanf:"name"`
		MaxOpenConns    int           `koanf:"max_open_conns"`
		MaxIdleConns    int           `koanf:"max_idle_conns"`
		ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
		QueryTimeout    time.Duration `koanf:"query_timeout"`
	} `koanf:"db"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
		DB       int    `koanf:"db"`
	} `koanf:"redis"`

	GRPC struct {
		Host string `koanf:"host"`
		Port string `koanf:"port"`
	} `koanf:"grpc"`

	NATS struct {
		URL            string        `koanf:"url"`
		Name           string        `koanf:"name"`
		SubjectPrefix  string        `koanf:"subject_prefix"`
		ReconnectWait  time.Duration `koanf:"reconnect_wait"`
		MaxReconnects  int           `koanf:"max_reconnects"`
		PublishTimeout time.Duration `koanf:"publish_timeout"`
	} `koanf:"nats"`

	Ops struct {
		Addr string `koanf:"addr"`
	} `koanf:"ops"`

	Matching struct {
		DefaultLimit    int           `koanf:"default_limit"`
		DefaultMinScore float64       `koanf:"default_min_score"`
		WeightsCacheTTL time.Duration `koanf:"weights_cache_ttl"`
	} `koanf:"matching"`

	Priority struct {
		SweepInterval time.Duration `koanf:"sweep_interval"`
		CacheTTL      time.Duration `koanf:"cache_ttl"`
	} `koanf:"priority"`

	Breaker struct {
		FailureThreshold uint32        `koanf:"failure_threshold"`
		OpenTimeout      time.Duration `koanf:"open_timeout"`
	} `koanf:"breaker"`
}

// Default returns the built-in configuration used as the lowest layer.
func Default() *Config {
	cfg := &Config{}

	cfg.App.ENV = "production"

	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Log.Component = "matchmaker"

	cfg.DB.Host = "localhost"
	cfg.DB.Port = "3306"
	cfg.DB.User = "root"
	cfg.DB.Password = "root"
	cfg.DB.Name = "muzz"
	cfg.DB.MaxOpenConns = 20
	cfg.DB.MaxIdleConns = 10
	cfg.DB.ConnMaxLifetime = time.Hour
	cfg.DB.QueryTimeout = 3 * time.Second

	cfg.Redis.Addr = "localhost:6379"

	cfg.GRPC.Host = "127.0.0.1"
	cfg.GRPC.Port = "50051"

	cfg.NATS.URL = "nats://127.0.0.1:4222"
	cfg.NATS.Name = "matchmaker"
	cfg.NATS.SubjectPrefix = "match.notify"
	cfg.NATS.ReconnectWait = 2 * time.Second
	cfg.NATS.MaxReconnects = -1
	cfg.NATS.PublishTimeout = 2 * time.Second

	cfg.Ops.Addr = "127.0.0.1:9090"

	cfg.Matching.DefaultLimit = 20
	cfg.Matching.DefaultMinScore = 70
	cfg.Matching.WeightsCacheTTL = 10 * time.Minute

	cfg.Priority.SweepInterval = 5 * time.Minute
	cfg.Priority.CacheTTL = time.Hour

	cfg.Breaker.FailureThreshold = 5
	cfg.Breaker.OpenTimeout = 30 * time.Second

	return cfg
}

// envKeys maps the flat environment names onto koanf paths.
var envKeys = map[string]string{
	"app_env":       "app.env",
	"log_level":     "log.level",
	"log_format":    "log.format",
	"log_component": "log.component",
	"log_source":    "log.source",

	"mysql_dsn":            "db.dsn",
	"db_host":              "db.host",
	"db_port":              "db.port",
	"db_user":              "db.user",
	"db_password":          "db.password",
	"db_name":              "db.name",
	"db_max_open_conns":    "db.max_open_conns",
	"db_max_idle_conns":    "db.max_idle_conns",
	"db_conn_max_lifetime": "db.conn_max_lifetime",
	"db_query_timeout":     "db.query_timeout",

	"redis_addr":     "redis.addr",
	"redis_password": "redis.password",
	"redis_db":       "redis.db",

	"grpc_host": "grpc.host",
	"grpc_port": "grpc.port",

	"nats_url":             "nats.url",
	"nats_name":            "nats.name",
	"nats_subject_prefix":  "nats.subject_prefix",
	"nats_reconnect_wait":  "nats.reconnect_wait",
	"nats_max_reconnects":  "nats.max_reconnects",
	"nats_publish_timeout": "nats.publish_timeout",

	"ops_addr": "ops.addr",

	"matching_default_limit":     "matching.default_limit",
	"matching_default_min_score": "matching.default_min_score",
	"matching_weights_cache_ttl": "matching.weights_cache_ttl",

	"priority_sweep_interval": "priority.sweep_interval",
	"priority_cache_ttl":      "priority.cache_ttl",

	"breaker_failure_threshold": "breaker.failure_threshold",
	"breaker_open_timeout":      "breaker.open_timeout",
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.DB.DSN == "" {
		cfg.DB.DSN = fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name,
		)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// New is Load for callers that cannot proceed without a configuration.
func New() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate rejects values the service cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.DB.MaxOpenConns <= 0:
		return fmt.Errorf("config: db.max_open_conns must be positive")
	case c.DB.MaxIdleConns < 0 || c.DB.MaxIdleConns > c.DB.MaxOpenConns:
		return fmt.Errorf("config: db.max_idle_conns must be within [0, max_open_conns]")
	case c.DB.QueryTimeout <= 0:
		return fmt.Errorf("config: db.query_timeout must be positive")
	case strings.TrimSpace(c.GRPC.Port) == "":
		return fmt.Errorf("config: grpc.port is required")
	case c.Matching.DefaultLimit <= 0:
		return fmt.Errorf("config: matching.default_limit must be positive")
	case c.Matching.DefaultMinScore < 0 || c.Matching.DefaultMinScore > 100:
		return fmt.Errorf("config: matching.default_min_score must be within [0, 100]")
	case c.Priority.SweepInterval <= 0:
		return fmt.Errorf("config: priority.sweep_interval must be positive")
	}
	return nil
}

func envKey(name string) string {
	return envKeys[strings.ToLower(strings.TrimSpace(name))]
}

func findFile() string {
	if p := strings.TrimSpace(os.Getenv(PathEnvVar)); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
