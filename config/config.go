// Package config provides a way to configure the seeding commands.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type Backend = string

const (
	BackendScript     Backend = "script"
	BackendClickhouse Backend = "clickhouse"
	BackendPostgres   Backend = "postgres"
)

// StdoutPath makes the script sink write to the standard output.
const StdoutPath = "-"

type Config struct {
	// Source of maps and record filters
	GlobalAPI GlobalAPIConfig `yaml:"global_api" env:", prefix=GLOBAL_API_"`
	// Source of map metadata: tiers, bonuses and workshop ids
	KZGO KZGOConfig `yaml:"kzgo"       env:", prefix=KZGO_"`
	// Settings shared by every outgoing HTTP request
	HTTP HTTPConfig `yaml:"http"       env:", prefix=HTTP_"`
	// Settings related to the writer - the component that saves rows
	Writer WriterConfig `yaml:"writer"     env:", prefix=WRITER_"`
	// Logger configuration
	Log LogConfig `yaml:"log"        env:", prefix=LOG_"`
}

type GlobalAPIConfig struct {
	BaseURL     string `yaml:"base_url"     env:"BASE_URL, overwrite"`
	MapLimit    int    `yaml:"map_limit"    env:"MAP_LIMIT, overwrite"`
	FilterLimit int    `yaml:"filter_limit" env:"FILTER_LIMIT, overwrite"`
	Tickrate    int    `yaml:"tickrate"     env:"TICKRATE, overwrite"`
}

type KZGOConfig struct {
	BaseURL string `yaml:"base_url" env:"BASE_URL, overwrite"`
}

type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout"    env:"TIMEOUT, overwrite"`
	UserAgent string        `yaml:"user_agent" env:"USER_AGENT, overwrite"`
	// Retries
	NumRetries  int           `yaml:"num_retries"   env:"N_RETRIES, overwrite"`
	MinWaitTime time.Duration `yaml:"min_wait_time" env:"MIN_WAIT_TIME, overwrite"`
	MaxWaitTime time.Duration `yaml:"max_wait_time" env:"MAX_WAIT_TIME, overwrite"`

	// Circuit breaker stops hammering an upstream that keeps failing.
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker" env:", prefix=CB_"`
}

type CircuitBreakerConfig struct {
	Enabled            bool          `yaml:"enabled"             env:"ENABLE, overwrite"`
	MaxRequests        uint32        `yaml:"max_requests"        env:"MAX_REQUESTS, overwrite"`
	ConsecutiveFailure uint32        `yaml:"consecutive_failure" env:"CONSECUTIVE_FAILURE, overwrite"`
	Interval           time.Duration `yaml:"interval"            env:"INTERVAL, overwrite"`
	Timeout            time.Duration `yaml:"timeout"             env:"TIMEOUT, overwrite"`
}

type DatabaseCredentials struct {
	Username string
	Password string
}

type SinkConfig struct {
	Backend Backend `yaml:"backend"`
	// Script backend only, "-" means stdout
	Path string `yaml:"path"`
	// Should be set with env vars
	Credentials DatabaseCredentials `yaml:"-"`
	Host        string              `yaml:"host"`
	Port        string              `yaml:"port"`
	Database    string              `yaml:"database"`
}

type TablesConfig struct {
	Maps    string `yaml:"maps"    env:"MAPS, overwrite"`
	Courses string `yaml:"courses" env:"COURSES, overwrite"`
	Filters string `yaml:"filters" env:"FILTERS, overwrite"`
}

type WriterConfig struct {
	// Zero writes every table in a single statement
	InsertBatchSize int  `yaml:"insert_batch_size" env:"INSERT_BATCH_SIZE, overwrite"`
	InitTables      bool `yaml:"init_tables"       env:"INIT_TABLES, overwrite"`
	Retries         int  `yaml:"retries"           env:"RETRIES, overwrite"`

	Tables TablesConfig `yaml:"tables" env:", prefix=TABLE_"`
	Sinks  []SinkConfig `yaml:"sinks"`
}

type LogConfig struct {
	Level    zapcore.Level `yaml:"level"    env:"LEVEL, overwrite"`
	Encoding string        `yaml:"encoding" env:"ENCODING, overwrite"`
}

func Default() *Config {
	return &Config{
		GlobalAPI: GlobalAPIConfig{
			BaseURL:     "https://kztimerglobal.com/api/v2",
			MapLimit:    9999,
			FilterLimit: 99999,
			Tickrate:    128,
		},
		KZGO: KZGOConfig{
			BaseURL: "https://kzgo.eu/api",
		},
		HTTP: HTTPConfig{
			Timeout:     time.Minute,
			UserAgent:   "kzseed",
			NumRetries:  3,
			MinWaitTime: 2 * time.Second,
			MaxWaitTime: 16 * time.Second,
			CircuitBreaker: CircuitBreakerConfig{
				Enabled:            true,
				MaxRequests:        1,
				ConsecutiveFailure: 5,
				Interval:           time.Minute,
				Timeout:            30 * time.Second,
			},
		},
		Writer: WriterConfig{
			Retries: 3,
			Tables: TablesConfig{
				Maps:    "maps",
				Courses: "courses",
				Filters: "filters",
			},
			Sinks: []SinkConfig{
				{Backend: BackendScript, Path: StdoutPath},
			},
		},
		Log: LogConfig{
			Level:    zapcore.InfoLevel,
			Encoding: "console",
		},
	}
}

// Load reads the configuration from the defaults, an optional YAML file
// and the environment, in that order. An empty path falls back to
// CONFIG_PATH; when both are empty only defaults and env are used.
func Load(ctx context.Context, path string) (*Config, error) {
	_ = godotenv.Load() // load the user-defined `.env` file

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	cfg := Default()
	if path != "" {
		if err := cfg.mergeYAML(path); err != nil {
			return nil, fmt.Errorf("loading configuration from %s: %w", path, err)
		}
	}

	if err := envconfig.Process(ctx, cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) mergeYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func (cfg *Config) Validate() error {
	var errs []error
	if len(cfg.Writer.Sinks) == 0 {
		errs = append(errs, errors.New("no sinks configured"))
	}
	for i, sink := range cfg.Writer.Sinks {
		switch sink.Backend {
		case BackendScript:
			if sink.Path == "" {
				errs = append(errs, fmt.Errorf("sink %d: script backend needs a path", i))
			}
		case BackendClickhouse, BackendPostgres:
			if sink.Host == "" {
				errs = append(errs, fmt.Errorf("sink %d: %s backend needs a host", i, sink.Backend))
			}
		default:
			errs = append(errs, fmt.Errorf("sink %d: unknown backend %q", i, sink.Backend))
		}
	}
	tables := cfg.Writer.Tables
	if tables.Maps == "" || tables.Courses == "" || tables.Filters == "" {
		errs = append(errs, errors.New("table names must not be empty"))
	}
	if cfg.Writer.InsertBatchSize < 0 {
		errs = append(errs, errors.New("insert batch size must not be negative"))
	}
	if cfg.GlobalAPI.BaseURL == "" || cfg.KZGO.BaseURL == "" {
		errs = append(errs, errors.New("api base urls must not be empty"))
	}
	return errors.Join(errs...)
}
