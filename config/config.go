// Package config holds the configuration of contractctl.
//
// Values come, by increasing priority, from the defaults, an optional YAML
// file, an optional .env file, the process environment, and finally the
// command line flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the tool configuration.
type Config struct {
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
	Owner    string `yaml:"owner"`
	Currency string `yaml:"currency"`
	LogLevel string `yaml:"log_level"`
	Kafka    Kafka  `yaml:"kafka"`
}

// Kafka configures event publication. Publication is disabled without brokers.
type Kafka struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Enabled reports whether events should be published.
func (k Kafka) Enabled() bool { return len(k.Brokers) > 0 }

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Driver:   "sqlite",
		DSN:      "contract.db",
		Owner:    "alice",
		Currency: "EUR",
		LogLevel: "warn",
		Kafka:    Kafka{Topic: "contract.transactions"},
	}
}

// Load returns the configuration read from the YAML file at path (skipped
// when path is empty), the .env file of the working directory if any, and
// the environment.
func Load(path string) (Config, error) {
	return LoadFiles(path, ".env")
}

// LoadFiles is like Load with an explicit .env file. A missing .env file is
// not an error, a missing YAML file is.
func LoadFiles(path, dotenv string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("cannot read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("cannot parse config %s: %w", path, err)
		}
	}

	fileEnv := map[string]string{}
	if dotenv != "" {
		m, err := godotenv.Read(dotenv)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("cannot read %s: %w", dotenv, err)
		default:
			fileEnv = m
		}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok
	}

	cfg.applyEnv(lookup)
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set("CONTRACT_DRIVER", &c.Driver)
	set("CONTRACT_DSN", &c.DSN)
	set("CONTRACT_OWNER", &c.Owner)
	set("CONTRACT_CURRENCY", &c.Currency)
	set("CONTRACT_LOG_LEVEL", &c.LogLevel)
	set("CONTRACT_KAFKA_TOPIC", &c.Kafka.Topic)
	if v, ok := lookup("CONTRACT_KAFKA_BROKERS"); ok {
		c.Kafka.Brokers = splitList(v)
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks that the configuration can be used.
func (c Config) Validate() error {
	var errs []error
	switch c.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unsupported driver %q (want sqlite or postgres)", c.Driver))
	}
	if c.DSN == "" {
		errs = append(errs, errors.New("dsn is empty"))
	}
	if c.Owner == "" {
		errs = append(errs, errors.New("owner is empty"))
	}
	if money.GetCurrency(c.Currency) == nil {
		errs = append(errs, fmt.Errorf("unknown currency %q", c.Currency))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if c.Kafka.Enabled() && c.Kafka.Topic == "" {
		errs = append(errs, errors.New("kafka topic is empty"))
	}
	return errors.Join(errs...)
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return l, nil
}
