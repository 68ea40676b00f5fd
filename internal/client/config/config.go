// Package config loads runtime configuration for the taskkeeper CLI:
// defaults, an optional JSON file (-c/-config), TASKKEEPER_CLI_* environment
// variables and command-line flags, applied in that order.
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "5s"
//	}
package config

import (
	"errors"
	"os"
	"time"
)

// EnvPrefix prefixes every environment variable read by the CLI.
const EnvPrefix = "TASKKEEPER_CLI_"

type Config struct {
	ServerEndpointAddr string        `env:"SERVER_ADDR"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT"`
	OTelEndpoint       string        `env:"OTEL_ENDPOINT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 5 * time.Second
}

func (c *Config) Validate() error {
	var errs []error
	if c.ServerEndpointAddr == "" {
		errs = append(errs, errors.New("server address is required"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	return errors.Join(errs...)
}

// Load builds a Config from defaults, the JSON file named in args, the
// environment and the flags in args.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}
