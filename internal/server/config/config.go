// Package config handles configuration for the server component: defaults,
// an optional JSON file, environment variables and command-line flags,
// applied in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// EnvPrefix prefixes every environment variable read by the server.
const EnvPrefix = "TASKKEEPER_"

// Config holds runtime settings for the taskkeeper server.
//
// SecretKey signs access tokens and is required. DatabaseDSN is a pgx DSN,
// or "memory" for the in-process store.
type Config struct {
	EndpointAddrGRPC            string        `env:"GRPC_ADDR"`
	DatabaseDSN                 string        `env:"DATABASE_DSN"`
	SecretKey                   string        `env:"SECRET_KEY"`
	SigningAlgorithm            string        `env:"ALGORITHM"`
	AccessTokenValidityDuration time.Duration `env:"ACCESS_TOKEN_TTL"`
	MinPasswordLength           int           `env:"MIN_PASSWORD_LENGTH"`
	PasswordHashAlgorithm       string        `env:"PASSWORD_HASH_ALGORITHM"`
	BcryptCost                  int           `env:"BCRYPT_COST"`
	OTelEndpoint                string        `env:"OTEL_ENDPOINT"`
	LogLevel                    string        `env:"LOG_LEVEL"`
}

// LoadDefaults populates Config with development defaults. No secret is
// provided; it must come from the file, the environment or a flag.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = repomanager.MemoryDSN
	c.SigningAlgorithm = auth.DefaultAlgorithm
	c.AccessTokenValidityDuration = 30 * time.Minute
	c.MinPasswordLength = 8
	c.PasswordHashAlgorithm = "bcrypt"
	c.BcryptCost = bcrypt.DefaultCost
	c.LogLevel = "info"
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is required"))
	}
	if c.AccessTokenValidityDuration <= 0 {
		errs = append(errs, fmt.Errorf("access token lifetime must be positive, got %s", c.AccessTokenValidityDuration))
	}
	if c.MinPasswordLength < 1 {
		errs = append(errs, fmt.Errorf("minimum password length must be positive, got %d", c.MinPasswordLength))
	}
	if c.EndpointAddrGRPC == "" {
		errs = append(errs, errors.New("grpc address is required"))
	}
	return errors.Join(errs...)
}

// Load builds a Config from defaults, the JSON file named by -c/-config in
// args, the environment, and finally the flags in args.
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
