package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
	"github.com/dmitrijs2005/taskkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Absent keys leave the
// corresponding setting unchanged.
type JsonConfig struct {
	EndpointAddrGRPC            *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	SigningAlgorithm            *string         `json:"signing_algorithm"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	MinPasswordLength           *int            `json:"min_password_length"`
	PasswordHashAlgorithm       *string         `json:"password_hash_algorithm"`
	BcryptCost                  *int            `json:"bcrypt_cost"`
	OTelEndpoint                *string         `json:"otel_endpoint"`
	LogLevel                    *string         `json:"log_level"`
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// parseJson overlays the file given by -c/-config, if any.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setIf(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.SecretKey, c.SecretKey)
	setIf(&config.SigningAlgorithm, c.SigningAlgorithm)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	setIf(&config.MinPasswordLength, c.MinPasswordLength)
	setIf(&config.PasswordHashAlgorithm, c.PasswordHashAlgorithm)
	setIf(&config.BcryptCost, c.BcryptCost)
	setIf(&config.OTelEndpoint, c.OTelEndpoint)
	setIf(&config.LogLevel, c.LogLevel)

	return nil
}
