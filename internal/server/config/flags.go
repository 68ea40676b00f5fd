package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
)

// parseFlags applies command-line overrides.
//
//	-a string   gRPC bind address (e.g. ":50051")
//	-d string   database DSN, or "memory"
//	-s string   token signing secret
//	-g string   token signing algorithm (HS256, HS384, HS512)
//	-t int      access token validity, minutes
//	-m int      minimum password length
//	-p string   password hash algorithm (bcrypt, argon2id)
//	-o string   OTLP/HTTP trace endpoint
//	-l string   log level
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-g", "-t", "-m", "-p", "-o", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.SigningAlgorithm, "g", config.SigningAlgorithm, "token signing algorithm")
	ttl := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	fs.IntVar(&config.MinPasswordLength, "m", config.MinPasswordLength, "minimum password length")
	fs.StringVar(&config.PasswordHashAlgorithm, "p", config.PasswordHashAlgorithm, "password hash algorithm")
	fs.StringVar(&config.OTelEndpoint, "o", config.OTelEndpoint, "OTLP/HTTP trace endpoint")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.AccessTokenValidityDuration = time.Duration(*ttl) * time.Minute
		}
	})
	return nil
}
