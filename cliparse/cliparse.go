package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

type Config struct {
	Port         int    `env:"PORT" envDefault:"3318"`
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseType string `env:"DATABASE_TYPE" envDefault:"sqlite"`

	// Alexa Skill Messaging credentials
	ClientID     string `env:"ALEXA_CLIENT_ID"`
	ClientSecret string `env:"ALEXA_CLIENT_SECRET"`

	TokenURL         string        `env:"TOKEN_URL" envDefault:"https://api.amazon.com/auth/o2/token"`
	TokenTimeout     time.Duration `env:"TOKEN_TIMEOUT" envDefault:"3s"`
	DataStoreURL     string        `env:"DATASTORE_URL" envDefault:"https://api.amazonalexa.com"`
	DataStoreTimeout time.Duration `env:"DATASTORE_TIMEOUT" envDefault:"0s"`
	Namespace        string        `env:"DATASTORE_NAMESPACE" envDefault:"plantCareReminder"`
	ObjectKey        string        `env:"DATASTORE_KEY" envDefault:"plantData"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"`
	ServiceName  string `env:"SERVICE_NAME" envDefault:"plant-care"`

	// TimeZone names the IANA zone users' calendar dates are read in.
	// Requests carry no zone of their own.
	TimeZone string         `env:"TIME_ZONE" envDefault:"UTC"`
	Location *time.Location `env:"-"`
}

// ParseFlags builds the config from CLI flags, the environment and an optional
// .env file, in that order of precedence
func ParseFlags(args []string) (Config, error) {
	var flags Config
	var envFile string

	fs := flag.NewFlagSet("plant-care", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&flags.Port, "p", 0, "Server port")
	fs.StringVar(&flags.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&flags.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&flags.TokenURL, "token-url", "", "OAuth token endpoint")
	fs.StringVar(&flags.DataStoreURL, "datastore-url", "", "DataStore API base URL")
	fs.StringVar(&flags.OTelEndpoint, "otel-endpoint", "", "OTLP/HTTP trace endpoint")
	fs.StringVar(&flags.TimeZone, "tz", "", "IANA time zone of the skill's users")
	fs.StringVar(&envFile, "env-file", ".env", "Dotenv file to read (ignored if missing)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&flags.ClientID, "client-id", "", "Alexa client id (prefer env)")
	fs.StringVar(&flags.ClientSecret, "client-secret", "", "Alexa client secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	environ, err := loadEnvironment(envFile)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	// CLI flags win over env
	if flags.Port != 0 {
		cfg.Port = flags.Port
	}
	overrideString(&cfg.DatabaseURL, flags.DatabaseURL)
	overrideString(&cfg.DatabaseType, flags.DatabaseType)
	overrideString(&cfg.TokenURL, flags.TokenURL)
	overrideString(&cfg.DataStoreURL, flags.DataStoreURL)
	overrideString(&cfg.OTelEndpoint, flags.OTelEndpoint)
	overrideString(&cfg.TimeZone, flags.TimeZone)
	overrideString(&cfg.ClientID, flags.ClientID)
	overrideString(&cfg.ClientSecret, flags.ClientSecret)

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return Config{}, fmt.Errorf("time zone %q: %w", cfg.TimeZone, err)
	}
	cfg.Location = loc

	// Secrets - MUST be provided
	if cfg.ClientID == "" {
		return Config{}, errors.New("ALEXA_CLIENT_ID required")
	}
	if cfg.ClientSecret == "" {
		return Config{}, errors.New("ALEXA_CLIENT_SECRET required")
	}

	return cfg, nil
}

// loadEnvironment merges the dotenv file under the process environment.
// Process variables win, matching godotenv.Load.
func loadEnvironment(path string) (map[string]string, error) {
	environ := map[string]string{}
	if path != "" {
		fileVars, err := godotenv.Read(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		for k, v := range fileVars {
			environ[k] = v
		}
	}
	for k, v := range env.ToMap(os.Environ()) {
		environ[k] = v
	}
	return environ, nil
}

func overrideString(dst *string, flagValue string) {
	if flagValue != "" {
		*dst = flagValue
	}
}
