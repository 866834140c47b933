package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cbodonnell/sus/pkg/game/constants"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "SUS_"

// Config is the host configuration.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	// DatabaseURL selects the match ledger, sqlite://<file> or postgresql://...
	DatabaseURL   string `env:"DATABASE_URL" envDefault:"sqlite://sus.db"`
	MigrationsDir string `env:"MIGRATIONS_DIR" envDefault:"migrations"`
	APIPort       int    `env:"API_PORT" envDefault:"8080"`
	// DriverToken guards action submission over the API. Empty leaves it open.
	DriverToken  string        `env:"DRIVER_TOKEN"`
	TickInterval time.Duration `env:"TICK_INTERVAL" envDefault:"100ms"`
	Players      int           `env:"PLAYERS" envDefault:"7"`
	Providers    []string      `env:"PROVIDERS" envSeparator:","`
	// Impostors of 0 picks the count from the roster size.
	Impostors int   `env:"IMPOSTORS" envDefault:"0"`
	Seed      int64 `env:"SEED"`
	MapFile   string `env:"MAP_FILE"`
	// DiscussionTime and VotingTime are in ticks. 0 waits for an explicit advance.
	DiscussionTime int    `env:"DISCUSSION_TIME" envDefault:"30"`
	VotingTime     int    `env:"VOTING_TIME" envDefault:"30"`
	MaxTicks       uint64 `env:"MAX_TICKS" envDefault:"0"`
	Bots           bool   `env:"BOTS" envDefault:"true"`
}

// Load reads envFile into the process environment, if it exists, then parses the environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %v", envFile, err)
		}
	}
	return Parse(nil)
}

// Parse parses the configuration from environment, or from the process environment when nil.
func Parse(environment map[string]string) (*Config, error) {
	cfg := &Config{}
	opts := env.Options{
		Prefix:      EnvPrefix,
		Environment: environment,
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Players <= 0 || c.Players > constants.MaxPlayers {
		return fmt.Errorf("%sPLAYERS must be between 1 and %d, got %d", EnvPrefix, constants.MaxPlayers, c.Players)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("%sTICK_INTERVAL must be positive, got %s", EnvPrefix, c.TickInterval)
	}
	if c.DiscussionTime < 0 || c.VotingTime < 0 {
		return fmt.Errorf("phase timers must not be negative")
	}
	if c.APIPort < 0 || c.APIPort > 65535 {
		return fmt.Errorf("%sAPI_PORT out of range: %d", EnvPrefix, c.APIPort)
	}
	return nil
}
