package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Server is the process configuration for cmd/server.
type Server struct {
	HTTPAddr       string   `env:"VAULTSIM_HTTP_ADDR" envDefault:":8080"`
	DBDSN          string   `env:"VAULTSIM_DB_DSN"`
	MigrationsDir  string   `env:"VAULTSIM_MIGRATIONS_DIR" envDefault:"./db/migrations"`
	AutoMigrate    bool     `env:"VAULTSIM_AUTO_MIGRATE" envDefault:"true"`
	TuningFile     string   `env:"VAULTSIM_TUNING_FILE"`
	LogLevel       string   `env:"VAULTSIM_LOG_LEVEL" envDefault:"info"`
	LogFormat      string   `env:"VAULTSIM_LOG_FORMAT" envDefault:"json"`
	CORSOrigins    []string `env:"VAULTSIM_CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	SeedDemoVault  bool     `env:"VAULTSIM_SEED_DEMO"`
	DisableTicking bool     `env:"VAULTSIM_DISABLE_TICKING"`

	TickBudget time.Duration `env:"VAULTSIM_TICK_BUDGET" envDefault:"2s"`
	Scheduler  Scheduler
}

type Scheduler struct {
	Workers      int           `env:"VAULTSIM_SCHEDULER_WORKERS" envDefault:"4"`
	BatchSize    int           `env:"VAULTSIM_SCHEDULER_BATCH_SIZE" envDefault:"100"`
	PollInterval time.Duration `env:"VAULTSIM_SCHEDULER_POLL_INTERVAL" envDefault:"5s"`
	LeaseTTL     time.Duration `env:"VAULTSIM_SCHEDULER_LEASE_TTL" envDefault:"1m"`
}

// LoadServer parses the process configuration from the environment.
func LoadServer() (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

var ErrInvalidServerConfig = errors.New("invalid server config")

// Validate requires a tick to finish, or be aborted, while its lease is held.
func (c Server) Validate() error {
	switch {
	case c.TickBudget <= 0:
		return fmt.Errorf("%w: tick budget must be positive, got %s", ErrInvalidServerConfig, c.TickBudget)
	case c.TickBudget >= c.Scheduler.LeaseTTL:
		return fmt.Errorf("%w: tick budget %s must be shorter than lease ttl %s", ErrInvalidServerConfig, c.TickBudget, c.Scheduler.LeaseTTL)
	}
	return nil
}

// UseMemoryStore reports whether no database is configured.
func (c Server) UseMemoryStore() bool {
	return strings.TrimSpace(c.DBDSN) == ""
}

func (c Server) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
