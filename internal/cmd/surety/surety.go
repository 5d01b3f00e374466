// Package surety parses server flags and starts the surety service.
package surety

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/louisbranch/flightsurety/internal/platform/cmd"
	"github.com/louisbranch/flightsurety/internal/platform/logging"
	server "github.com/louisbranch/flightsurety/internal/services/surety/app"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

// Config holds server command configuration.
type Config struct {
	Port          int            `env:"FLIGHT_SURETY_PORT" envDefault:"8090"`
	Addr          string         `env:"FLIGHT_SURETY_ADDR"`
	HTTPAddr      string         `env:"FLIGHT_SURETY_HTTP_ADDR" envDefault:":8091"`
	DBPath        string         `env:"FLIGHT_SURETY_DB_PATH" envDefault:"data/surety.db"`
	Owner         string         `env:"FLIGHT_SURETY_OWNER" envDefault:"owner"`
	FirstAirline  string         `env:"FLIGHT_SURETY_FIRST_AIRLINE" envDefault:"airline-1"`
	HMACKeys      string         `env:"FLIGHT_SURETY_HMAC_KEYS"`
	HMACActiveKey string         `env:"FLIGHT_SURETY_HMAC_ACTIVE_KEY"`
	Log           logging.Config `envPrefix:"FLIGHT_SURETY_LOG_"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The gRPC server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The gRPC listen address (overrides -port)")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, `The query API listen address ("-" disables it)`)
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, `The journal path (":memory:" keeps it in memory)`)
	fs.StringVar(&cfg.Owner, "owner", cfg.Owner, "The consortium owner principal")
	fs.StringVar(&cfg.FirstAirline, "first-airline", cfg.FirstAirline, "The airline registered at genesis")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "Log level: debug, info, warn or error")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) listenAddr() string {
	if c.Addr != "" {
		return c.Addr
	}
	return fmt.Sprintf(":%d", c.Port)
}

// Run starts the surety service.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceSurety, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		return server.Run(ctx, server.Config{
			Addr:          cfg.listenAddr(),
			HTTPAddr:      cfg.HTTPAddr,
			DBPath:        cfg.DBPath,
			Owner:         principal.Principal(cfg.Owner),
			FirstAirline:  principal.Principal(cfg.FirstAirline),
			HMACKeys:      cfg.HMACKeys,
			HMACActiveKey: cfg.HMACActiveKey,
			Logger:        logger,
		})
	})
}
