// Package reporters parses fleet configuration and runs simulated oracle
// reporters against a surety server.
package reporters

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	entrypoint "github.com/louisbranch/flightsurety/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/flightsurety/internal/platform/grpc"
	"github.com/louisbranch/flightsurety/internal/platform/logging"
	"github.com/louisbranch/flightsurety/internal/platform/timeouts"
	"github.com/louisbranch/flightsurety/internal/services/surety/client"
	"github.com/louisbranch/flightsurety/internal/services/surety/reporter"
)

const defaultServer = "localhost:8090"

// Config holds reporters command configuration.
type Config struct {
	FleetPath string         `env:"FLIGHT_SURETY_REPORTERS_CONFIG"`
	Server    string         `env:"FLIGHT_SURETY_SERVER_ADDR"`
	Count     int            `env:"FLIGHT_SURETY_REPORTERS_COUNT" envDefault:"20"`
	Seed      uint64         `env:"FLIGHT_SURETY_REPORTERS_SEED" envDefault:"1"`
	Log       logging.Config `envPrefix:"FLIGHT_SURETY_LOG_"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.FleetPath, "config", cfg.FleetPath, "Path to a TOML fleet file")
	fs.StringVar(&cfg.Server, "server", cfg.Server, "The surety gRPC address (overrides the fleet file)")
	fs.IntVar(&cfg.Count, "count", cfg.Count, "Random reporters to run when the fleet file sets no count")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Seed for random reporters when the fleet file sets none")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "Log level: debug, info, warn or error")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// fleet loads the fleet file and fills gaps from cfg.
func (c Config) fleet() (Fleet, error) {
	fleet, err := LoadFleet(c.FleetPath)
	if err != nil {
		return Fleet{}, err
	}
	if strings.TrimSpace(c.Server) != "" {
		fleet.Server = c.Server
	}
	if fleet.Server == "" {
		fleet.Server = defaultServer
	}
	if fleet.Count == 0 && len(fleet.Reporters) == 0 {
		fleet.Count = c.Count
	}
	if fleet.Seed == 0 {
		fleet.Seed = c.Seed
	}
	return fleet, nil
}

// Run starts every reporter and blocks until ctx ends or one fails.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	fleet, err := cfg.fleet()
	if err != nil {
		return err
	}
	nodes, err := fleet.Nodes()
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return fmt.Errorf("fleet has no reporters")
	}

	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceReporters, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		conn, err := platformgrpc.DialWithHealth(ctx, nil, fleet.Server, timeouts.GRPCDial, logger.Printf, platformgrpc.DefaultClientDialOptions()...)
		if err != nil {
			return fmt.Errorf("dial surety server: %w", err)
		}
		defer func() {
			if err := conn.Close(); err != nil {
				logger.Warn("close connection", logging.Error(err))
			}
		}()

		base := client.New(conn, "")
		logger.Info("starting reporters", logging.Int("count", len(nodes)), logging.String("server", fleet.Server))

		g, gctx := errgroup.WithContext(ctx)
		for _, spec := range nodes {
			node := reporter.New(base.As(spec.ID), spec.Strategy, reporter.Config{}, logger)
			g.Go(func() error {
				if err := node.Run(gctx); err != nil {
					return fmt.Errorf("reporter %s: %w", spec.ID, err)
				}
				return nil
			})
		}
		return g.Wait()
	})
}
