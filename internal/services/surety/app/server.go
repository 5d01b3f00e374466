package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	platformgrpc "github.com/louisbranch/flightsurety/internal/platform/grpc"
	"github.com/louisbranch/flightsurety/internal/platform/id"
	"github.com/louisbranch/flightsurety/internal/platform/logging"
	"github.com/louisbranch/flightsurety/internal/platform/timeouts"
	grpcmeta "github.com/louisbranch/flightsurety/internal/services/surety/api/grpc/metadata"
	"github.com/louisbranch/flightsurety/internal/services/surety/api/grpc/surety"
	"github.com/louisbranch/flightsurety/internal/services/surety/api/grpc/suretyv1"
	httpapi "github.com/louisbranch/flightsurety/internal/services/surety/api/http"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/aggregate"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/bus"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/engine"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
	"github.com/louisbranch/flightsurety/internal/services/surety/storage"
	"github.com/louisbranch/flightsurety/internal/services/surety/storage/memory"
	"github.com/louisbranch/flightsurety/internal/services/surety/storage/sqlite"
)

// Server hosts the surety gRPC service and the HTTP query API.
type Server struct {
	listener     net.Listener
	httpListener net.Listener
	grpcServer   *grpc.Server
	health       *health.Server
	httpServer   *http.Server
	store        storage.EventStore
	events       *bus.Bus
	engine       *engine.Handler
	logger       *logging.Logger
}

// New opens the journal, rebuilds state and binds the listeners.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg = cfg.normalized()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger.Named("surety")

	store, err := openEventStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	events := bus.New(bus.DefaultBuffer, logger)

	handler, err := buildEngine(ctx, cfg, store, events, logger)
	if err != nil {
		events.Close()
		_ = store.Close()
		return nil, err
	}

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		events.Close()
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}

	grpcServer := grpc.NewServer(platformgrpc.DefaultServerOptions(
		grpc.ChainUnaryInterceptor(grpcmeta.UnaryServerInterceptor(id.NewID)),
		grpc.ChainStreamInterceptor(grpcmeta.StreamServerInterceptor(id.NewID)),
	)...)
	suretyv1.RegisterSuretyServiceServer(grpcServer, surety.NewServer(handler, store, events, logger))
	healthServer := platformgrpc.RegisterHealth(grpcServer, suretyv1.ServiceName)

	s := &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
		events:     events,
		engine:     handler,
		logger:     logger,
	}

	if cfg.HTTPAddr != "-" {
		httpListener, err := net.Listen("tcp", cfg.HTTPAddr)
		if err != nil {
			s.close()
			return nil, fmt.Errorf("listen on %s: %w", cfg.HTTPAddr, err)
		}
		s.httpListener = httpListener
		s.httpServer = &http.Server{
			Handler:           httpapi.NewRouter(handler, store, logger).Routes(),
			ReadHeaderTimeout: timeouts.ReadHeader,
		}
	}
	return s, nil
}

func openEventStore(ctx context.Context, cfg Config) (storage.EventStore, error) {
	keyring, err := cfg.keyring()
	if err != nil {
		return nil, err
	}
	if cfg.memoryJournal() {
		store, err := memory.New(keyring)
		if err != nil {
			return nil, fmt.Errorf("open memory journal: %w", err)
		}
		return store, nil
	}
	if err := ensureDir(cfg.DBPath); err != nil {
		return nil, err
	}
	store, err := sqlite.Open(cfg.DBPath, keyring)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := store.VerifyEventIntegrity(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("verify event integrity: %w", err)
	}
	return store, nil
}

func buildEngine(ctx context.Context, cfg Config, store storage.EventStore, events *bus.Bus, logger *logging.Logger) (*engine.Handler, error) {
	registries, err := aggregate.BuildRegistries()
	if err != nil {
		return nil, fmt.Errorf("build registries: %w", err)
	}
	payouts := logger.Named("payouts")
	handler, err := engine.New(engine.Options{
		Registries: registries,
		Journal:    store,
		Publisher:  events,
		Payer: engine.PayerFunc(func(_ context.Context, passenger principal.Principal, amount principal.Amount) error {
			payouts.Info("payout released", logging.String("passenger", string(passenger)), logging.String("amount", amount.String()))
			return nil
		}),
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	if _, err := handler.Replay(ctx, store); err != nil {
		return nil, fmt.Errorf("replay journal: %w", err)
	}
	if err := handler.Bootstrap(ctx, cfg.Owner, cfg.FirstAirline); err != nil {
		return nil, fmt.Errorf("bootstrap consortium: %w", err)
	}
	return handler, nil
}

// ensureDir creates parent paths for sqlite files so startup can create DB files.
func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage dir: %w", err)
		}
	}
	return nil
}

// Addr returns the gRPC listener address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// HTTPAddr returns the query API listener address, or "" when disabled.
func (s *Server) HTTPAddr() string {
	if s == nil || s.httpListener == nil {
		return ""
	}
	return s.httpListener.Addr().String()
}

// Engine exposes the command handler.
func (s *Server) Engine() *engine.Handler {
	return s.engine
}

// Serve runs both transports until ctx ends or one of them fails, then
// drains in-flight requests and closes the journal.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("gRPC server listening", logging.String("addr", s.Addr()))
		if err := s.grpcServer.Serve(s.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}
		return nil
	})
	if s.httpServer != nil {
		g.Go(func() error {
			s.logger.Info("HTTP server listening", logging.String("addr", s.HTTPAddr()))
			if err := s.httpServer.Serve(s.httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve HTTP: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		s.shutdown()
		return nil
	})
	return g.Wait()
}

func (s *Server) shutdown() {
	s.logger.Info("shutting down")
	s.health.Shutdown()
	if s.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("HTTP shutdown", logging.Error(err))
		}
	}
	// Open event streams only end when the bus closes.
	s.events.Close()
	s.grpcServer.GracefulStop()
}

func (s *Server) close() {
	s.events.Close()
	s.grpcServer.Stop()
	if s.httpListener != nil {
		_ = s.httpListener.Close()
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn("close journal", logging.Error(err))
	}
}

// Run creates and serves a server until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	s, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	return s.Serve(ctx)
}
