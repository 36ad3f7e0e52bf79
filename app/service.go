// Package app assembles the scheduling engine from configuration: store,
// directory, searcher, metrics sinks and the orchestrator.
package app

import (
	"context"
	"fmt"

	"github.com/spedops/pullout/config"
	"github.com/spedops/pullout/core/schedule"
	"github.com/spedops/pullout/core/slot"
	"github.com/spedops/pullout/directory"
	"github.com/spedops/pullout/infra/logger"
	"github.com/spedops/pullout/infra/store"
	"github.com/spedops/pullout/internal/eventbus"
	"github.com/spedops/pullout/metrics"
)

// Service bundles the wired scheduling engine.
type Service struct {
	Scheduler *schedule.Scheduler
	Store     store.Store
	Directory *directory.MemoryDirectory

	bus         eventbus.EventBus
	log         logger.Logger
	promEnabled bool
	promAddr    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var st store.Store
	switch cfg.Store.Backend {
	case "sqlite":
		s, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("sqlite store: %w", err)
		}
		st = s
	default:
		st = store.NewMemoryStore()
	}

	var sinks []metrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink metrics.MetricsSink = metrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	searcher, err := slot.NewSearcher(cfg.Scheduling)
	if err != nil {
		return nil, fmt.Errorf("slot searcher: %w", err)
	}

	dir := directory.NewMemoryDirectory()
	bus := eventbus.New()
	sched, err := schedule.New(st, dir, searcher, logger.New("scheduler"), sink, bus)
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}

	return &Service{
		Scheduler:   sched,
		Store:       st,
		Directory:   dir,
		bus:         bus,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promAddr:    cfg.Metrics.PrometheusAddr,
	}, nil
}

// Run starts the metrics endpoint and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	<-ctx.Done()
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	return s.Store.Close()
}
