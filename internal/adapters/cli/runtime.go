package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/processor-go/internal/adapters/bus"
	"github.com/andrescamacho/processor-go/internal/adapters/definitions"
	"github.com/andrescamacho/processor-go/internal/adapters/host"
	"github.com/andrescamacho/processor-go/internal/adapters/logging"
	"github.com/andrescamacho/processor-go/internal/adapters/metrics"
	"github.com/andrescamacho/processor-go/internal/adapters/persistence"
	"github.com/andrescamacho/processor-go/internal/adapters/statusfeed"
	"github.com/andrescamacho/processor-go/internal/application/common"
	appProcessing "github.com/andrescamacho/processor-go/internal/application/processing"
	processingCommands "github.com/andrescamacho/processor-go/internal/application/processing/commands"
	"github.com/andrescamacho/processor-go/internal/application/setup"
	"github.com/andrescamacho/processor-go/internal/application/simulation"
	"github.com/andrescamacho/processor-go/internal/domain/processing"
	"github.com/andrescamacho/processor-go/internal/domain/shared"
	"github.com/andrescamacho/processor-go/internal/infrastructure/config"
	"github.com/andrescamacho/processor-go/internal/infrastructure/database"
	"github.com/andrescamacho/processor-go/internal/infrastructure/pidfile"
	"github.com/andrescamacho/processor-go/pkg/utils"
)

// runtime is the wired application behind a single CLI invocation
type runtime struct {
	cfg      *config.Config
	runID    string
	mediator common.Mediator
	units    *appProcessing.UnitRegistry
	pickups  *appProcessing.PickupRegistry
	logger   common.RunLogger

	db        *gorm.DB
	snapshots *persistence.GormSnapshotRepository
	runLogs   *persistence.GormRunLogRepository

	hub     *statusfeed.Hub
	closers []func()
}

// runtimeOptions selects which optional adapters a command needs
type runtimeOptions struct {
	worldPath string
	persist   bool
	live      bool

	// lock takes the run lock so that two persisted runs never write the same snapshots
	lock bool
}

// newRuntime wires config into adapters. The returned context carries the run logger.
func newRuntime(ctx context.Context, cfg *config.Config, opts runtimeOptions) (*runtime, context.Context, error) {
	rt := &runtime{
		cfg:     cfg,
		runID:   utils.GenerateRunID(opts.worldPath),
		units:   appProcessing.NewUnitRegistry(),
		pickups: appProcessing.NewPickupRegistry(),
	}

	logCfg := cfg.Logging
	if verbose {
		logCfg.Level = "debug"
	}
	stdLogger, logCloser, err := logging.NewFromConfig(logCfg)
	if err != nil {
		return nil, ctx, err
	}
	rt.addCloser(func() { _ = logCloser.Close() })
	loggers := common.MultiLogger{stdLogger}

	if opts.lock {
		lock := pidfile.New(cfg.Simulation.PIDFile)
		if err := lock.Acquire(); err != nil {
			rt.Close()
			return nil, ctx, err
		}
		rt.addCloser(func() { _ = lock.Release() })
	}

	if opts.persist {
		db, err := database.NewConnection(&cfg.Database)
		if err != nil {
			rt.Close()
			return nil, ctx, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.AutoMigrate(db); err != nil {
			rt.Close()
			return nil, ctx, fmt.Errorf("failed to migrate database: %w", err)
		}
		rt.db = db
		rt.addCloser(func() { _ = database.Close(db) })
		rt.snapshots = persistence.NewGormSnapshotRepository(db, nil)
		rt.runLogs = persistence.NewGormRunLogRepository(db, nil)
		if cfg.Logging.Persist {
			loggers = append(loggers, persistence.NewRunLogger(rt.runLogs, rt.runID))
		}
	}
	rt.logger = loggers
	ctx = common.WithLogger(ctx, rt.logger)

	rt.mediator = common.NewMediator()
	publishers := appProcessing.MultiPublisher{}
	var broadcaster appProcessing.StatusBroadcaster = appProcessing.NopBroadcaster{}

	if opts.live {
		if cfg.Metrics.Enabled {
			if err := rt.startMetrics(ctx); err != nil {
				rt.Close()
				return nil, ctx, err
			}
		}
		if cfg.Feed.Enabled {
			if err := rt.startFeed(ctx); err != nil {
				rt.Close()
				return nil, ctx, err
			}
			publishers = append(publishers, rt.hub)
			broadcaster = rt.hub
		}
		if cfg.Bus.Enabled {
			client, err := bus.Connect(cfg.Bus.URL)
			if err != nil {
				rt.Close()
				return nil, ctx, err
			}
			rt.addCloser(client.Close)
			publishers = append(publishers, bus.NewEventPublisher(client.Conn(), cfg.Bus.SubjectPrefix))
		}
	}

	var snapshots processing.SnapshotRepository
	if rt.snapshots != nil {
		snapshots = rt.snapshots
	}
	var publisher appProcessing.EventPublisher = appProcessing.NopPublisher{}
	if len(publishers) > 0 {
		publisher = publishers
	}

	registry := setup.NewHandlerRegistry(rt.units, rt.pickups, snapshots, publisher, broadcaster, nil)
	if err := registry.RegisterProcessingHandlers(rt.mediator); err != nil {
		rt.Close()
		return nil, ctx, fmt.Errorf("failed to register handlers: %w", err)
	}
	return rt, ctx, nil
}

func (rt *runtime) startMetrics(ctx context.Context) error {
	metrics.InitRegistry()

	commandCollector := metrics.NewCommandMetricsCollector()
	if err := commandCollector.Register(); err != nil {
		return fmt.Errorf("failed to register command metrics: %w", err)
	}
	rt.mediator.RegisterMiddleware(metrics.PrometheusMiddleware(commandCollector))

	processingCollector := metrics.NewProcessingMetricsCollector(rt.unitStats)
	if err := processingCollector.Register(); err != nil {
		return fmt.Errorf("failed to register processing metrics: %w", err)
	}
	metrics.SetGlobalProcessingCollector(processingCollector)
	processingCollector.Start(ctx, 5*time.Second)
	rt.addCloser(func() {
		processingCollector.Stop()
		metrics.SetGlobalProcessingCollector(nil)
	})

	server, err := metrics.NewServer(rt.cfg.Metrics)
	if err != nil {
		return err
	}
	server.Start(ctx)
	return nil
}

func (rt *runtime) startFeed(ctx context.Context) error {
	feedCtx, cancel := context.WithCancel(ctx)
	rt.hub = statusfeed.NewHub(rt.logger)
	go rt.hub.Run(feedCtx)

	server := statusfeed.NewServer(rt.hub, statusfeed.ServerOptions{
		Address:     rt.cfg.Feed.Address,
		Registry:    metrics.GetRegistry(),
		MetricsPath: rt.cfg.Metrics.Path,
	})
	if err := server.Start(feedCtx); err != nil {
		cancel()
		return err
	}
	rt.addCloser(cancel)
	return nil
}

// unitStats summarises the registered units for the metrics gauges
func (rt *runtime) unitStats() metrics.UnitStats {
	stats := metrics.UnitStats{ByStatus: make(map[string]int), AwaitingPickup: rt.pickups.Count()}
	for _, id := range rt.units.IDs() {
		_ = rt.units.With(id, func(p *processing.ResourceProcessor) error {
			stats.ByStatus[string(p.Status())]++
			stats.Queued += p.Stack().Len()
			return nil
		})
	}
	return stats
}

// spawnWorld builds the sandbox host and registers every unit with the scheduler
func (rt *runtime) spawnWorld(ctx context.Context, world *definitions.World) (*host.Sandbox, error) {
	policy := processing.RuinPolicy{
		AccrualPerTick: rt.cfg.Simulation.Ruin.AccrualPerTick,
		DecayPerTick:   rt.cfg.Simulation.Ruin.DecayPerTick,
	}
	sandbox, err := host.NewSandbox(world, host.SandboxOptions{
		AmbientTemperature: rt.cfg.Simulation.AmbientTemperature,
		WasteEnabled:       rt.cfg.Features.IsWasteEnabled(),
		RuinPolicy:         &policy,
		Pickups:            rt.pickups,
	})
	if err != nil {
		return nil, err
	}

	for _, unit := range sandbox.Units {
		cadence, err := appProcessing.ParseCadence(unit.Template.Cadence)
		if err != nil {
			return nil, fmt.Errorf("unit %s: %w", unit.Template.ID, err)
		}
		if err := rt.units.Register(unit.Processor, cadence); err != nil {
			return nil, err
		}
	}
	common.LoggerFromContext(ctx).Log("INFO", fmt.Sprintf("[Spawn] %d units from %d definitions", len(sandbox.Units), sandbox.Catalog.Len()), nil)
	return sandbox, nil
}

// restoreUnits loads saved snapshots over freshly spawned units; units without one keep
// their authored queue
func (rt *runtime) restoreUnits(ctx context.Context) (int, error) {
	restored := 0
	for _, id := range rt.units.IDs() {
		_, err := rt.mediator.Send(ctx, &processingCommands.LoadUnitCommand{UnitID: id})
		var notFound *shared.NotFoundError
		switch {
		case err == nil:
			restored++
		case errors.As(err, &notFound):
		default:
			return restored, err
		}
	}
	return restored, nil
}

// intervals converts the configured cadence into ticker intervals
func (rt *runtime) intervals() simulation.Intervals {
	c := rt.cfg.Simulation.Cadence
	return simulation.Intervals{
		appProcessing.CadenceNormal: c.Normal,
		appProcessing.CadenceRare:   c.Rare,
		appProcessing.CadenceLong:   c.Long,
	}
}

func (rt *runtime) addCloser(fn func()) {
	rt.closers = append(rt.closers, fn)
}

// Close releases adapters in reverse order of creation
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}
