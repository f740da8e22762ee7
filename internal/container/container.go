package container

import (
	"context"
	"fmt"
	"sync"
	"time"

	"chicuadrado/adapters/excel"
	"chicuadrado/adapters/stats/chisquare"
	"chicuadrado/app"
	"chicuadrado/internal"
	"chicuadrado/internal/config"
	"chicuadrado/internal/dataset"
	"chicuadrado/internal/profiling"
	"chicuadrado/internal/session"
)

// janitorInterval is how often idle sessions are swept
const janitorInterval = time.Minute

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Data loading
	Reader *excel.DataReader
	Loader *dataset.Loader

	// Analysis
	Evaluator   *chisquare.Evaluator
	TestService *app.TestService
	Profiler    *profiling.DataProfiler

	// Per-browser state
	Sessions *session.Store

	stopOnce sync.Once
	stop     context.CancelFunc
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level), cfg.Log.Format)
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	c.Reader = excel.NewDataReader(excel.DefaultExcelConfig(), logger)
	c.Loader = dataset.NewLoader(c.Reader, dataset.LoaderConfig{
		MaxBytes:      cfg.Upload.MaxUploadBytes(),
		MaxConcurrent: int64(cfg.Upload.MaxConcurrent),
	}, logger)

	c.Evaluator = chisquare.NewEvaluator(cfg.Analysis.YatesCorrection)
	c.TestService = app.NewTestService(c.Evaluator, logger)
	c.Profiler = profiling.NewDataProfiler()

	c.Sessions = session.NewStore(session.StoreConfig{
		TTL:          cfg.Session.TTL,
		DefaultAlpha: cfg.Analysis.DefaultAlpha,
	}, logger)

	return c, nil
}

// Start launches background work (the idle-session janitor)
func (c *Container) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	c.stop = cancel
	c.Sessions.StartJanitor(ctx, janitorInterval)
	c.Logger.Debug("[Container] Session janitor started (every %s, ttl %s)", janitorInterval, c.Config.Session.TTL)
}

// Shutdown stops background work and flushes the logger
func (c *Container) Shutdown(ctx context.Context) error {
	c.stopOnce.Do(func() {
		if c.stop != nil {
			c.stop()
		}
	})
	_ = c.Logger.Sync()
	return ctx.Err()
}
