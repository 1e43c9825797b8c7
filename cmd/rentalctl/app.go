package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"rentalcore/internal/auth"
	"rentalcore/internal/collection"
	"rentalcore/internal/config"
	"rentalcore/internal/core"
	"rentalcore/internal/repo"
	"rentalcore/internal/seed"
	"rentalcore/pkg/domain"
)

// cli carries process-level settings and the lazily opened application.
type cli struct {
	loadConfig func() (config.Config, error)
	hashParams auth.HashParams
	now        func() time.Time
	stdout     io.Writer
	stderr     io.Writer

	traceFile   string
	metricsFile string

	app *app
}

func newCLI(stdout, stderr io.Writer) *cli {
	return &cli{
		loadConfig: config.Load,
		hashParams: auth.DefaultHashParams,
		now:        time.Now,
		stdout:     stdout,
		stderr:     stderr,
	}
}

// app is the composition root: one store, the repositories over it, the
// session resolver and the workflow service.
type app struct {
	logger   *slog.Logger
	store    *collection.Store
	repos    *repo.Repositories
	auth     *auth.Resolver
	svc      *core.Service
	registry *prometheus.Registry
	trace    *os.File
}

func (c *cli) open(ctx context.Context) error {
	if c.app != nil {
		return nil
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(errWriter(c), &slog.HandlerOptions{Level: cfg.LogLevel}))

	store, err := collection.Open(ctx, cfg.Storage, collection.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	repos := repo.New(store)
	a := &app{logger: logger, store: store, repos: repos, registry: prometheus.NewRegistry()}

	if cfg.Seed {
		if _, err := seed.Run(ctx, repos, seed.WithHashParams(c.hashParams), seed.WithClock(c.now), seed.WithLogger(logger)); err != nil {
			_ = store.Close()
			return fmt.Errorf("seed: %w", err)
		}
	}

	metrics, err := core.NewPrometheusMetricsRecorder(a.registry)
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("metrics: %w", err)
	}
	opts := []core.ServiceOption{
		core.WithLogger(logger),
		core.WithClock(core.ClockFunc(c.now)),
		core.WithMetricsRecorder(metrics),
		core.WithAuditRecorder(core.NewSlogAuditRecorder(logger)),
	}
	if c.traceFile != "" {
		f, err := os.OpenFile(c.traceFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			_ = store.Close()
			return fmt.Errorf("open trace file: %w", err)
		}
		a.trace = f
		opts = append(opts, core.WithTracer(core.NewJSONTracer(f)))
	}
	a.svc = core.NewService(repos, opts...)

	a.auth = auth.NewResolver(repos,
		auth.WithHashParams(c.hashParams),
		auth.WithThrottle(cfg.Throttle),
		auth.WithClock(c.now),
		auth.WithLogger(logger),
	)
	a.auth.RestoreSession(ctx)
	c.app = a
	return nil
}

func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	a := c.app
	c.app = nil
	var errs []error
	if c.metricsFile != "" {
		if err := prometheus.WriteToTextfile(c.metricsFile, a.registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	if a.trace != nil {
		errs = append(errs, a.trace.Close())
	}
	errs = append(errs, a.store.Close())
	return errors.Join(errs...)
}

// actorContext returns ctx carrying the signed-in user.
func (c *cli) actorContext(ctx context.Context) context.Context {
	return c.app.auth.Context(ctx)
}

func (c *cli) current() (domain.User, error) {
	u, ok := c.app.auth.Current()
	if !ok {
		return domain.User{}, errors.New("not logged in")
	}
	return u, nil
}

// userView is a user without its secret.
type userView struct {
	ID        string           `json:"id"`
	Email     string           `json:"email"`
	Name      string           `json:"name"`
	Role      domain.Role      `json:"role"`
	Phone     *string          `json:"phone,omitempty"`
	IsActive  bool             `json:"isActive"`
	CreatedAt domain.Timestamp `json:"createdAt"`
}

func viewUser(u domain.User) userView {
	return userView{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, Phone: u.Phone, IsActive: u.IsActive, CreatedAt: u.CreatedAt}
}

func (c *cli) print(v any) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) printResult(v any, res domain.Result) error {
	for _, violation := range res.Violations {
		c.app.logger.Warn("rule violation", "rule", violation.Rule, "severity", violation.Severity, "message", violation.Message)
	}
	return c.print(v)
}
