// Package core implements the rental workflows: applications, leases,
// complaints, payments and property management. Every mutation is expressed
// as domain.Change records, evaluated by the rules engine, then written
// through the repositories.
package core

import (
	"context"
	"time"

	"rentalcore/internal/ids"
	"rentalcore/internal/repo"
	"rentalcore/pkg/domain"
)

// Service exposes the workflow operations over the entity repositories.
type Service struct {
	repos   *repo.Repositories
	rules   *domain.RulesEngine
	ids     ids.Generator
	logger  Logger
	clock   Clock
	metrics MetricsRecorder
	tracer  Tracer
	audit   AuditRecorder
}

// ServiceOption configures optional collaborators.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for record timestamps.
func WithClock(clock Clock) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithMetricsRecorder installs a metrics recorder.
func WithMetricsRecorder(recorder MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if recorder != nil {
			s.metrics = recorder
		}
	}
}

// WithTracer installs a tracer.
func WithTracer(tracer Tracer) ServiceOption {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithAuditRecorder installs an audit recorder.
func WithAuditRecorder(recorder AuditRecorder) ServiceOption {
	return func(s *Service) {
		if recorder != nil {
			s.audit = recorder
		}
	}
}

// WithRulesEngine replaces the default rules engine.
func WithRulesEngine(engine *domain.RulesEngine) ServiceOption {
	return func(s *Service) {
		if engine != nil {
			s.rules = engine
		}
	}
}

// WithIDGenerator overrides record id generation.
func WithIDGenerator(g ids.Generator) ServiceOption {
	return func(s *Service) {
		if g != nil {
			s.ids = g
		}
	}
}

// NewService constructs a service over repos.
func NewService(repos *repo.Repositories, opts ...ServiceOption) *Service {
	s := &Service{
		repos:   repos,
		rules:   NewDefaultRulesEngine(),
		ids:     ids.Default,
		logger:  noopLogger{},
		clock:   ClockFunc(time.Now),
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
		audit:   noopAuditRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repositories returns the repositories the service writes through.
func (s *Service) Repositories() *repo.Repositories {
	return s.repos
}

// RulesEngine returns the active rules engine.
func (s *Service) RulesEngine() *domain.RulesEngine {
	return s.rules
}

func (s *Service) now() domain.Timestamp {
	return domain.NewTimestamp(s.clock.Now())
}

// run wraps a workflow body with tracing, metrics, audit and logging. The
// body reports the id of the entity it touched.
func (s *Service) run(ctx context.Context, op string, body func(ctx context.Context) (string, domain.Result, error)) (domain.Result, error) {
	ctx, span := s.tracer.Start(ctx, op)
	started := time.Now()
	entityID, res, err := body(ctx)
	duration := time.Since(started)
	span.End(err)
	s.metrics.Observe(ctx, op, err == nil, duration)

	actorID := ""
	if actor, ok := domain.ActorFromContext(ctx); ok {
		actorID = actor.ID
	}
	if err != nil {
		s.logger.Error("operation failed", "operation", op, "entity_id", entityID, "actor_id", actorID, "duration", duration, "error", err)
		s.recordAuditError(ctx, op, entityID, actorID, duration, err)
		return res, err
	}
	s.logger.Debug("operation completed", "operation", op, "entity_id", entityID, "actor_id", actorID, "duration", duration, "violations", len(res.Violations))
	s.recordAuditSuccess(ctx, op, entityID, actorID, duration)
	return res, nil
}

func (s *Service) recordAuditSuccess(ctx context.Context, op, entityID, actorID string, duration time.Duration) {
	s.recordAudit(ctx, op, entityID, actorID, duration, nil)
}

func (s *Service) recordAuditError(ctx context.Context, op, entityID, actorID string, duration time.Duration, err error) {
	s.recordAudit(ctx, op, entityID, actorID, duration, err)
}

func (s *Service) recordAudit(ctx context.Context, op, entityID, actorID string, duration time.Duration, err error) {
	meta, ok := operationMeta[op]
	if !ok {
		return
	}
	entry := AuditEntry{
		Operation: op,
		Entity:    meta.entity,
		Action:    meta.action,
		EntityID:  entityID,
		ActorID:   actorID,
		Status:    AuditStatusSuccess,
		Duration:  duration,
		Timestamp: s.clock.Now(),
	}
	if err != nil {
		entry.Status = AuditStatusError
		entry.Error = err.Error()
	}
	s.audit.Record(ctx, entry)
}

// commit evaluates changes against the rules engine and, when nothing blocks,
// performs write. Non-blocking violations are returned alongside success.
func (s *Service) commit(ctx context.Context, changes []domain.Change, write func() error) (domain.Result, error) {
	res, err := s.rules.Evaluate(ctx, newRepoView(ctx, s.repos), changes)
	if err != nil {
		return domain.Result{}, err
	}
	if res.HasBlocking() {
		return res, domain.RuleViolationError{Result: res}
	}
	if err := write(); err != nil {
		return res, err
	}
	return res, nil
}

func createChange[T any](entity domain.EntityType, after T) (domain.Change, error) {
	payload, err := domain.NewChangePayloadFromValue(after)
	if err != nil {
		return domain.Change{}, err
	}
	return domain.Change{Entity: entity, Action: domain.ActionCreate, After: payload}, nil
}

func updateChange[T any](entity domain.EntityType, before, after T) (domain.Change, error) {
	b, err := domain.NewChangePayloadFromValue(before)
	if err != nil {
		return domain.Change{}, err
	}
	a, err := domain.NewChangePayloadFromValue(after)
	if err != nil {
		return domain.Change{}, err
	}
	return domain.Change{Entity: entity, Action: domain.ActionUpdate, Before: b, After: a}, nil
}

func deleteChange[T any](entity domain.EntityType, before T) (domain.Change, error) {
	payload, err := domain.NewChangePayloadFromValue(before)
	if err != nil {
		return domain.Change{}, err
	}
	return domain.Change{Entity: entity, Action: domain.ActionDelete, Before: payload}, nil
}

func replaceWith[T any](next T) func(T) T {
	return func(T) T { return next }
}
