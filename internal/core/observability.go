package core

import (
	"context"
	"time"

	"rentalcore/pkg/domain"
)

// Logger is the structured logger used by the service. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// MetricsRecorder observes the outcome and latency of every operation.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

type noopMetricsRecorder struct{}

func (noopMetricsRecorder) Observe(context.Context, string, bool, time.Duration) {}

// TraceSpan is ended exactly once with the operation error.
type TraceSpan interface {
	End(err error)
}

// Tracer opens a span per operation.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

type noopTracer struct{}

type noopSpan struct{}

func (noopSpan) End(error) {}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

// AuditStatus is the outcome recorded in an audit entry.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusError   AuditStatus = "error"
)

// AuditEntry describes one workflow operation attempt.
type AuditEntry struct {
	Operation string
	Entity    domain.EntityType
	Action    domain.Action
	EntityID  string
	ActorID   string
	Status    AuditStatus
	Error     string
	Duration  time.Duration
	Timestamp time.Time
}

// AuditRecorder persists audit entries.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

type noopAuditRecorder struct{}

func (noopAuditRecorder) Record(context.Context, AuditEntry) {}

// operationMeta maps operation names to the entity and action they audit.
var operationMeta = map[string]struct {
	entity domain.EntityType
	action domain.Action
}{
	opApply:              {domain.EntityApplication, domain.ActionCreate},
	opApprove:            {domain.EntityApplication, domain.ActionUpdate},
	opReject:             {domain.EntityApplication, domain.ActionUpdate},
	opFileComplaint:      {domain.EntityComplaint, domain.ActionCreate},
	opAdvanceComplaint:   {domain.EntityComplaint, domain.ActionUpdate},
	opRequestPayment:     {domain.EntityPayment, domain.ActionCreate},
	opSettlePayment:      {domain.EntityPayment, domain.ActionUpdate},
	opCreateProperty:     {domain.EntityProperty, domain.ActionCreate},
	opUpdateProperty:     {domain.EntityProperty, domain.ActionUpdate},
	opDeleteProperty:     {domain.EntityProperty, domain.ActionDelete},
	opSetAvailability:    {domain.EntityProperty, domain.ActionUpdate},
	opSetUserActive:      {domain.EntityUser, domain.ActionUpdate},
	opResetData:          {"", domain.ActionDelete},
	opTerminateAgreement: {domain.EntityAgreement, domain.ActionUpdate},
	opExpireAgreements:   {domain.EntityAgreement, domain.ActionUpdate},
}

const (
	opApply              = "apply"
	opApprove            = "approve_application"
	opReject             = "reject_application"
	opFileComplaint      = "file_complaint"
	opAdvanceComplaint   = "advance_complaint"
	opRequestPayment     = "request_payment"
	opSettlePayment      = "settle_payment"
	opCreateProperty     = "create_property"
	opUpdateProperty     = "update_property"
	opDeleteProperty     = "delete_property"
	opSetAvailability    = "set_availability"
	opSetUserActive      = "set_user_active"
	opResetData          = "reset_data"
	opTerminateAgreement = "terminate_agreement"
	opExpireAgreements   = "expire_agreements"
)
