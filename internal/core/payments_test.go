package core

import (
	"context"
	"errors"
	"math"
	"testing"

	"rentalcore/pkg/domain"
)

func TestRequestPaymentDefaults(t *testing.T) {
	f := newFixture(t)
	f.lease(t)
	payment, _, err := f.svc.RequestPayment(f.as(t, "tenant-1"), "prop-1", 0, domain.PaymentMaintenance)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if payment.Amount != 0 || payment.Type != domain.PaymentMaintenance {
		t.Fatalf("unexpected payment: %+v", payment)
	}
	if !payment.DueDate.Equal(fixedNow.Add(PaymentDueWindow)) {
		t.Fatalf("expected due date 30 days out, got %s", payment.DueDate)
	}
	if payment.PaidDate != nil {
		t.Fatalf("pending payment must not carry a paid date")
	}
}

func TestRequestPaymentRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	f.lease(t)
	tenant := f.as(t, "tenant-1")
	if _, _, err := f.svc.RequestPayment(tenant, "prop-1", -1, domain.PaymentRent); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for negative amount, got %v", err)
	}
	if _, _, err := f.svc.RequestPayment(tenant, "prop-1", math.NaN(), domain.PaymentRent); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for NaN, got %v", err)
	}
	if _, _, err := f.svc.RequestPayment(tenant, "prop-1", 10, "tip"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown type, got %v", err)
	}
	if _, _, err := f.svc.RequestPayment(f.as(t, "tenant-2"), "prop-1", 10, domain.PaymentRent); !errors.Is(err, ErrNoActiveLease) {
		t.Fatalf("expected ErrNoActiveLease, got %v", err)
	}
	if got := f.repos.Payments.All(context.Background()); len(got) != 0 {
		t.Fatalf("expected no payments, got %v", got)
	}
}

func TestSettlePaymentIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.lease(t)
	tenant := f.as(t, "tenant-1")
	payment, _, err := f.svc.RequestPayment(tenant, "prop-1", 2500, domain.PaymentRent)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	first, _, err := f.svc.SettlePayment(tenant, payment.ID)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	f.now = fixedNow.AddDate(0, 0, 5)
	second, _, err := f.svc.SettlePayment(tenant, payment.ID)
	if err != nil {
		t.Fatalf("second settle: %v", err)
	}
	if second.Status != domain.PaymentCompleted || !second.PaidDate.Equal(first.PaidDate.Time) {
		t.Fatalf("second settle must leave the payment unchanged: %+v vs %+v", first, second)
	}
}

func TestSettlePaymentAuthorization(t *testing.T) {
	f := newFixture(t)
	f.lease(t)
	payment, _, err := f.svc.RequestPayment(f.as(t, "tenant-1"), "prop-1", 100, domain.PaymentDeposit)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if _, _, err := f.svc.SettlePayment(f.as(t, "tenant-2"), payment.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for other tenant, got %v", err)
	}
	if _, _, err := f.svc.SettlePayment(f.as(t, "owner-1"), payment.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for owner, got %v", err)
	}
	if _, _, err := f.svc.SettlePayment(f.as(t, "admin-1"), payment.ID); err != nil {
		t.Fatalf("admin settle: %v", err)
	}
	if _, _, err := f.svc.SettlePayment(f.as(t, "admin-1"), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSettleFailedPaymentIsInvalid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := f.repos.Payments.Add(ctx, domain.Payment{
		ID: "pay-failed", TenantID: "tenant-1", PropertyID: "prop-1", OwnerID: "owner-1",
		Amount: 10, Type: domain.PaymentRent, Status: domain.PaymentFailed,
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, _, err := f.svc.SettlePayment(f.as(t, "tenant-1"), "pay-failed"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}
