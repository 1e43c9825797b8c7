package core

import (
	"context"
	"fmt"
	"math"
	"time"

	"rentalcore/pkg/domain"
)

// PaymentDueWindow is how long after a request a payment falls due.
const PaymentDueWindow = 30 * 24 * time.Hour

// RequestPayment records a pending payment from the acting tenant to the
// owner of propertyID. The tenant must hold an active lease on the property.
func (s *Service) RequestPayment(ctx context.Context, propertyID string, amount float64, kind domain.PaymentType) (domain.Payment, domain.Result, error) {
	var created domain.Payment
	res, err := s.run(ctx, opRequestPayment, func(ctx context.Context) (string, domain.Result, error) {
		tenant, err := s.actor(ctx, domain.RoleTenant)
		if err != nil {
			return "", domain.Result{}, err
		}
		if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
			return "", domain.Result{}, fmt.Errorf("%w: amount must be a non-negative number, got %v", ErrValidation, amount)
		}
		if !kind.Valid() {
			return "", domain.Result{}, fmt.Errorf("%w: unknown payment type %q", ErrValidation, kind)
		}
		property, ok := s.repos.Properties.FindByID(ctx, propertyID)
		if !ok {
			return "", domain.Result{}, notFound(domain.EntityProperty, propertyID)
		}
		if _, ok := s.repos.Agreements.ActiveFor(ctx, tenant.ID, property.ID); !ok {
			return "", domain.Result{}, fmt.Errorf("%w: tenant %s on property %s", ErrNoActiveLease, tenant.ID, property.ID)
		}
		now := s.clock.Now()
		created = domain.Payment{
			ID:         s.ids.NewID(),
			TenantID:   tenant.ID,
			PropertyID: property.ID,
			OwnerID:    property.OwnerID,
			Amount:     amount,
			Type:       kind,
			Status:     domain.PaymentPending,
			DueDate:    domain.NewTimestamp(now.Add(PaymentDueWindow)),
			CreatedAt:  domain.NewTimestamp(now),
		}
		change, err := createChange(domain.EntityPayment, created)
		if err != nil {
			return created.ID, domain.Result{}, err
		}
		res, err := s.commit(ctx, []domain.Change{change}, func() error {
			return s.repos.Payments.Add(ctx, created)
		})
		return created.ID, res, err
	})
	if err != nil {
		return domain.Payment{}, res, err
	}
	return created, res, nil
}

// SettlePayment completes a pending payment. Settling a completed payment
// returns it unchanged.
func (s *Service) SettlePayment(ctx context.Context, paymentID string) (domain.Payment, domain.Result, error) {
	var out domain.Payment
	res, err := s.run(ctx, opSettlePayment, func(ctx context.Context) (string, domain.Result, error) {
		actor, err := s.actor(ctx, domain.RoleTenant, domain.RoleAdmin)
		if err != nil {
			return paymentID, domain.Result{}, err
		}
		payment, ok := s.repos.Payments.FindByID(ctx, paymentID)
		if !ok {
			return paymentID, domain.Result{}, notFound(domain.EntityPayment, paymentID)
		}
		if actor.Role != domain.RoleAdmin && actor.ID != payment.TenantID {
			return paymentID, domain.Result{}, fmt.Errorf("%w: payment %s belongs to tenant %s", ErrForbidden, paymentID, payment.TenantID)
		}
		switch payment.Status {
		case domain.PaymentCompleted:
			out = payment
			return paymentID, domain.Result{}, nil
		case domain.PaymentPending:
		default:
			return paymentID, domain.Result{}, fmt.Errorf("%w: payment %s is %s", ErrInvalidState, paymentID, payment.Status)
		}
		next := payment
		next.Status = domain.PaymentCompleted
		next.PaidDate = domain.TimestampPtr(s.clock.Now())

		change, err := updateChange(domain.EntityPayment, payment, next)
		if err != nil {
			return paymentID, domain.Result{}, err
		}
		res, err := s.commit(ctx, []domain.Change{change}, func() error {
			_, err := s.repos.Payments.Update(ctx, payment.ID, replaceWith(next))
			return err
		})
		if err == nil {
			out = next
		}
		return paymentID, res, err
	})
	return out, res, err
}
