package core

import (
	"context"
	"fmt"

	"rentalcore/pkg/domain"
)

// DefaultLeaseTerms is the terms text written on every approved lease.
const DefaultLeaseTerms = "Standard lease terms apply. Please contact the property owner for specific terms and conditions."

// Approval is the outcome of approving an application.
type Approval struct {
	Application domain.Application
	Agreement   domain.LeaseAgreement
}

// Apply files a pending application from the acting tenant for propertyID.
func (s *Service) Apply(ctx context.Context, propertyID, message string) (domain.Application, domain.Result, error) {
	var created domain.Application
	res, err := s.run(ctx, opApply, func(ctx context.Context) (string, domain.Result, error) {
		tenant, err := s.actor(ctx, domain.RoleTenant)
		if err != nil {
			return "", domain.Result{}, err
		}
		if _, ok := s.repos.Properties.FindByID(ctx, propertyID); !ok {
			return "", domain.Result{}, notFound(domain.EntityProperty, propertyID)
		}
		created = domain.Application{
			ID:         s.ids.NewID(),
			PropertyID: propertyID,
			TenantID:   tenant.ID,
			Status:     domain.ApplicationPending,
			Message:    message,
			AppliedAt:  s.now(),
		}
		change, err := createChange(domain.EntityApplication, created)
		if err != nil {
			return created.ID, domain.Result{}, err
		}
		res, err := s.commit(ctx, []domain.Change{change}, func() error {
			return s.repos.Applications.Add(ctx, created)
		})
		return created.ID, res, err
	})
	if err != nil {
		return domain.Application{}, res, err
	}
	return created, res, nil
}

// Approve accepts a pending application and issues a one-year lease at the
// property's current rent with a deposit of two months. The two writes are
// not atomic; property availability is left unchanged.
func (s *Service) Approve(ctx context.Context, applicationID string) (Approval, domain.Result, error) {
	var out Approval
	res, err := s.run(ctx, opApprove, func(ctx context.Context) (string, domain.Result, error) {
		app, property, err := s.pendingApplication(ctx, applicationID)
		if err != nil {
			return applicationID, domain.Result{}, err
		}
		now := s.now()
		approved := app
		approved.Status = domain.ApplicationApproved
		approved.RespondedAt = &now

		agreement := domain.LeaseAgreement{
			ID:          s.ids.NewID(),
			PropertyID:  property.ID,
			TenantID:    app.TenantID,
			OwnerID:     property.OwnerID,
			StartDate:   now,
			EndDate:     domain.NewTimestamp(now.AddDate(1, 0, 0)),
			MonthlyRent: property.Rent,
			Deposit:     property.Rent * 2,
			Terms:       DefaultLeaseTerms,
			Status:      domain.AgreementActive,
			CreatedAt:   now,
		}

		update, err := updateChange(domain.EntityApplication, app, approved)
		if err != nil {
			return applicationID, domain.Result{}, err
		}
		create, err := createChange(domain.EntityAgreement, agreement)
		if err != nil {
			return applicationID, domain.Result{}, err
		}
		res, err := s.commit(ctx, []domain.Change{update, create}, func() error {
			if _, err := s.repos.Applications.Update(ctx, app.ID, replaceWith(approved)); err != nil {
				return err
			}
			return s.repos.Agreements.Add(ctx, agreement)
		})
		if err == nil {
			out = Approval{Application: approved, Agreement: agreement}
		}
		return applicationID, res, err
	})
	return out, res, err
}

// Reject declines a pending application. No agreement is created.
func (s *Service) Reject(ctx context.Context, applicationID string) (domain.Application, domain.Result, error) {
	var rejected domain.Application
	res, err := s.run(ctx, opReject, func(ctx context.Context) (string, domain.Result, error) {
		app, _, err := s.pendingApplication(ctx, applicationID)
		if err != nil {
			return applicationID, domain.Result{}, err
		}
		now := s.now()
		next := app
		next.Status = domain.ApplicationRejected
		next.RespondedAt = &now

		change, err := updateChange(domain.EntityApplication, app, next)
		if err != nil {
			return applicationID, domain.Result{}, err
		}
		res, err := s.commit(ctx, []domain.Change{change}, func() error {
			_, err := s.repos.Applications.Update(ctx, app.ID, replaceWith(next))
			return err
		})
		if err == nil {
			rejected = next
		}
		return applicationID, res, err
	})
	return rejected, res, err
}

// pendingApplication loads an application awaiting a decision together with
// its property and checks the actor may decide on it.
func (s *Service) pendingApplication(ctx context.Context, id string) (domain.Application, domain.Property, error) {
	actor, err := s.actor(ctx, domain.RoleOwner, domain.RoleAdmin)
	if err != nil {
		return domain.Application{}, domain.Property{}, err
	}
	app, ok := s.repos.Applications.FindByID(ctx, id)
	if !ok {
		return domain.Application{}, domain.Property{}, notFound(domain.EntityApplication, id)
	}
	property, ok := s.repos.Properties.FindByID(ctx, app.PropertyID)
	if !ok {
		return domain.Application{}, domain.Property{}, notFound(domain.EntityProperty, app.PropertyID)
	}
	if err := requireOwner(actor, property.OwnerID, domain.EntityProperty, property.ID); err != nil {
		return domain.Application{}, domain.Property{}, err
	}
	if app.Status != domain.ApplicationPending {
		return domain.Application{}, domain.Property{}, fmt.Errorf("%w: application %s is %s", ErrInvalidState, id, app.Status)
	}
	return app, property, nil
}
