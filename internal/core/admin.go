package core

import (
	"context"
	"fmt"

	"rentalcore/pkg/domain"
)

// SetUserActive enables or disables an account. Disabled accounts cannot
// log in, restore a session, or act through the service.
func (s *Service) SetUserActive(ctx context.Context, userID string, active bool) (domain.User, domain.Result, error) {
	var out domain.User
	res, err := s.run(ctx, opSetUserActive, func(ctx context.Context) (string, domain.Result, error) {
		admin, err := s.actor(ctx, domain.RoleAdmin)
		if err != nil {
			return userID, domain.Result{}, err
		}
		if admin.ID == userID && !active {
			return userID, domain.Result{}, fmt.Errorf("%w: admins cannot deactivate themselves", ErrValidation)
		}
		user, ok := s.repos.Users.FindByID(ctx, userID)
		if !ok {
			return userID, domain.Result{}, notFound(domain.EntityUser, userID)
		}
		next := user
		next.IsActive = active
		change, err := updateChange(domain.EntityUser, user, next)
		if err != nil {
			return userID, domain.Result{}, err
		}
		res, err := s.commit(ctx, []domain.Change{change}, func() error {
			_, err := s.repos.Users.Update(ctx, userID, replaceWith(next))
			return err
		})
		if err == nil {
			out = next
		}
		return userID, res, err
	})
	return out, res, err
}

// ResetData clears every collection. The persisted session slot survives.
func (s *Service) ResetData(ctx context.Context) error {
	_, err := s.run(ctx, opResetData, func(ctx context.Context) (string, domain.Result, error) {
		if _, err := s.actor(ctx, domain.RoleAdmin); err != nil {
			return "", domain.Result{}, err
		}
		return "", domain.Result{}, s.repos.ClearAll(ctx)
	})
	return err
}

// TerminateAgreement ends an active lease early.
func (s *Service) TerminateAgreement(ctx context.Context, agreementID string) (domain.LeaseAgreement, domain.Result, error) {
	var out domain.LeaseAgreement
	res, err := s.run(ctx, opTerminateAgreement, func(ctx context.Context) (string, domain.Result, error) {
		actor, err := s.actor(ctx, domain.RoleOwner, domain.RoleAdmin)
		if err != nil {
			return agreementID, domain.Result{}, err
		}
		agreement, ok := s.repos.Agreements.FindByID(ctx, agreementID)
		if !ok {
			return agreementID, domain.Result{}, notFound(domain.EntityAgreement, agreementID)
		}
		if err := requireOwner(actor, agreement.OwnerID, domain.EntityAgreement, agreementID); err != nil {
			return agreementID, domain.Result{}, err
		}
		if agreement.Status != domain.AgreementActive {
			return agreementID, domain.Result{}, fmt.Errorf("%w: agreement %s is %s", ErrInvalidState, agreementID, agreement.Status)
		}
		next := agreement
		next.Status = domain.AgreementTerminated
		change, err := updateChange(domain.EntityAgreement, agreement, next)
		if err != nil {
			return agreementID, domain.Result{}, err
		}
		res, err := s.commit(ctx, []domain.Change{change}, func() error {
			_, err := s.repos.Agreements.Update(ctx, agreementID, replaceWith(next))
			return err
		})
		if err == nil {
			out = next
		}
		return agreementID, res, err
	})
	return out, res, err
}

// ExpireAgreements marks active leases whose end date has passed as expired.
// Owners sweep their own agreements; admins sweep all of them.
func (s *Service) ExpireAgreements(ctx context.Context) ([]domain.LeaseAgreement, domain.Result, error) {
	var expired []domain.LeaseAgreement
	res, err := s.run(ctx, opExpireAgreements, func(ctx context.Context) (string, domain.Result, error) {
		actor, err := s.actor(ctx, domain.RoleOwner, domain.RoleAdmin)
		if err != nil {
			return "", domain.Result{}, err
		}
		now := s.clock.Now()
		var (
			changes []domain.Change
			next    []domain.LeaseAgreement
		)
		for _, agreement := range s.repos.Agreements.All(ctx) {
			if agreement.Status != domain.AgreementActive || !owns(actor, agreement.OwnerID) {
				continue
			}
			if !agreement.EndDate.Before(now) {
				continue
			}
			updated := agreement
			updated.Status = domain.AgreementExpired
			change, err := updateChange(domain.EntityAgreement, agreement, updated)
			if err != nil {
				return "", domain.Result{}, err
			}
			changes = append(changes, change)
			next = append(next, updated)
		}
		if len(changes) == 0 {
			return "", domain.Result{}, nil
		}
		res, err := s.commit(ctx, changes, func() error {
			for _, agreement := range next {
				if _, err := s.repos.Agreements.Update(ctx, agreement.ID, replaceWith(agreement)); err != nil {
					return err
				}
			}
			return nil
		})
		if err == nil {
			expired = next
		}
		return "", res, err
	})
	return expired, res, err
}
