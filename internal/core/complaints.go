package core

import (
	"context"
	"fmt"
	"strings"

	"rentalcore/pkg/domain"
)

// ComplaintInput carries the fields a tenant supplies when filing.
type ComplaintInput struct {
	PropertyID  string
	Title       string
	Description string
	Priority    domain.ComplaintPriority
}

// FileComplaint opens a complaint from the acting tenant. The tenant must
// hold an active lease on the property.
func (s *Service) FileComplaint(ctx context.Context, in ComplaintInput) (domain.Complaint, domain.Result, error) {
	var created domain.Complaint
	res, err := s.run(ctx, opFileComplaint, func(ctx context.Context) (string, domain.Result, error) {
		tenant, err := s.actor(ctx, domain.RoleTenant)
		if err != nil {
			return "", domain.Result{}, err
		}
		if strings.TrimSpace(in.Title) == "" {
			return "", domain.Result{}, fmt.Errorf("%w: complaint title is required", ErrValidation)
		}
		priority := in.Priority
		if priority == "" {
			priority = domain.PriorityMedium
		}
		if !priority.Valid() {
			return "", domain.Result{}, fmt.Errorf("%w: unknown priority %q", ErrValidation, priority)
		}
		property, ok := s.repos.Properties.FindByID(ctx, in.PropertyID)
		if !ok {
			return "", domain.Result{}, notFound(domain.EntityProperty, in.PropertyID)
		}
		if _, ok := s.repos.Agreements.ActiveFor(ctx, tenant.ID, property.ID); !ok {
			return "", domain.Result{}, fmt.Errorf("%w: tenant %s on property %s", ErrNoActiveLease, tenant.ID, property.ID)
		}
		created = domain.Complaint{
			ID:          s.ids.NewID(),
			Title:       in.Title,
			Description: in.Description,
			TenantID:    tenant.ID,
			PropertyID:  property.ID,
			OwnerID:     property.OwnerID,
			Status:      domain.ComplaintOpen,
			Priority:    priority,
			CreatedAt:   s.now(),
		}
		change, err := createChange(domain.EntityComplaint, created)
		if err != nil {
			return created.ID, domain.Result{}, err
		}
		res, err := s.commit(ctx, []domain.Change{change}, func() error {
			return s.repos.Complaints.Add(ctx, created)
		})
		return created.ID, res, err
	})
	if err != nil {
		return domain.Complaint{}, res, err
	}
	return created, res, nil
}

// Advance moves a complaint exactly one step along open, in-progress,
// resolved and stamps updatedAt. A resolved complaint is returned unchanged.
func (s *Service) Advance(ctx context.Context, complaintID string) (domain.Complaint, domain.Result, error) {
	var out domain.Complaint
	res, err := s.run(ctx, opAdvanceComplaint, func(ctx context.Context) (string, domain.Result, error) {
		actor, err := s.actor(ctx, domain.RoleOwner, domain.RoleAdmin)
		if err != nil {
			return complaintID, domain.Result{}, err
		}
		complaint, ok := s.repos.Complaints.FindByID(ctx, complaintID)
		if !ok {
			return complaintID, domain.Result{}, notFound(domain.EntityComplaint, complaintID)
		}
		if err := requireOwner(actor, complaint.OwnerID, domain.EntityComplaint, complaint.ID); err != nil {
			return complaintID, domain.Result{}, err
		}
		status, ok := complaint.Status.Next()
		if !ok {
			if complaint.Status == domain.ComplaintResolved {
				out = complaint
				return complaintID, domain.Result{}, nil
			}
			return complaintID, domain.Result{}, fmt.Errorf("%w: complaint %s has status %q", ErrInvalidState, complaintID, complaint.Status)
		}
		next := complaint
		next.Status = status
		next.UpdatedAt = domain.TimestampPtr(s.clock.Now())

		change, err := updateChange(domain.EntityComplaint, complaint, next)
		if err != nil {
			return complaintID, domain.Result{}, err
		}
		res, err := s.commit(ctx, []domain.Change{change}, func() error {
			_, err := s.repos.Complaints.Update(ctx, complaint.ID, replaceWith(next))
			return err
		})
		if err == nil {
			out = next
		}
		return complaintID, res, err
	})
	return out, res, err
}
