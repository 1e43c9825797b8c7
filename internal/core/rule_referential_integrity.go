package core

import (
	"context"
	"fmt"

	"rentalcore/pkg/domain"
)

// ReferentialIntegrityRule requires the foreign keys of newly created records
// to resolve. Later deletions may leave dangling references; readers treat
// those as absent.
func ReferentialIntegrityRule() domain.Rule {
	return referentialIntegrityRule{}
}

type referentialIntegrityRule struct{}

func (referentialIntegrityRule) Name() string { return "referential_integrity" }

func (referentialIntegrityRule) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		if change.Action != domain.ActionCreate {
			continue
		}
		var (
			id   string
			refs []reference
		)
		switch change.Entity {
		case domain.EntityProperty:
			p, ok := domain.DecodeChangePayload[domain.Property](change.After)
			if !ok {
				continue
			}
			id = p.ID
			refs = []reference{{"owner", p.OwnerID, userExists(view)}}
		case domain.EntityApplication:
			a, ok := domain.DecodeChangePayload[domain.Application](change.After)
			if !ok {
				continue
			}
			id = a.ID
			refs = []reference{
				{"property", a.PropertyID, propertyExists(view)},
				{"tenant", a.TenantID, userExists(view)},
			}
		case domain.EntityComplaint:
			c, ok := domain.DecodeChangePayload[domain.Complaint](change.After)
			if !ok {
				continue
			}
			id = c.ID
			refs = []reference{
				{"property", c.PropertyID, propertyExists(view)},
				{"tenant", c.TenantID, userExists(view)},
				{"owner", c.OwnerID, userExists(view)},
			}
		case domain.EntityPayment:
			p, ok := domain.DecodeChangePayload[domain.Payment](change.After)
			if !ok {
				continue
			}
			id = p.ID
			refs = []reference{
				{"property", p.PropertyID, propertyExists(view)},
				{"tenant", p.TenantID, userExists(view)},
				{"owner", p.OwnerID, userExists(view)},
			}
		case domain.EntityAgreement:
			a, ok := domain.DecodeChangePayload[domain.LeaseAgreement](change.After)
			if !ok {
				continue
			}
			id = a.ID
			refs = []reference{
				{"property", a.PropertyID, propertyExists(view)},
				{"tenant", a.TenantID, userExists(view)},
				{"owner", a.OwnerID, userExists(view)},
			}
		default:
			continue
		}
		for _, ref := range refs {
			if ref.target != "" && ref.exists(ref.target) {
				continue
			}
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "referential_integrity",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("%s %s references missing %s %q", change.Entity, id, ref.field, ref.target),
				Entity:   change.Entity,
				EntityID: id,
			})
		}
	}
	return res, nil
}

type reference struct {
	field  string
	target string
	exists func(id string) bool
}

func userExists(view domain.RuleView) func(string) bool {
	return func(id string) bool {
		_, ok := view.FindUser(id)
		return ok
	}
}

func propertyExists(view domain.RuleView) func(string) bool {
	return func(id string) bool {
		_, ok := view.FindProperty(id)
		return ok
	}
}
