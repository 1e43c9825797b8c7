package core

import (
	"context"
	"fmt"
	"math"
	"strings"

	"rentalcore/pkg/domain"
)

// PropertyInput describes a new listing. OwnerID defaults to the acting owner
// and must be set when an admin creates a listing on someone's behalf.
type PropertyInput struct {
	OwnerID     string
	Title       string
	Description string
	Rent        float64
	Location    string
	ImageURL    string
	Bedrooms    int
	Bathrooms   float64
	Area        int
	Type        domain.PropertyType
}

// PropertyPatch is a partial update; nil fields are left untouched.
type PropertyPatch struct {
	Title       *string
	Description *string
	Rent        *float64
	Location    *string
	ImageURL    *string
	Bedrooms    *int
	Bathrooms   *float64
	Area        *int
	Type        *domain.PropertyType
	IsAvailable *bool
}

func (p PropertyPatch) apply(prop domain.Property) domain.Property {
	if p.Title != nil {
		prop.Title = *p.Title
	}
	if p.Description != nil {
		prop.Description = *p.Description
	}
	if p.Rent != nil {
		prop.Rent = *p.Rent
	}
	if p.Location != nil {
		prop.Location = *p.Location
	}
	if p.ImageURL != nil {
		prop.ImageURL = *p.ImageURL
	}
	if p.Bedrooms != nil {
		prop.Bedrooms = *p.Bedrooms
	}
	if p.Bathrooms != nil {
		prop.Bathrooms = *p.Bathrooms
	}
	if p.Area != nil {
		prop.Area = *p.Area
	}
	if p.Type != nil {
		prop.Type = *p.Type
	}
	if p.IsAvailable != nil {
		prop.IsAvailable = *p.IsAvailable
	}
	return prop
}

func validateProperty(p domain.Property) error {
	switch {
	case strings.TrimSpace(p.Title) == "":
		return fmt.Errorf("%w: property title is required", ErrValidation)
	case p.Rent < 0 || math.IsNaN(p.Rent) || math.IsInf(p.Rent, 0):
		return fmt.Errorf("%w: rent must be a non-negative number, got %v", ErrValidation, p.Rent)
	case p.Bathrooms < 0 || math.IsNaN(p.Bathrooms) || math.IsInf(p.Bathrooms, 0):
		return fmt.Errorf("%w: bathrooms must be a non-negative number, got %v", ErrValidation, p.Bathrooms)
	case p.Bedrooms < 0 || p.Area < 0:
		return fmt.Errorf("%w: bedrooms and area must not be negative", ErrValidation)
	case !p.Type.Valid():
		return fmt.Errorf("%w: unknown property type %q", ErrValidation, p.Type)
	}
	return nil
}

// CreateProperty lists a new available property.
func (s *Service) CreateProperty(ctx context.Context, in PropertyInput) (domain.Property, domain.Result, error) {
	var created domain.Property
	res, err := s.run(ctx, opCreateProperty, func(ctx context.Context) (string, domain.Result, error) {
		actor, err := s.actor(ctx, domain.RoleOwner, domain.RoleAdmin)
		if err != nil {
			return "", domain.Result{}, err
		}
		ownerID := in.OwnerID
		if ownerID == "" {
			if actor.Role != domain.RoleOwner {
				return "", domain.Result{}, fmt.Errorf("%w: owner id is required", ErrValidation)
			}
			ownerID = actor.ID
		}
		if !owns(actor, ownerID) {
			return "", domain.Result{}, fmt.Errorf("%w: owners may only list their own properties", ErrForbidden)
		}
		owner, ok := s.repos.Users.FindByID(ctx, ownerID)
		if !ok {
			return "", domain.Result{}, notFound(domain.EntityUser, ownerID)
		}
		if owner.Role != domain.RoleOwner {
			return "", domain.Result{}, fmt.Errorf("%w: user %s is not an owner", ErrValidation, ownerID)
		}
		created = domain.Property{
			ID:          s.ids.NewID(),
			Title:       in.Title,
			Description: in.Description,
			Rent:        in.Rent,
			Location:    in.Location,
			ImageURL:    in.ImageURL,
			OwnerID:     ownerID,
			Bedrooms:    in.Bedrooms,
			Bathrooms:   in.Bathrooms,
			Area:        in.Area,
			Type:        in.Type,
			IsAvailable: true,
			CreatedAt:   s.now(),
		}
		if err := validateProperty(created); err != nil {
			return "", domain.Result{}, err
		}
		change, err := createChange(domain.EntityProperty, created)
		if err != nil {
			return created.ID, domain.Result{}, err
		}
		res, err := s.commit(ctx, []domain.Change{change}, func() error {
			return s.repos.Properties.Add(ctx, created)
		})
		return created.ID, res, err
	})
	if err != nil {
		return domain.Property{}, res, err
	}
	return created, res, nil
}

// UpdateProperty merges patch into the property.
func (s *Service) UpdateProperty(ctx context.Context, id string, patch PropertyPatch) (domain.Property, domain.Result, error) {
	return s.patchProperty(ctx, opUpdateProperty, id, patch)
}

// SetAvailability marks the property as open or closed for applications.
func (s *Service) SetAvailability(ctx context.Context, id string, available bool) (domain.Property, domain.Result, error) {
	return s.patchProperty(ctx, opSetAvailability, id, PropertyPatch{IsAvailable: &available})
}

func (s *Service) patchProperty(ctx context.Context, op, id string, patch PropertyPatch) (domain.Property, domain.Result, error) {
	var out domain.Property
	res, err := s.run(ctx, op, func(ctx context.Context) (string, domain.Result, error) {
		property, err := s.ownedProperty(ctx, id)
		if err != nil {
			return id, domain.Result{}, err
		}
		next := patch.apply(property)
		if err := validateProperty(next); err != nil {
			return id, domain.Result{}, err
		}
		change, err := updateChange(domain.EntityProperty, property, next)
		if err != nil {
			return id, domain.Result{}, err
		}
		res, err := s.commit(ctx, []domain.Change{change}, func() error {
			_, err := s.repos.Properties.Update(ctx, id, replaceWith(next))
			return err
		})
		if err == nil {
			out = next
		}
		return id, res, err
	})
	return out, res, err
}

// DeleteProperty removes the listing. Applications, complaints, payments and
// agreements referencing it are kept and resolve it as absent afterwards.
func (s *Service) DeleteProperty(ctx context.Context, id string) (domain.Result, error) {
	return s.run(ctx, opDeleteProperty, func(ctx context.Context) (string, domain.Result, error) {
		property, err := s.ownedProperty(ctx, id)
		if err != nil {
			return id, domain.Result{}, err
		}
		change, err := deleteChange(domain.EntityProperty, property)
		if err != nil {
			return id, domain.Result{}, err
		}
		res, err := s.commit(ctx, []domain.Change{change}, func() error {
			_, err := s.repos.Properties.Remove(ctx, id)
			return err
		})
		return id, res, err
	})
}

func (s *Service) ownedProperty(ctx context.Context, id string) (domain.Property, error) {
	actor, err := s.actor(ctx, domain.RoleOwner, domain.RoleAdmin)
	if err != nil {
		return domain.Property{}, err
	}
	property, ok := s.repos.Properties.FindByID(ctx, id)
	if !ok {
		return domain.Property{}, notFound(domain.EntityProperty, id)
	}
	if err := requireOwner(actor, property.OwnerID, domain.EntityProperty, id); err != nil {
		return domain.Property{}, err
	}
	return property, nil
}
