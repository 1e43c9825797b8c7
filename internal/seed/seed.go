// Package seed installs the demo accounts, listings and payment used on a
// fresh store.
package seed

import (
	"context"
	"fmt"
	"time"

	"rentalcore/internal/auth"
	"rentalcore/internal/ids"
	"rentalcore/internal/repo"
	"rentalcore/pkg/domain"
)

// Demo account identifiers.
const (
	AdminID  = "admin-1"
	OwnerID  = "owner-1"
	TenantID = "tenant-1"
)

// Credential is a demo login.
type Credential struct {
	Email    string
	Password string
}

// Credentials lists the demo logins by role.
var Credentials = map[domain.Role]Credential{
	domain.RoleAdmin:  {Email: "admin@rental.com", Password: "admin123"},
	domain.RoleOwner:  {Email: "owner@rental.com", Password: "owner123"},
	domain.RoleTenant: {Email: "tenant@rental.com", Password: "tenant123"},
}

// Logger reports seeding progress.
type Logger interface {
	Info(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any) {}

type seeder struct {
	now    func() time.Time
	ids    ids.Generator
	params auth.HashParams
	logger Logger
}

// Option configures Run.
type Option func(*seeder)

// WithClock overrides the creation time stamped on seeded records.
func WithClock(now func() time.Time) Option {
	return func(s *seeder) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides ids for seeded properties and payments.
func WithIDGenerator(g ids.Generator) Option {
	return func(s *seeder) {
		if g != nil {
			s.ids = g
		}
	}
}

// WithHashParams sets the cost of the seeded password hashes.
func WithHashParams(p auth.HashParams) Option {
	return func(s *seeder) { s.params = p }
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(s *seeder) {
		if l != nil {
			s.logger = l
		}
	}
}

// Run seeds repos when the user collection is empty and reports whether it
// did. An existing user base is never touched.
func Run(ctx context.Context, repos *repo.Repositories, opts ...Option) (bool, error) {
	s := &seeder{now: time.Now, ids: ids.Default, params: auth.DefaultHashParams, logger: noopLogger{}}
	for _, opt := range opts {
		opt(s)
	}
	if len(repos.Users.All(ctx)) > 0 {
		return false, nil
	}
	now := domain.NewTimestamp(s.now())

	users := []struct {
		id, name, phone string
		role            domain.Role
	}{
		{AdminID, "System Administrator", "555-0001", domain.RoleAdmin},
		{OwnerID, "Property Owner", "555-0002", domain.RoleOwner},
		{TenantID, "John Tenant", "555-0003", domain.RoleTenant},
	}
	for _, u := range users {
		cred := Credentials[u.role]
		hash, err := auth.HashSecret(cred.Password, s.params)
		if err != nil {
			return false, fmt.Errorf("hash %s password: %w", u.id, err)
		}
		phone := u.phone
		if err := repos.Users.Add(ctx, domain.User{
			ID:        u.id,
			Email:     cred.Email,
			Password:  hash,
			Name:      u.name,
			Role:      u.role,
			Phone:     &phone,
			IsActive:  true,
			CreatedAt: now,
		}); err != nil {
			return false, fmt.Errorf("seed user %s: %w", u.id, err)
		}
	}

	properties := []domain.Property{
		{
			Title:       "Modern Downtown Apartment",
			Description: "Beautiful 2-bedroom apartment in the heart of downtown with city views and modern amenities.",
			Rent:        2500,
			Location:    "Downtown, City Center",
			ImageURL:    "https://images.pexels.com/photos/1571460/pexels-photo-1571460.jpeg",
			Bedrooms:    2,
			Bathrooms:   2,
			Area:        1200,
			Type:        domain.PropertyApartment,
		},
		{
			Title:       "Cozy Studio Near University",
			Description: "Perfect for students or young professionals. Close to public transport and university campus.",
			Rent:        1200,
			Location:    "University District",
			ImageURL:    "https://images.pexels.com/photos/1571463/pexels-photo-1571463.jpeg",
			Bedrooms:    1,
			Bathrooms:   1,
			Area:        600,
			Type:        domain.PropertyStudio,
		},
		{
			Title:       "Family House with Garden",
			Description: "Spacious 3-bedroom house with a large garden, perfect for families with children.",
			Rent:        3200,
			Location:    "Suburban Area",
			ImageURL:    "https://images.pexels.com/photos/106399/pexels-photo-106399.jpeg",
			Bedrooms:    3,
			Bathrooms:   2,
			Area:        1800,
			Type:        domain.PropertyHouse,
		},
	}
	for i := range properties {
		properties[i].ID = s.ids.NewID()
		properties[i].OwnerID = OwnerID
		properties[i].IsAvailable = true
		properties[i].CreatedAt = now
		if err := repos.Properties.Add(ctx, properties[i]); err != nil {
			return false, fmt.Errorf("seed property %q: %w", properties[i].Title, err)
		}
	}

	payment := domain.Payment{
		ID:         s.ids.NewID(),
		TenantID:   TenantID,
		PropertyID: properties[0].ID,
		OwnerID:    OwnerID,
		Amount:     2500,
		Type:       domain.PaymentRent,
		Status:     domain.PaymentCompleted,
		DueDate:    domain.NewTimestamp(now.Add(30 * 24 * time.Hour)),
		PaidDate:   &now,
		CreatedAt:  now,
	}
	if err := repos.Payments.Add(ctx, payment); err != nil {
		return false, fmt.Errorf("seed payment: %w", err)
	}
	s.logger.Info("seeded demo data", "users", len(users), "properties", len(properties), "payments", 1)
	return true, nil
}
