package core

import (
	"context"
	"fmt"
	"testing"
	"time"

	"rentalcore/internal/collection"
	"rentalcore/internal/ids"
	"rentalcore/internal/infra/persistence/memory"
	"rentalcore/internal/repo"
	"rentalcore/pkg/domain"
)

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

type fixture struct {
	svc     *Service
	repos   *repo.Repositories
	backend *memory.Store
	now     time.Time
}

func sequentialIDs() ids.Generator {
	n := 0
	return ids.GeneratorFunc(func() string {
		n++
		return fmt.Sprintf("id-%03d", n)
	})
}

// newFixture seeds owner-1, owner-2, tenant-1, tenant-2 and admin-1 plus a
// 2500/month property prop-1 owned by owner-1.
func newFixture(t *testing.T, opts ...ServiceOption) *fixture {
	t.Helper()
	backend := memory.NewStore()
	repos := repo.New(collection.New(backend))
	f := &fixture{repos: repos, backend: backend, now: fixedNow}
	base := []ServiceOption{
		WithClock(ClockFunc(func() time.Time { return f.now })),
		WithIDGenerator(sequentialIDs()),
	}
	f.svc = NewService(repos, append(base, opts...)...)

	ctx := context.Background()
	created := domain.NewTimestamp(fixedNow.Add(-24 * time.Hour))
	users := []domain.User{
		{ID: "admin-1", Email: "admin@rental.com", Name: "Admin", Role: domain.RoleAdmin, IsActive: true, CreatedAt: created},
		{ID: "owner-1", Email: "owner@rental.com", Name: "Owner", Role: domain.RoleOwner, IsActive: true, CreatedAt: created},
		{ID: "owner-2", Email: "owner2@rental.com", Name: "Other Owner", Role: domain.RoleOwner, IsActive: true, CreatedAt: created},
		{ID: "tenant-1", Email: "tenant@rental.com", Name: "Tenant", Role: domain.RoleTenant, IsActive: true, CreatedAt: created},
		{ID: "tenant-2", Email: "tenant2@rental.com", Name: "Other Tenant", Role: domain.RoleTenant, IsActive: true, CreatedAt: created},
	}
	for _, u := range users {
		if err := repos.Users.Add(ctx, u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	if err := repos.Properties.Add(ctx, domain.Property{
		ID: "prop-1", Title: "Modern Downtown Apartment", Rent: 2500, OwnerID: "owner-1",
		Bedrooms: 2, Bathrooms: 2, Area: 1200, Type: domain.PropertyApartment, IsAvailable: true, CreatedAt: created,
	}); err != nil {
		t.Fatalf("seed property: %v", err)
	}
	return f
}

func (f *fixture) as(t *testing.T, userID string) context.Context {
	t.Helper()
	u, ok := f.repos.Users.FindByID(context.Background(), userID)
	if !ok {
		t.Fatalf("unknown user %s", userID)
	}
	return domain.ContextWithActor(context.Background(), u)
}

// lease runs apply and approve for tenant-1 on prop-1.
func (f *fixture) lease(t *testing.T) Approval {
	t.Helper()
	app, _, err := f.svc.Apply(f.as(t, "tenant-1"), "prop-1", "hello")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	approval, _, err := f.svc.Approve(f.as(t, "owner-1"), app.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	return approval
}
