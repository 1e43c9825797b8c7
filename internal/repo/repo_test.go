package repo

import (
	"context"
	"testing"
	"time"

	"rentalcore/internal/collection"
	"rentalcore/internal/infra/persistence/memory"
	"rentalcore/pkg/domain"
)

func newRepos(t *testing.T) (*Repositories, *memory.Store) {
	t.Helper()
	backend := memory.NewStore()
	return New(collection.New(backend)), backend
}

func TestUsersLookups(t *testing.T) {
	ctx := context.Background()
	r, _ := newRepos(t)
	now := domain.NewTimestamp(time.Now())
	users := []domain.User{
		{ID: "u1", Email: "a@x.com", Role: domain.RoleTenant, IsActive: true, CreatedAt: now},
		{ID: "u2", Email: "b@x.com", Role: domain.RoleOwner, IsActive: true, CreatedAt: now},
	}
	for _, u := range users {
		if err := r.Users.Add(ctx, u); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if u, ok := r.Users.FindByEmail(ctx, "b@x.com"); !ok || u.ID != "u2" {
		t.Fatalf("FindByEmail: %v %v", u, ok)
	}
	if _, ok := r.Users.FindByEmail(ctx, "B@x.com"); ok {
		t.Fatalf("email lookup is exact")
	}
	if _, ok := r.Users.FindByID(ctx, "nope"); ok {
		t.Fatalf("expected absent user")
	}
	if owners := r.Users.ByRole(ctx, domain.RoleOwner); len(owners) != 1 {
		t.Fatalf("expected one owner, got %v", owners)
	}
}

func TestLookupsAlwaysRereadStore(t *testing.T) {
	ctx := context.Background()
	r, backend := newRepos(t)
	if err := r.Properties.Add(ctx, domain.Property{ID: "p1", OwnerID: "o1", IsAvailable: true}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := r.Properties.FindByOwnerID(ctx, "o1"); len(got) != 1 {
		t.Fatalf("expected listing, got %v", got)
	}
	// A write that bypasses the repository must be visible immediately.
	if err := backend.Save(ctx, domain.BucketProperties, []byte(`[]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := r.Properties.FindByOwnerID(ctx, "o1"); len(got) != 0 {
		t.Fatalf("expected fresh read, got %v", got)
	}
}

func TestRemoveDoesNotCascade(t *testing.T) {
	ctx := context.Background()
	r, _ := newRepos(t)
	_ = r.Properties.Add(ctx, domain.Property{ID: "p1", OwnerID: "o1"})
	_ = r.Applications.Add(ctx, domain.Application{ID: "a1", PropertyID: "p1", TenantID: "t1", Status: domain.ApplicationPending})
	_ = r.Complaints.Add(ctx, domain.Complaint{ID: "c1", PropertyID: "p1", TenantID: "t1", OwnerID: "o1"})
	if removed, err := r.Properties.Remove(ctx, "p1"); err != nil || !removed {
		t.Fatalf("remove: %v %v", removed, err)
	}
	if got := r.Applications.FindByPropertyID(ctx, "p1"); len(got) != 1 {
		t.Fatalf("applications must survive property removal, got %v", got)
	}
	if got := r.Complaints.FindByPropertyID(ctx, "p1"); len(got) != 1 {
		t.Fatalf("complaints must survive property removal, got %v", got)
	}
}

func TestAgreementsActiveFor(t *testing.T) {
	ctx := context.Background()
	r, _ := newRepos(t)
	_ = r.Agreements.Add(ctx, domain.LeaseAgreement{ID: "l1", TenantID: "t1", PropertyID: "p1", OwnerID: "o1", Status: domain.AgreementExpired})
	if _, ok := r.Agreements.ActiveFor(ctx, "t1", "p1"); ok {
		t.Fatalf("expired lease must not count as active")
	}
	_ = r.Agreements.Add(ctx, domain.LeaseAgreement{ID: "l2", TenantID: "t1", PropertyID: "p1", OwnerID: "o1", Status: domain.AgreementActive})
	lease, ok := r.Agreements.ActiveFor(ctx, "t1", "p1")
	if !ok || lease.ID != "l2" {
		t.Fatalf("expected active lease l2, got %v %v", lease, ok)
	}
	if _, ok := r.Agreements.ActiveFor(ctx, "t2", "p1"); ok {
		t.Fatalf("lease belongs to t1 only")
	}
	if got := r.Agreements.FindByOwnerID(ctx, "o1"); len(got) != 2 {
		t.Fatalf("expected both leases for owner, got %v", got)
	}
}

func TestPaymentsAndComplaintFilters(t *testing.T) {
	ctx := context.Background()
	r, _ := newRepos(t)
	_ = r.Payments.Add(ctx, domain.Payment{ID: "pay1", TenantID: "t1", OwnerID: "o1", PropertyID: "p1"})
	_ = r.Payments.Add(ctx, domain.Payment{ID: "pay2", TenantID: "t2", OwnerID: "o1", PropertyID: "p2"})
	if got := r.Payments.FindByOwnerID(ctx, "o1"); len(got) != 2 {
		t.Fatalf("owner payments: %v", got)
	}
	if got := r.Payments.FindByTenantID(ctx, "t2"); len(got) != 1 || got[0].ID != "pay2" {
		t.Fatalf("tenant payments: %v", got)
	}
	if got := r.Payments.FindByPropertyID(ctx, "p1"); len(got) != 1 {
		t.Fatalf("property payments: %v", got)
	}
	_ = r.Complaints.Add(ctx, domain.Complaint{ID: "c1", TenantID: "t1", OwnerID: "o2"})
	if got := r.Complaints.FindByOwnerID(ctx, "o2"); len(got) != 1 {
		t.Fatalf("owner complaints: %v", got)
	}
	if got := r.Complaints.FindByTenantID(ctx, "t9"); len(got) != 0 {
		t.Fatalf("expected no complaints, got %v", got)
	}
}

func TestClearAllKeepsSlots(t *testing.T) {
	ctx := context.Background()
	r, backend := newRepos(t)
	_ = r.Users.Add(ctx, domain.User{ID: "u1"})
	_ = r.Payments.Add(ctx, domain.Payment{ID: "p1"})
	if err := collection.SaveSlot(ctx, r.Store(), domain.SlotCurrentUser, domain.User{ID: "u1"}); err != nil {
		t.Fatalf("slot: %v", err)
	}
	if err := r.ClearAll(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(r.Users.All(ctx)) != 0 || len(r.Payments.All(ctx)) != 0 {
		t.Fatalf("expected collections cleared")
	}
	if names := backend.Buckets(); len(names) != 1 || names[0] != domain.SlotCurrentUser {
		t.Fatalf("expected only the session slot to remain, got %v", names)
	}
}

func TestPropertiesDecodeFractionalBathrooms(t *testing.T) {
	ctx := context.Background()
	r, backend := newRepos(t)
	payload := `[` +
		`{"id":"p1","title":"Loft","rent":1800,"ownerId":"o1","bedrooms":2,"bathrooms":1.5,"area":900,"type":"condo","isAvailable":true,"createdAt":"2024-03-01T09:30:00.000Z"},` +
		`{"id":"p2","title":"Cabin","rent":900,"ownerId":"o1","bedrooms":1,"bathrooms":1,"area":500,"type":"house","isAvailable":true,"createdAt":"2024-03-01T09:30:00.000Z"}` +
		`]`
	if err := backend.Save(ctx, domain.BucketProperties, []byte(payload)); err != nil {
		t.Fatalf("save: %v", err)
	}
	all := r.Properties.All(ctx)
	if len(all) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(all))
	}
	if all[0].Bathrooms != 1.5 {
		t.Fatalf("expected 1.5 bathrooms, got %v", all[0].Bathrooms)
	}

	if err := r.Properties.Add(ctx, domain.Property{ID: "p3", Title: "Flat", OwnerID: "o1", Type: domain.PropertyApartment}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := len(r.Properties.All(ctx)); got != 3 {
		t.Fatalf("expected existing listings kept after add, got %d", got)
	}
}
