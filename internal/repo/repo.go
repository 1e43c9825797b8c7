// Package repo provides typed repositories over the collection store. Every
// lookup re-reads the store; missing records are reported as absent, never
// as errors.
package repo

import (
	"context"

	"rentalcore/internal/collection"
	"rentalcore/pkg/domain"
)

// table is the generic CRUD surface shared by every repository.
type table[T collection.Record] struct {
	store  *collection.Store
	bucket string
}

// All returns every record in insertion order.
func (t table[T]) All(ctx context.Context) []T {
	return collection.GetAll[T](ctx, t.store, t.bucket)
}

// FindByID returns the record with id.
func (t table[T]) FindByID(ctx context.Context, id string) (T, bool) {
	for _, item := range t.All(ctx) {
		if item.RecordID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Add appends a record; duplicate ids fail with domain.ErrDuplicateID.
func (t table[T]) Add(ctx context.Context, item T) error {
	return collection.Add(ctx, t.store, t.bucket, item)
}

// Update merges the record with id in place. It reports false when absent.
func (t table[T]) Update(ctx context.Context, id string, merge func(T) T) (bool, error) {
	return collection.Update(ctx, t.store, t.bucket, id, merge)
}

// Remove deletes the record with id. Dependent records are left in place.
func (t table[T]) Remove(ctx context.Context, id string) (bool, error) {
	return collection.Remove[T](ctx, t.store, t.bucket, id)
}

// Clear drops the whole collection.
func (t table[T]) Clear(ctx context.Context) error {
	return t.store.Clear(ctx, t.bucket)
}

func (t table[T]) where(ctx context.Context, keep func(T) bool) []T {
	all := t.All(ctx)
	out := make([]T, 0, len(all))
	for _, item := range all {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Users stores platform accounts.
type Users struct{ table[domain.User] }

// FindByEmail returns the user whose email matches exactly.
func (r Users) FindByEmail(ctx context.Context, email string) (domain.User, bool) {
	for _, u := range r.All(ctx) {
		if u.Email == email {
			return u, true
		}
	}
	return domain.User{}, false
}

// ByRole returns users with the given role.
func (r Users) ByRole(ctx context.Context, role domain.Role) []domain.User {
	return r.where(ctx, func(u domain.User) bool { return u.Role == role })
}

// Properties stores rentable listings.
type Properties struct{ table[domain.Property] }

// FindByOwnerID returns the listings owned by ownerID.
func (r Properties) FindByOwnerID(ctx context.Context, ownerID string) []domain.Property {
	return r.where(ctx, func(p domain.Property) bool { return p.OwnerID == ownerID })
}

// Available returns listings currently open for applications.
func (r Properties) Available(ctx context.Context) []domain.Property {
	return r.where(ctx, func(p domain.Property) bool { return p.IsAvailable })
}

// Applications stores rental applications.
type Applications struct{ table[domain.Application] }

// FindByTenantID returns the applications submitted by tenantID.
func (r Applications) FindByTenantID(ctx context.Context, tenantID string) []domain.Application {
	return r.where(ctx, func(a domain.Application) bool { return a.TenantID == tenantID })
}

// FindByPropertyID returns the applications for propertyID.
func (r Applications) FindByPropertyID(ctx context.Context, propertyID string) []domain.Application {
	return r.where(ctx, func(a domain.Application) bool { return a.PropertyID == propertyID })
}

// Complaints stores tenant complaints.
type Complaints struct{ table[domain.Complaint] }

// FindByTenantID returns complaints raised by tenantID.
func (r Complaints) FindByTenantID(ctx context.Context, tenantID string) []domain.Complaint {
	return r.where(ctx, func(c domain.Complaint) bool { return c.TenantID == tenantID })
}

// FindByOwnerID returns complaints addressed to ownerID.
func (r Complaints) FindByOwnerID(ctx context.Context, ownerID string) []domain.Complaint {
	return r.where(ctx, func(c domain.Complaint) bool { return c.OwnerID == ownerID })
}

// FindByPropertyID returns complaints about propertyID.
func (r Complaints) FindByPropertyID(ctx context.Context, propertyID string) []domain.Complaint {
	return r.where(ctx, func(c domain.Complaint) bool { return c.PropertyID == propertyID })
}

// Payments stores payment records.
type Payments struct{ table[domain.Payment] }

// FindByTenantID returns payments owed or made by tenantID.
func (r Payments) FindByTenantID(ctx context.Context, tenantID string) []domain.Payment {
	return r.where(ctx, func(p domain.Payment) bool { return p.TenantID == tenantID })
}

// FindByOwnerID returns payments due to ownerID.
func (r Payments) FindByOwnerID(ctx context.Context, ownerID string) []domain.Payment {
	return r.where(ctx, func(p domain.Payment) bool { return p.OwnerID == ownerID })
}

// FindByPropertyID returns payments for propertyID.
func (r Payments) FindByPropertyID(ctx context.Context, propertyID string) []domain.Payment {
	return r.where(ctx, func(p domain.Payment) bool { return p.PropertyID == propertyID })
}

// Agreements stores lease agreements.
type Agreements struct{ table[domain.LeaseAgreement] }

// FindByTenantID returns the leases held by tenantID.
func (r Agreements) FindByTenantID(ctx context.Context, tenantID string) []domain.LeaseAgreement {
	return r.where(ctx, func(a domain.LeaseAgreement) bool { return a.TenantID == tenantID })
}

// FindByOwnerID returns the leases granted by ownerID.
func (r Agreements) FindByOwnerID(ctx context.Context, ownerID string) []domain.LeaseAgreement {
	return r.where(ctx, func(a domain.LeaseAgreement) bool { return a.OwnerID == ownerID })
}

// FindByPropertyID returns the leases on propertyID.
func (r Agreements) FindByPropertyID(ctx context.Context, propertyID string) []domain.LeaseAgreement {
	return r.where(ctx, func(a domain.LeaseAgreement) bool { return a.PropertyID == propertyID })
}

// ActiveFor returns the first active lease binding tenantID to propertyID.
func (r Agreements) ActiveFor(ctx context.Context, tenantID, propertyID string) (domain.LeaseAgreement, bool) {
	for _, a := range r.All(ctx) {
		if a.TenantID == tenantID && a.PropertyID == propertyID && a.Status == domain.AgreementActive {
			return a, true
		}
	}
	return domain.LeaseAgreement{}, false
}

// Repositories groups every entity repository over one store.
type Repositories struct {
	Users        Users
	Properties   Properties
	Applications Applications
	Complaints   Complaints
	Payments     Payments
	Agreements   Agreements

	store *collection.Store
}

// New builds the repositories backed by store.
func New(store *collection.Store) *Repositories {
	return &Repositories{
		Users:        Users{table[domain.User]{store, domain.BucketUsers}},
		Properties:   Properties{table[domain.Property]{store, domain.BucketProperties}},
		Applications: Applications{table[domain.Application]{store, domain.BucketApplications}},
		Complaints:   Complaints{table[domain.Complaint]{store, domain.BucketComplaints}},
		Payments:     Payments{table[domain.Payment]{store, domain.BucketPayments}},
		Agreements:   Agreements{table[domain.LeaseAgreement]{store, domain.BucketAgreements}},
		store:        store,
	}
}

// Store returns the underlying collection store.
func (r *Repositories) Store() *collection.Store { return r.store }

// ClearAll drops every entity collection. Slots such as the current user
// are kept.
func (r *Repositories) ClearAll(ctx context.Context) error {
	for _, bucket := range domain.CollectionBuckets {
		if err := r.store.Clear(ctx, bucket); err != nil {
			return err
		}
	}
	return nil
}
