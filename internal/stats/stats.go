// Package stats computes the dashboard aggregates shown to each role. Every
// call re-reads the repositories; nothing is cached.
package stats

import (
	"context"
	"strings"

	"rentalcore/internal/repo"
	"rentalcore/pkg/domain"
)

const (
	adminRecentLimit = 5
	actorRecentLimit = 3
)

// Admin summarizes the whole platform.
type Admin struct {
	TotalUsers          int                            `json:"totalUsers"`
	Tenants             int                            `json:"tenants"`
	Owners              int                            `json:"owners"`
	Admins              int                            `json:"admins"`
	ActiveUsers         int                            `json:"activeUsers"`
	TotalProperties     int                            `json:"totalProperties"`
	AvailableProperties int                            `json:"availableProperties"`
	OccupiedProperties  int                            `json:"occupiedProperties"`
	AverageRent         float64                        `json:"averageRent"`
	PendingApplications int                            `json:"pendingApplications"`
	OpenComplaints      int                            `json:"openComplaints"`
	ComplaintsByStatus  map[domain.ComplaintStatus]int `json:"complaintsByStatus"`
	ActiveAgreements    int                            `json:"activeAgreements"`
	TotalRevenue        float64                        `json:"totalRevenue"`
	RecentApplications  []domain.Application           `json:"recentApplications"`
	RecentComplaints    []domain.Complaint             `json:"recentComplaints"`
}

// Owner summarizes one owner's portfolio.
type Owner struct {
	TotalProperties     int                  `json:"totalProperties"`
	AvailableProperties int                  `json:"availableProperties"`
	PendingApplications int                  `json:"pendingApplications"`
	OpenComplaints      int                  `json:"openComplaints"`
	TotalEarnings       float64              `json:"totalEarnings"`
	Properties          []domain.Property    `json:"properties"`
	Applications        []domain.Application `json:"applications"`
	Complaints          []domain.Complaint   `json:"complaints"`
	Payments            []domain.Payment     `json:"payments"`
	RecentApplications  []domain.Application `json:"recentApplications"`
	RecentPayments      []domain.Payment     `json:"recentPayments"`
}

// Tenant summarizes one tenant's activity.
type Tenant struct {
	PendingApplications  int                     `json:"pendingApplications"`
	ApprovedApplications int                     `json:"approvedApplications"`
	RejectedApplications int                     `json:"rejectedApplications"`
	OpenComplaints       int                     `json:"openComplaints"`
	PendingPayments      int                     `json:"pendingPayments"`
	TotalPaid            float64                 `json:"totalPaid"`
	Applications         []domain.Application    `json:"applications"`
	Complaints           []domain.Complaint      `json:"complaints"`
	Payments             []domain.Payment        `json:"payments"`
	Agreements           []domain.LeaseAgreement `json:"agreements"`
	RecentApplications   []domain.Application    `json:"recentApplications"`
	RecentPayments       []domain.Payment        `json:"recentPayments"`
}

// AdminDashboard aggregates every collection.
func AdminDashboard(ctx context.Context, repos *repo.Repositories) Admin {
	var out Admin

	users := repos.Users.All(ctx)
	out.TotalUsers = len(users)
	for _, u := range users {
		switch u.Role {
		case domain.RoleTenant:
			out.Tenants++
		case domain.RoleOwner:
			out.Owners++
		case domain.RoleAdmin:
			out.Admins++
		}
		if u.IsActive {
			out.ActiveUsers++
		}
	}

	properties := repos.Properties.All(ctx)
	out.TotalProperties = len(properties)
	var rentSum float64
	for _, p := range properties {
		if p.IsAvailable {
			out.AvailableProperties++
		} else {
			out.OccupiedProperties++
		}
		rentSum += p.Rent
	}
	if len(properties) > 0 {
		out.AverageRent = rentSum / float64(len(properties))
	}

	applications := repos.Applications.All(ctx)
	out.PendingApplications = countApplications(applications, domain.ApplicationPending)
	out.RecentApplications = head(applications, adminRecentLimit)

	complaints := repos.Complaints.All(ctx)
	out.OpenComplaints = countComplaints(complaints, domain.ComplaintOpen)
	out.ComplaintsByStatus = make(map[domain.ComplaintStatus]int, 3)
	for _, c := range complaints {
		out.ComplaintsByStatus[c.Status]++
	}
	out.RecentComplaints = head(complaints, adminRecentLimit)

	for _, a := range repos.Agreements.All(ctx) {
		if a.Status == domain.AgreementActive {
			out.ActiveAgreements++
		}
	}
	out.TotalRevenue = completedTotal(repos.Payments.All(ctx))
	return out
}

// OwnerDashboard aggregates the records belonging to ownerID. Applications are
// attributed through their property, so applications on deleted listings drop
// out.
func OwnerDashboard(ctx context.Context, repos *repo.Repositories, ownerID string) Owner {
	var out Owner
	out.Properties = repos.Properties.FindByOwnerID(ctx, ownerID)
	out.TotalProperties = len(out.Properties)
	owned := make(map[string]struct{}, len(out.Properties))
	for _, p := range out.Properties {
		owned[p.ID] = struct{}{}
		if p.IsAvailable {
			out.AvailableProperties++
		}
	}

	for _, a := range repos.Applications.All(ctx) {
		if _, ok := owned[a.PropertyID]; ok {
			out.Applications = append(out.Applications, a)
		}
	}
	out.PendingApplications = countApplications(out.Applications, domain.ApplicationPending)
	out.RecentApplications = head(out.Applications, actorRecentLimit)

	out.Complaints = repos.Complaints.FindByOwnerID(ctx, ownerID)
	out.OpenComplaints = countComplaints(out.Complaints, domain.ComplaintOpen)

	out.Payments = repos.Payments.FindByOwnerID(ctx, ownerID)
	out.TotalEarnings = completedTotal(out.Payments)
	out.RecentPayments = head(out.Payments, actorRecentLimit)
	return out
}

// TenantDashboard aggregates the records belonging to tenantID.
func TenantDashboard(ctx context.Context, repos *repo.Repositories, tenantID string) Tenant {
	var out Tenant
	out.Applications = repos.Applications.FindByTenantID(ctx, tenantID)
	out.PendingApplications = countApplications(out.Applications, domain.ApplicationPending)
	out.ApprovedApplications = countApplications(out.Applications, domain.ApplicationApproved)
	out.RejectedApplications = countApplications(out.Applications, domain.ApplicationRejected)
	out.RecentApplications = head(out.Applications, actorRecentLimit)

	out.Complaints = repos.Complaints.FindByTenantID(ctx, tenantID)
	out.OpenComplaints = countComplaints(out.Complaints, domain.ComplaintOpen)

	out.Payments = repos.Payments.FindByTenantID(ctx, tenantID)
	for _, p := range out.Payments {
		if p.Status == domain.PaymentPending {
			out.PendingPayments++
		}
	}
	out.TotalPaid = completedTotal(out.Payments)
	out.RecentPayments = head(out.Payments, actorRecentLimit)

	out.Agreements = repos.Agreements.FindByTenantID(ctx, tenantID)
	return out
}

// Filter narrows Browse results. Zero values match everything.
type Filter struct {
	// Search matches title or location, case-insensitively.
	Search   string
	Type     domain.PropertyType
	MinRent  *float64
	MaxRent  *float64
	Bedrooms *int
}

// Browse lists available properties matching f in insertion order.
func Browse(ctx context.Context, repos *repo.Repositories, f Filter) []domain.Property {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	var out []domain.Property
	for _, p := range repos.Properties.Available(ctx) {
		if term != "" && !strings.Contains(strings.ToLower(p.Title), term) && !strings.Contains(strings.ToLower(p.Location), term) {
			continue
		}
		if f.Type != "" && p.Type != f.Type {
			continue
		}
		if f.MinRent != nil && p.Rent < *f.MinRent {
			continue
		}
		if f.MaxRent != nil && p.Rent > *f.MaxRent {
			continue
		}
		if f.Bedrooms != nil && p.Bedrooms != *f.Bedrooms {
			continue
		}
		out = append(out, p)
	}
	return out
}

func countApplications(apps []domain.Application, status domain.ApplicationStatus) int {
	n := 0
	for _, a := range apps {
		if a.Status == status {
			n++
		}
	}
	return n
}

func countComplaints(complaints []domain.Complaint, status domain.ComplaintStatus) int {
	n := 0
	for _, c := range complaints {
		if c.Status == status {
			n++
		}
	}
	return n
}

func completedTotal(payments []domain.Payment) float64 {
	var total float64
	for _, p := range payments {
		if p.Status == domain.PaymentCompleted {
			total += p.Amount
		}
	}
	return total
}

func head[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
