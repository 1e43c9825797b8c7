// Package domain defines the persistent rental records, their status value
// types, and the rule evaluation primitives used by rentalcore.
package domain

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityUser identifies a platform account.
	EntityUser EntityType = "user"
	// EntityProperty identifies a rentable property listing.
	EntityProperty EntityType = "property"
	// EntityApplication identifies a tenant's rental application.
	EntityApplication EntityType = "application"
	// EntityComplaint identifies a maintenance or tenancy complaint.
	EntityComplaint EntityType = "complaint"
	// EntityPayment identifies a payment record.
	EntityPayment EntityType = "payment"
	// EntityAgreement identifies a lease agreement.
	EntityAgreement EntityType = "agreement"
)

// Bucket returns the persistence bucket that stores records of the entity type.
func (e EntityType) Bucket() string {
	switch e {
	case EntityUser:
		return BucketUsers
	case EntityProperty:
		return BucketProperties
	case EntityApplication:
		return BucketApplications
	case EntityComplaint:
		return BucketComplaints
	case EntityPayment:
		return BucketPayments
	case EntityAgreement:
		return BucketAgreements
	default:
		return ""
	}
}

// Role enumerates the actor roles known to the platform.
type Role string

const (
	RoleTenant Role = "tenant"
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
)

// Valid reports whether the role is one of the supported values.
func (r Role) Valid() bool {
	switch r {
	case RoleTenant, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

// PropertyType classifies a listing.
type PropertyType string

const (
	PropertyApartment PropertyType = "apartment"
	PropertyHouse     PropertyType = "house"
	PropertyCondo     PropertyType = "condo"
	PropertyStudio    PropertyType = "studio"
)

// Valid reports whether the property type is supported.
func (p PropertyType) Valid() bool {
	switch p {
	case PropertyApartment, PropertyHouse, PropertyCondo, PropertyStudio:
		return true
	}
	return false
}

// ApplicationStatus tracks an application decision.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// ComplaintStatus tracks complaint resolution progress.
type ComplaintStatus string

const (
	ComplaintOpen       ComplaintStatus = "open"
	ComplaintInProgress ComplaintStatus = "in-progress"
	ComplaintResolved   ComplaintStatus = "resolved"
)

// Next returns the status that follows c in the resolution pipeline. The
// second return value is false when c is resolved or unknown.
func (c ComplaintStatus) Next() (ComplaintStatus, bool) {
	switch c {
	case ComplaintOpen:
		return ComplaintInProgress, true
	case ComplaintInProgress:
		return ComplaintResolved, true
	default:
		return c, false
	}
}

// Rank orders complaint statuses along the pipeline; unknown values rank -1.
func (c ComplaintStatus) Rank() int {
	switch c {
	case ComplaintOpen:
		return 0
	case ComplaintInProgress:
		return 1
	case ComplaintResolved:
		return 2
	default:
		return -1
	}
}

// ComplaintPriority ranks complaint urgency.
type ComplaintPriority string

const (
	PriorityLow    ComplaintPriority = "low"
	PriorityMedium ComplaintPriority = "medium"
	PriorityHigh   ComplaintPriority = "high"
)

// Valid reports whether the priority is supported.
func (p ComplaintPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// PaymentType classifies what a payment covers.
type PaymentType string

const (
	PaymentRent        PaymentType = "rent"
	PaymentDeposit     PaymentType = "deposit"
	PaymentMaintenance PaymentType = "maintenance"
)

// Valid reports whether the payment type is supported.
func (p PaymentType) Valid() bool {
	switch p {
	case PaymentRent, PaymentDeposit, PaymentMaintenance:
		return true
	}
	return false
}

// PaymentStatus tracks settlement state.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	// PaymentFailed exists in persisted data but no operation produces it.
	PaymentFailed PaymentStatus = "failed"
)

// AgreementStatus tracks lease validity.
type AgreementStatus string

const (
	AgreementActive     AgreementStatus = "active"
	AgreementExpired    AgreementStatus = "expired"
	AgreementTerminated AgreementStatus = "terminated"
)

// User is a platform account. Password holds an encoded secret hash; records
// imported from older stores may still carry plaintext until the next login.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	Phone     *string   `json:"phone,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt Timestamp `json:"createdAt"`
}

// RecordID implements the collection record contract.
func (u User) RecordID() string { return u.ID }

// Property is a rentable listing owned by an owner account.
type Property struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Rent        float64      `json:"rent"`
	Location    string       `json:"location"`
	ImageURL    string       `json:"imageUrl"`
	OwnerID     string       `json:"ownerId"`
	Bedrooms    int          `json:"bedrooms"`
	Bathrooms   float64      `json:"bathrooms"`
	Area        int          `json:"area"`
	Type        PropertyType `json:"type"`
	IsAvailable bool         `json:"isAvailable"`
	CreatedAt   Timestamp    `json:"createdAt"`
}

// RecordID implements the collection record contract.
func (p Property) RecordID() string { return p.ID }

// Application is a tenant's request to rent a property.
type Application struct {
	ID          string            `json:"id"`
	PropertyID  string            `json:"propertyId"`
	TenantID    string            `json:"tenantId"`
	Status      ApplicationStatus `json:"status"`
	Message     string            `json:"message"`
	AppliedAt   Timestamp         `json:"appliedAt"`
	RespondedAt *Timestamp        `json:"respondedAt,omitempty"`
}

// RecordID implements the collection record contract.
func (a Application) RecordID() string { return a.ID }

// Complaint is raised by a leaseholding tenant against a property.
type Complaint struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	TenantID    string            `json:"tenantId"`
	PropertyID  string            `json:"propertyId"`
	OwnerID     string            `json:"ownerId"`
	Status      ComplaintStatus   `json:"status"`
	Priority    ComplaintPriority `json:"priority"`
	CreatedAt   Timestamp         `json:"createdAt"`
	UpdatedAt   *Timestamp        `json:"updatedAt,omitempty"`
}

// RecordID implements the collection record contract.
func (c Complaint) RecordID() string { return c.ID }

// Payment records money owed or paid by a tenant to an owner.
type Payment struct {
	ID         string        `json:"id"`
	TenantID   string        `json:"tenantId"`
	PropertyID string        `json:"propertyId"`
	OwnerID    string        `json:"ownerId"`
	Amount     float64       `json:"amount"`
	Type       PaymentType   `json:"type"`
	Status     PaymentStatus `json:"status"`
	DueDate    Timestamp     `json:"dueDate"`
	PaidDate   *Timestamp    `json:"paidDate,omitempty"`
	CreatedAt  Timestamp     `json:"createdAt"`
}

// RecordID implements the collection record contract.
func (p Payment) RecordID() string { return p.ID }

// LeaseAgreement binds a tenant to a property for a fixed term.
type LeaseAgreement struct {
	ID          string          `json:"id"`
	PropertyID  string          `json:"propertyId"`
	TenantID    string          `json:"tenantId"`
	OwnerID     string          `json:"ownerId"`
	StartDate   Timestamp       `json:"startDate"`
	EndDate     Timestamp       `json:"endDate"`
	MonthlyRent float64         `json:"monthlyRent"`
	Deposit     float64         `json:"deposit"`
	Terms       string          `json:"terms"`
	Status      AgreementStatus `json:"status"`
	CreatedAt   Timestamp       `json:"createdAt"`
}

// RecordID implements the collection record contract.
func (a LeaseAgreement) RecordID() string { return a.ID }

// Change describes a mutation applied to an entity during a workflow operation.
type Change struct {
	Entity EntityType
	Action Action
	Before ChangePayload
	After  ChangePayload
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations captured in audit trail.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Severity captures rule outcomes.
type Severity string

const (
	SeverityBlock Severity = "block"
	SeverityWarn  Severity = "warn"
	SeverityLog   Severity = "log"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	for _, v := range e.Result.Violations {
		if v.Severity == SeverityBlock {
			return "operation blocked by rules: " + v.Message
		}
	}
	return "operation blocked by rules"
}
