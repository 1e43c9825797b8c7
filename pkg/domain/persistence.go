package domain

import "context"

// Persistence bucket names. Each collection bucket holds a JSON array of
// records in insertion order; SlotCurrentUser holds a single User snapshot.
const (
	BucketUsers        = "users"
	BucketProperties   = "properties"
	BucketApplications = "applications"
	BucketComplaints   = "complaints"
	BucketPayments     = "payments"
	BucketAgreements   = "agreements"
	SlotCurrentUser    = "current_user"
)

// CollectionBuckets lists every entity collection bucket.
var CollectionBuckets = []string{
	BucketUsers,
	BucketProperties,
	BucketApplications,
	BucketComplaints,
	BucketPayments,
	BucketAgreements,
}

// StateBackend is a durable byte store keyed by bucket name. Implementations
// replace a bucket's whole payload on every Save.
type StateBackend interface {
	// Load returns the bucket payload; ok is false when the bucket was never written.
	Load(ctx context.Context, bucket string) (payload []byte, ok bool, err error)
	// Save replaces the bucket payload.
	Save(ctx context.Context, bucket string, payload []byte) error
	// Delete drops the bucket. Deleting a missing bucket is not an error.
	Delete(ctx context.Context, bucket string) error
	// Close releases backend resources.
	Close() error
}
