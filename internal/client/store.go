package client

import "context"

// Store persists client records. Every call is scoped to an owner; a record
// that exists under another owner is reported as cliengoerrors.ErrClientNotFound.
type Store interface {
	// List returns the owner's records, most recently created first.
	List(ctx context.Context, ownerID string) ([]Record, error)

	// Create assigns an id and timestamps and returns the stored record.
	Create(ctx context.Context, ownerID string, f Fields) (Record, error)

	// Update applies patch and returns the stored record.
	// A patch with only OrderPosition set is a position update.
	Update(ctx context.Context, id, ownerID string, patch Patch) (Record, error)

	// Delete removes the record.
	Delete(ctx context.Context, id, ownerID string) error
}
