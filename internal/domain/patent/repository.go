package patent

import "context"

// Store is the read-only corpus contract.  Implementations load the full
// record set once and serve it unchanged for the life of the process;
// a corpus change is handled by constructing a new Store and rebuilding
// the similarity index against it.
type Store interface {
	// GetAll returns every corpus record in stable insertion order.  The
	// returned slice must not be mutated by callers.
	GetAll(ctx context.Context) ([]Record, error)

	// GetByID returns the record with the given identifier, or an error
	// satisfying errors.IsNotFound when the id is unknown.
	GetByID(ctx context.Context, id string) (*Record, error)

	// Count returns the number of loaded records.
	Count() int

	// ContentHash returns a stable hex digest over record identities and
	// claim texts in insertion order.  The similarity index snapshot is
	// keyed by this hash; any corpus edit changes it and invalidates the
	// cached artifact regardless of file timestamps.
	ContentHash() string
}
