package clients

import (
	"context"
	"fmt"
	"io"
	"time"

	"pocketclass/models"
)

// Query selects and orders a roster.
type Query struct {
	Criteria
	Sort SortOrder `json:"sort,omitempty"`
}

// Validate checks the criteria and the sort order.
func (q Query) Validate() error {
	if err := q.Criteria.Validate(); err != nil {
		return err
	}
	if !q.Sort.Valid() {
		return NewValidationError("invalid_sort", fmt.Sprintf("unknown sort order %q", q.Sort))
	}
	return nil
}

// Result is a filtered roster with its summary. Total counts the roster before filtering.
type Result struct {
	Clients []Identity `json:"clients"`
	Stats   Stats      `json:"stats"`
	Total   int        `json:"total"`
}

// IdentityDetail is one identity with its activity flag.
type IdentityDetail struct {
	Identity
	Active bool `json:"active"`
}

// Snapshot is one delivery of a roster subscription. When Err is set, Clients holds the
// last roster that loaded successfully.
type Snapshot struct {
	Clients []Identity
	Err     error
}

type ClientService interface {
	// Roster
	ListIdentities(ctx context.Context, instructorID string) ([]Identity, error)
	Query(ctx context.Context, instructorID string, q Query) (*Result, error)
	GetIdentity(ctx context.Context, instructorID, key string) (*IdentityDetail, error)
	Subscribe(ctx context.Context, instructorID string, fn func(Snapshot)) error

	// External clients
	AddClient(ctx context.Context, instructorID string, input models.NewClientInput) (*models.ExternalClient, error)
	ImportClients(ctx context.Context, instructorID string, r io.Reader) (int, error)
	DeleteClient(ctx context.Context, instructorID, id string) error

	// Export
	Export(ctx context.Context, instructorID string, q Query) ([]byte, error)
	ArchiveExport(ctx context.Context, instructorID string, q Query) (string, error)

	Now() time.Time
}

// Apply filters, sorts and summarizes a roster.
func Apply(list []Identity, q Query, now time.Time) *Result {
	filtered := Sort(Filter(list, q.Criteria, now), q.Sort)
	return &Result{
		Clients: filtered,
		Stats:   ComputeStats(filtered, now),
		Total:   len(list),
	}
}
