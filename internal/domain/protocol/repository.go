package protocol

import (
	"context"

	ptypes "github.com/turtacn/protoscribe/pkg/types/protocol"
)

// ListFilter narrows a protocol listing.
type ListFilter struct {
	Status ptypes.ProtocolStatus
	Limit  int
	Offset int
}

// Repository defines the persistence contract for protocol aggregates.
// Implementations live in internal/infrastructure/database; callers must not
// assume anything beyond this interface so the backing store can be swapped
// between PostgreSQL and the in-memory store.
type Repository interface {
	// Save inserts or replaces a protocol by ID.
	Save(ctx context.Context, p *Protocol) error

	// FindByID returns the protocol or an ErrCodeProtocolNotFound AppError.
	FindByID(ctx context.Context, id ptypes.ProtocolID) (*Protocol, error)

	// List returns protocols matching the filter, newest first, along with
	// the total count before limit/offset.
	List(ctx context.Context, filter ListFilter) ([]*Protocol, int64, error)

	// Delete removes the protocol and its analyses.  Deleting a missing
	// protocol returns an ErrCodeProtocolNotFound AppError.
	Delete(ctx context.Context, id ptypes.ProtocolID) error
}

// AnalysisRepository defines the persistence contract for analysis records.
type AnalysisRepository interface {
	// Save appends an analysis run.
	Save(ctx context.Context, a *Analysis) error

	// ListByProtocol returns all analyses for a protocol, newest first.
	ListByProtocol(ctx context.Context, id ptypes.ProtocolID) ([]*Analysis, error)

	// FindLatest returns the most recent analysis of the given type, or an
	// ErrCodeAnalysisNotFound AppError when none exists.
	FindLatest(ctx context.Context, id ptypes.ProtocolID, typ ptypes.AnalysisType) (*Analysis, error)
}
