package contract

import (
	"context"

	"collabdesk-be/internal/model"
)

// ArchiveRepository is write-only: archives are an audit trail, the
// in-memory engine stays the source of truth for reads.
type ArchiveRepository interface {
	Create(ctx context.Context, archive *model.SessionArchive) error
}
