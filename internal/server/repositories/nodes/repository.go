// Package nodes provides the repository for file-tree entries.
package nodes

import (
	"context"

	"github.com/akarpovs/filedepot/internal/server/models"
)

// PageSize is the fixed page size for listings.
const PageSize = 20

// Repository persists file-tree nodes. All operations are scoped to an
// owner except FindPublicOrOwned, which implements the public-read rule.
type Repository interface {
	// FindByID returns the node with the given id owned by ownerID.
	FindByID(ctx context.Context, id, ownerID string) (*models.Node, error)
	// FindPublicOrOwned returns the node if it is public or owned by
	// callerID (callerID may be empty for anonymous callers). An absent
	// node and a forbidden one are indistinguishable: both are not-found.
	FindPublicOrOwned(ctx context.Context, id, callerID string) (*models.Node, error)
	// ListByParent returns the 0-indexed page of ownerID's children of
	// parentID in insertion order. Out-of-range pages yield an empty
	// slice, never an error.
	ListByParent(ctx context.Context, ownerID, parentID string, page int) ([]*models.Node, error)
	// Insert persists a new node and returns it with the assigned id.
	Insert(ctx context.Context, node *models.Node) (*models.Node, error)
	// SetVisibility flips isPublic on an owned node and returns the
	// updated node, or not-found when no matching owned node exists.
	SetVisibility(ctx context.Context, id, ownerID string, isPublic bool) (*models.Node, error)
}
