package nodes

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/akarpovs/filedepot/internal/common"
	"github.com/akarpovs/filedepot/internal/server/models"
)

// MemoryRepository is an in-memory Repository preserving insertion order,
// used by tests and the "memory" database backend.
type MemoryRepository struct {
	mu    sync.RWMutex
	order []*models.Node
	byID  map[string]*models.Node
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]*models.Node)}
}

func (r *MemoryRepository) FindByID(_ context.Context, id, ownerID string) (*models.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.byID[id]
	if !ok || n.OwnerID != ownerID {
		return nil, common.NewNotFound()
	}
	out := *n
	return &out, nil
}

func (r *MemoryRepository) FindPublicOrOwned(_ context.Context, id, callerID string) (*models.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.byID[id]
	if !ok || !(n.IsPublic || (callerID != "" && n.OwnerID == callerID)) {
		return nil, common.NewNotFound()
	}
	out := *n
	return &out, nil
}

func (r *MemoryRepository) ListByParent(_ context.Context, ownerID, parentID string, page int) ([]*models.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matching := make([]*models.Node, 0, PageSize)
	for _, n := range r.order {
		if n.OwnerID == ownerID && n.ParentID == parentID {
			matching = append(matching, n)
		}
	}

	start := page * PageSize
	if start < 0 || start >= len(matching) {
		return []*models.Node{}, nil
	}
	end := start + PageSize
	if end > len(matching) {
		end = len(matching)
	}

	result := make([]*models.Node, 0, end-start)
	for _, n := range matching[start:end] {
		out := *n
		result = append(result, &out)
	}
	return result, nil
}

func (r *MemoryRepository) Insert(_ context.Context, node *models.Node) (*models.Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *node
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now()
	r.byID[stored.ID] = &stored
	r.order = append(r.order, &stored)

	out := stored
	return &out, nil
}

func (r *MemoryRepository) SetVisibility(_ context.Context, id, ownerID string, isPublic bool) (*models.Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.byID[id]
	if !ok || n.OwnerID != ownerID {
		return nil, common.NewNotFound()
	}
	n.IsPublic = isPublic
	out := *n
	return &out, nil
}
