package repomanager

import (
	"github.com/akarpovs/filedepot/internal/server/repositories/nodes"
	"github.com/akarpovs/filedepot/internal/server/repositories/users"
)

// MemoryManager backs the repositories with in-process maps. Used by tests
// and the "memory" database backend for local runs.
type MemoryManager struct {
	users *users.MemoryRepository
	nodes *nodes.MemoryRepository
}

func NewMemoryManager() *MemoryManager {
	return &MemoryManager{
		users: users.NewMemoryRepository(),
		nodes: nodes.NewMemoryRepository(),
	}
}

func (m *MemoryManager) Users() users.Repository { return m.users }
func (m *MemoryManager) Nodes() nodes.Repository { return m.nodes }
func (m *MemoryManager) Close() error            { return nil }
