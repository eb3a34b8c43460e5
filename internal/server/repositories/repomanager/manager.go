// Package repomanager wires the concrete repository implementations behind a
// single constructor-injected interface.
package repomanager

import (
	"github.com/akarpovs/filedepot/internal/server/repositories/nodes"
	"github.com/akarpovs/filedepot/internal/server/repositories/users"
)

// Manager hands out the repositories backing the server.
type Manager interface {
	Users() users.Repository
	Nodes() nodes.Repository
	Close() error
}
