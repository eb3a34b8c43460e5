package models

import "time"

// NodeKind is the kind of a file-tree entry.
type NodeKind string

const (
	KindFolder NodeKind = "folder"
	KindFile   NodeKind = "file"
	KindImage  NodeKind = "image"
)

// Valid reports whether k is one of the three recognized kinds.
func (k NodeKind) Valid() bool {
	return k == KindFolder || k == KindFile || k == KindImage
}

// RootParentID is the sentinel parent id for top-level nodes.
const RootParentID = "0"

// Node is a file-tree entry owned by a single user.
//
// Invariants: ParentID is either RootParentID or the id of a folder node in
// the same store; PayloadRef is set if and only if Kind != KindFolder; only
// IsPublic is ever mutated after creation.
type Node struct {
	ID         string
	OwnerID    string
	Name       string
	Kind       NodeKind
	ParentID   string
	IsPublic   bool
	PayloadRef string
	CreatedAt  time.Time
}

// NodeProjection is the public shape of a Node returned over the API.
// PayloadRef is deliberately absent.
type NodeProjection struct {
	ID       string   `json:"id"`
	OwnerID  string   `json:"ownerId"`
	Name     string   `json:"name"`
	Kind     NodeKind `json:"kind"`
	IsPublic bool     `json:"isPublic"`
	ParentID string   `json:"parentId"`
}

// Projection returns the public projection of the node. A root-level node
// echoes the sentinel parent id, never an internal representation.
func (n *Node) Projection() NodeProjection {
	parent := n.ParentID
	if parent == "" {
		parent = RootParentID
	}
	return NodeProjection{
		ID:       n.ID,
		OwnerID:  n.OwnerID,
		Name:     n.Name,
		Kind:     n.Kind,
		IsPublic: n.IsPublic,
		ParentID: parent,
	}
}
