package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/akarpovs/filedepot/internal/common"
	"github.com/akarpovs/filedepot/internal/logging"
	"github.com/akarpovs/filedepot/internal/server/blob"
	"github.com/akarpovs/filedepot/internal/server/models"
	"github.com/akarpovs/filedepot/internal/server/repositories/nodes"
	"github.com/akarpovs/filedepot/internal/server/tree"
)

// DefaultContentType is served when the node name carries no recognized
// extension.
const DefaultContentType = "application/octet-stream"

// renditionSizes are the pre-generated payload variants selectable on read.
var renditionSizes = map[string]bool{"100": true, "250": true, "500": true}

// NodeService implements the file-tree operations.
type NodeService struct {
	nodes     nodes.Repository
	blobs     blob.Store
	validator *tree.Validator
	log       logging.Logger
}

func NewNodeService(repo nodes.Repository, blobs blob.Store, log logging.Logger) *NodeService {
	return &NodeService{
		nodes:     repo,
		blobs:     blobs,
		validator: tree.NewValidator(repo),
		log:       log,
	}
}

// Create validates the request, writes the payload blob for non-folders, and
// then inserts the metadata row. The blob write comes first: if the insert
// fails afterwards the blob is orphaned, which is logged but not rolled
// back, and the caller sees a storage error.
func (s *NodeService) Create(ctx context.Context, ownerID string, req *tree.CreateRequest) (*models.Node, error) {
	node, payload, err := s.validator.Validate(ctx, ownerID, req)
	if err != nil {
		return nil, err
	}

	if node.Kind != models.KindFolder {
		key := blob.NewKey()
		if err := s.blobs.Save(ctx, key, payload); err != nil {
			return nil, err
		}
		node.PayloadRef = key
	}

	created, err := s.nodes.Insert(ctx, node)
	if err != nil {
		if node.PayloadRef != "" {
			s.log.Warn(ctx, "orphan blob after failed insert", "key", node.PayloadRef)
		}
		return nil, common.NewStorage("metadata_insert_failed", err)
	}

	s.log.Info(ctx, "node created", "id", created.ID, "kind", created.Kind)
	return created, nil
}

// Get returns an owned node by id.
func (s *NodeService) Get(ctx context.Context, id, ownerID string) (*models.Node, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.NewNotFound()
	}
	return s.nodes.FindByID(ctx, id, ownerID)
}

// List returns one page of the owner's children of parentID. A non-root
// parent must resolve to an owned node or the listing is not-found.
func (s *NodeService) List(ctx context.Context, ownerID, parentID string, page int) ([]*models.Node, error) {
	if parentID == "" {
		parentID = models.RootParentID
	}
	if parentID != models.RootParentID {
		if _, err := uuid.Parse(parentID); err != nil {
			return nil, common.NewNotFound()
		}
		if _, err := s.nodes.FindByID(ctx, parentID, ownerID); err != nil {
			return nil, err
		}
	}
	if page < 0 {
		page = 0
	}
	return s.nodes.ListByParent(ctx, ownerID, parentID, page)
}

// SetVisibility flips the public flag on an owned node.
func (s *NodeService) SetVisibility(ctx context.Context, id, ownerID string, isPublic bool) (*models.Node, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.NewNotFound()
	}
	node, err := s.nodes.SetVisibility(ctx, id, ownerID, isPublic)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "node visibility changed", "id", id, "public", isPublic)
	return node, nil
}

// OpenPayload streams a node's payload to a caller who either owns it or
// reads it publicly (callerID may be empty). size selects a pre-generated
// rendition; an absent rendition is not-found like any other missing blob.
func (s *NodeService) OpenPayload(ctx context.Context, id, callerID, size string) (io.ReadCloser, string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, "", common.NewNotFound()
	}

	node, err := s.nodes.FindPublicOrOwned(ctx, id, callerID)
	if err != nil {
		return nil, "", err
	}
	if node.Kind == models.KindFolder {
		return nil, "", common.NewValidation("folder_no_payload", "A folder doesn't have content")
	}

	key := node.PayloadRef
	if size != "" {
		if !renditionSizes[size] {
			return nil, "", common.NewValidation("invalid_size", "Invalid size")
		}
		key = fmt.Sprintf("%s_%s", key, size)
	}

	rc, err := s.blobs.Open(ctx, key)
	if err != nil {
		return nil, "", err
	}
	return rc, contentTypeFor(node.Name), nil
}

// contentTypeFor infers the content type from the node name's extension.
func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return DefaultContentType
}
