package tree

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/akarpovs/filedepot/internal/common"
	"github.com/akarpovs/filedepot/internal/server/models"
)

const (
	// MaxNameLen is the maximum node name length in characters.
	MaxNameLen = 255
	// MaxPayloadBytes is the maximum decoded payload size (2 GiB).
	MaxPayloadBytes = 2 << 30
)

// invalidNameChars are the characters a node name must not contain.
const invalidNameChars = `<>:"/\|?*`

// ParentResolver looks up a candidate parent node scoped to its owner.
// Satisfied by the node repository.
type ParentResolver interface {
	FindByID(ctx context.Context, id, ownerID string) (*models.Node, error)
}

// Validator checks a creation request against the naming rules, payload
// encoding rules, and parent-node constraints.
type Validator struct {
	parents ParentResolver
}

func NewValidator(parents ParentResolver) *Validator {
	return &Validator{parents: parents}
}

// Validate runs the validation pipeline in fixed order, short-circuiting on
// the first failure so error reporting is deterministic. On success it
// returns the node ready for persistence (id and payload reference are
// assigned later by the caller) together with the decoded payload bytes.
func (v *Validator) Validate(ctx context.Context, ownerID string, req *CreateRequest) (*models.Node, []byte, error) {
	if req.Name == nil {
		return nil, nil, common.NewValidation("missing_name", "Missing name")
	}
	if req.Kind == nil {
		return nil, nil, common.NewValidation("missing_kind", "Missing kind")
	}

	kind := models.NodeKind(*req.Kind)
	if !kind.Valid() {
		return nil, nil, common.NewValidation("invalid_kind", "Invalid kind")
	}

	if kind != models.KindFolder && req.Payload == nil {
		return nil, nil, common.NewValidation("missing_payload", "Missing payload")
	}

	name := *req.Name
	if name == "" || len(name) > MaxNameLen || strings.ContainsAny(name, invalidNameChars) {
		return nil, nil, common.NewValidation("invalid_name", "Invalid name")
	}

	if kind == models.KindFolder && strings.Contains(name, ".") {
		return nil, nil, common.NewValidation("folder_name_dot", "A folder name must not contain a dot")
	}

	var payload []byte
	if kind != models.KindFolder {
		var err error
		payload, err = decodePayload(*req.Payload)
		if err != nil {
			return nil, nil, err
		}
	}

	parentID := models.RootParentID
	if req.ParentID != nil && *req.ParentID != "" {
		parentID = *req.ParentID
	}
	if parentID != models.RootParentID {
		if err := v.checkParent(ctx, parentID, ownerID); err != nil {
			return nil, nil, err
		}
	}

	node := &models.Node{
		OwnerID:  ownerID,
		Name:     name,
		Kind:     kind,
		ParentID: parentID,
		IsPublic: req.IsPublic != nil && *req.IsPublic,
	}
	return node, payload, nil
}

// decodePayload validates the base64 payload. The decoded-size bound is
// checked first, from the encoded length alone, so an oversize payload is
// rejected before any allocation.
func decodePayload(s string) ([]byte, error) {
	if payloadTooLarge(len(s)) {
		return nil, common.NewValidation("payload_too_large", "Payload exceeds the 2 GiB limit")
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, common.NewValidation("payload_not_base64", "Payload is not valid base64")
	}
	return data, nil
}

// payloadTooLarge reports whether an encoded payload of n bytes could decode
// to more than MaxPayloadBytes.
func payloadTooLarge(n int) bool {
	return base64.StdEncoding.DecodedLen(n) > MaxPayloadBytes
}

// checkParent resolves a non-root parent id: it must be syntactically
// valid, resolve to an existing owned node, and that node must be a folder.
// Each failure mode has its own reason.
func (v *Validator) checkParent(ctx context.Context, parentID, ownerID string) error {
	if _, err := uuid.Parse(parentID); err != nil {
		return common.NewValidation("invalid_parent_id", "Invalid parent id")
	}

	parent, err := v.parents.FindByID(ctx, parentID, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NewValidation("parent_not_found", "Parent not found")
		}
		return err
	}
	if parent.Kind != models.KindFolder {
		return common.NewValidation("parent_not_folder", "Parent is not a folder")
	}
	return nil
}
