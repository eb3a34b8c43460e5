// Package tree implements the file-tree creation schema and its validation
// pipeline: the rules deciding whether a requested node creation is
// well-formed and consistent with the tree's invariants.
package tree

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/akarpovs/filedepot/internal/common"
)

// CreateRequest is the statically-typed creation input. Pointer fields carry
// explicit presence: a nil field was absent from the request body.
type CreateRequest struct {
	Name     *string `json:"name"`
	Kind     *string `json:"kind"`
	Payload  *string `json:"payload"`
	ParentID *string `json:"parentId"`
	IsPublic *bool   `json:"isPublic"`
}

// DecodeCreateRequest reads a CreateRequest from r, rejecting unknown fields
// and wrong-typed values at the boundary so the validator only ever sees a
// well-formed schema.
func DecodeCreateRequest(r io.Reader) (*CreateRequest, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var req CreateRequest
	if err := dec.Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, common.NewValidation("invalid_field_type",
				fmt.Sprintf("Field %q must be of type %s", typeErr.Field, typeErr.Type))
		}
		if field, ok := unknownField(err); ok {
			return nil, common.NewValidation("unknown_field",
				fmt.Sprintf("Unknown field %s", field))
		}
		return nil, common.NewValidation("malformed_body", "Malformed request body")
	}
	return &req, nil
}

// unknownField extracts the field name from the unexported error
// encoding/json returns when DisallowUnknownFields trips.
func unknownField(err error) (string, bool) {
	const marker = "unknown field "
	msg := err.Error()
	i := strings.Index(msg, marker)
	if i < 0 {
		return "", false
	}
	return msg[i+len(marker):], true
}
