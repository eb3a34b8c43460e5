// Package auth implements the stateless pieces of the authentication flow:
// decoding transport credentials and hashing/verifying passwords.
package auth

import (
	"encoding/base64"
	"strings"

	"github.com/akarpovs/filedepot/internal/common"
)

const basicPrefix = "Basic "

// DecodeBasic extracts the (email, password) pair from a Basic credential
// header. A missing scheme prefix, invalid base64, or a missing ":"
// separator all yield the generic auth rejection: the caller must not be
// able to tell a malformed credential from a wrong one.
func DecodeBasic(header string) (email, password string, err error) {
	if !strings.HasPrefix(header, basicPrefix) {
		return "", "", common.NewAuth()
	}

	raw, decErr := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, basicPrefix))
	if decErr != nil {
		return "", "", common.NewAuth()
	}

	email, password, ok := strings.Cut(string(raw), ":")
	if !ok {
		return "", "", common.NewAuth()
	}
	return email, password, nil
}
