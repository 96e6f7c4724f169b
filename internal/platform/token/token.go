// Package token generates the opaque single-use tokens stored on user
// records for email verification and password reset.
package token

import (
	"strings"

	"github.com/google/uuid"
)

// Source issues opaque random token strings.
type Source struct{}

// NewSource creates a new token source.
func NewSource() *Source {
	return &Source{}
}

// NewToken returns a fresh opaque token. The value carries no meaning
// beyond equality with the stored copy.
func (s *Source) NewToken() string {
	// Hyphens stripped so the token survives URL paths and copy-paste.
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
