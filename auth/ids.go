package auth

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const defaultCodeLength = 32 // 32 bytes = 256 bits

// IDGenerator produces the broker's random identifiers.
type IDGenerator interface {
	// SessionID identifies a session and doubles as the upstream state.
	SessionID() (string, error)

	// AuthorizationCode is the single-use code handed to the client.
	AuthorizationCode() (string, error)
}

type randomIDs struct {
	codeLength int
}

// NewRandomIDGenerator returns a generator backed by crypto/rand. Session IDs
// are UUIDv4; codes are codeLength random bytes, base64url encoded.
func NewRandomIDGenerator(codeLength int) IDGenerator {
	if codeLength <= 0 {
		codeLength = defaultCodeLength
	}
	return randomIDs{codeLength: codeLength}
}

func (g randomIDs) SessionID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", errors.Wrap(err, "[SessionID] uuid.NewRandom")
	}
	return id.String(), nil
}

func (g randomIDs) AuthorizationCode() (string, error) {
	bytes := make([]byte, g.codeLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", errors.Wrap(err, "[AuthorizationCode] rand.Read")
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
