package credentials

import (
	"crypto/subtle"

	"github.com/emonxxx11/filegate/pkg/config"
)

// Store holds the registered client credentials. It is built once at
// startup and read-only afterwards, so lookups require no locking.
type Store struct {
	secrets map[string]string
}

// NewStore builds a credential store from the configured client list.
func NewStore(clients []config.Client) *Store {
	secrets := make(map[string]string, len(clients))
	for _, c := range clients {
		secrets[c.ID] = c.Secret
	}
	return &Store{secrets: secrets}
}

// Validate reports whether clientID is registered with the given secret.
// The secret comparison is constant-time; an unknown client still performs
// a comparison so both rejection paths take similar time.
func (s *Store) Validate(clientID, secret string) bool {
	stored, ok := s.secrets[clientID]
	if !ok {
		subtle.ConstantTimeCompare([]byte(secret), []byte(secret))
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(secret)) == 1
}

// Len returns the number of registered clients.
func (s *Store) Len() int {
	return len(s.secrets)
}
