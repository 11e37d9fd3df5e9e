// Package secure keeps the Sentry API token out of plain process memory.
// The token is encrypted at rest inside a memguard enclave and only
// decrypted for the moment a request needs it. Call memguard.Purge() on
// exit for full cleanup.
package secure

import (
	"sync"

	"github.com/awnumar/memguard"
)

// Token holds an API token in protected memory
type Token struct {
	mu      sync.RWMutex
	enclave *memguard.Enclave
}

// NewToken seals the given token value. The caller should discard its
// own copy of the string afterwards.
func NewToken(value string) *Token {
	return &Token{
		enclave: memguard.NewEnclave([]byte(value)),
	}
}

// IsSet reports whether a token is held
func (t *Token) IsSet() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enclave != nil
}

// Reveal decrypts the token and returns it as a string for request
// signing. The decrypted buffer is wiped before returning.
func (t *Token) Reveal() (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.enclave == nil {
		return "", nil
	}

	buf, err := t.enclave.Open()
	if err != nil {
		return "", err
	}
	defer buf.Destroy()

	return string(buf.Bytes()), nil
}

// Destroy drops the enclave. Reveal returns an empty token afterwards;
// calling Destroy again is a no-op.
func (t *Token) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enclave = nil
}
