package auth

import (
	"crypto/subtle"
	"fmt"
)

// WorkerGate validates the shared-secret credential presented by worker
// callbacks. This is a single service-to-service credential, not a
// per-worker identity: any holder of the secret can update any job.
// The secret is loaded once at startup, rotated out of band, and must
// never be logged.
type WorkerGate struct {
	secret []byte
}

// NewWorkerGate creates a gate for the configured shared secret.
// The secret must be at least 16 characters.
func NewWorkerGate(secret string) (*WorkerGate, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("worker secret must be at least 16 characters")
	}
	return &WorkerGate{secret: []byte(secret)}, nil
}

// Authenticate reports whether the presented token matches the
// configured secret. The comparison is constant-time.
func (g *WorkerGate) Authenticate(presentedToken string) bool {
	return subtle.ConstantTimeCompare(g.secret, []byte(presentedToken)) == 1
}
