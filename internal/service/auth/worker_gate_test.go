package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerGate(t *testing.T) {
	_, err := NewWorkerGate("short")
	assert.Error(t, err)

	gate, err := NewWorkerGate("worker-secret-token-0001")
	require.NoError(t, err)
	assert.NotNil(t, gate)
}

func TestWorkerGateAuthenticate(t *testing.T) {
	gate, err := NewWorkerGate("worker-secret-token-0001")
	require.NoError(t, err)

	assert.True(t, gate.Authenticate("worker-secret-token-0001"))

	assert.False(t, gate.Authenticate(""))
	assert.False(t, gate.Authenticate("worker-secret-token-0002"))
	assert.False(t, gate.Authenticate("worker-secret-token-0001 "))
	assert.False(t, gate.Authenticate("WORKER-SECRET-TOKEN-0001"))
	// Prefix of the secret must not pass.
	assert.False(t, gate.Authenticate("worker-secret-token"))
}
