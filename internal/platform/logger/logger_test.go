package logger

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	log, err := Setup(LoggerConfig{Level: "debug"})
	require.NoError(t, err)
	assert.NotNil(t, log)
	assert.True(t, log.Enabled(context.Background(), slog.LevelDebug))

	log, err = Setup(LoggerConfig{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, log.Enabled(context.Background(), slog.LevelInfo))

	_, err = Setup(LoggerConfig{Level: "verbose"})
	assert.Error(t, err)
}

func TestContextCarry(t *testing.T) {
	base := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := WithLogger(context.Background(), base)

	assert.Same(t, base, FromContext(ctx))
	assert.Same(t, base, FromContextOrDefault(ctx, nil))

	// Empty context falls back.
	def := slog.New(slog.NewTextHandler(os.Stderr, nil))
	assert.Same(t, def, FromContextOrDefault(context.Background(), def))
	assert.NotNil(t, FromContext(context.Background()))
}
