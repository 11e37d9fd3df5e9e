package logging

import (
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStderr runs fn and returns everything it wrote to stderr.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w

	fn()

	require.NoError(t, w.Close())
	os.Stderr = old

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestLogger_Levels(t *testing.T) {
	logger := New(false, true)

	out := captureStderr(t, func() {
		logger.Info("project %s resolved", "my-app")
	})
	assert.Equal(t, "✓ project my-app resolved\n", out)

	out = captureStderr(t, func() {
		logger.Warn("no sample rate set")
	})
	assert.Equal(t, "⚠ no sample rate set\n", out)

	out = captureStderr(t, func() {
		logger.Error("request failed")
	})
	assert.Equal(t, "✗ request failed\n", out)
}

func TestLogger_DebugSuppressed(t *testing.T) {
	logger := New(false, true)

	out := captureStderr(t, func() {
		logger.Debug("should not appear")
	})
	assert.Empty(t, out)
}

func TestLogger_DebugEnabled(t *testing.T) {
	logger := New(true, true)

	out := captureStderr(t, func() {
		logger.Debug("listing keys for %s", "my-app")
	})
	assert.Equal(t, "[DEBUG] listing keys for my-app\n", out)
}

func TestSecret_NeverPrinted(t *testing.T) {
	token := Secret("sntrys_abcdef0123456789")

	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%s", token))
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", token))
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%#v", token))
	assert.NotContains(t, fmt.Sprintf("token is %s", token), "sntrys_")
}
