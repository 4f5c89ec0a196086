package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	logger := New()
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.info)
	assert.NotNil(t, logger.warn)
	assert.NotNil(t, logger.error)
}

func TestLogger_Levels(t *testing.T) {
	logger := New()

	assert.NotPanics(t, func() {
		logger.Info("Avatar %s uploaded by %s", "cat.png", "user-1")
		logger.Warn("Preview for %s replaced", "animation-1")
		logger.Error("Failed to load avatars: %v", "connection refused")
	})
}

func TestLogger_NoArgs(t *testing.T) {
	logger := New()

	assert.NotPanics(t, func() {
		logger.Info("Studio service starting")
		logger.Warn("Queue disabled")
		logger.Error("Shutdown timed out")
	})
}
