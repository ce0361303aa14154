package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_ValidLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		l := New()
		require.NoError(t, l.Init(level), "Init(%q)", level)
		assert.NotNil(t, l.Log)
	}
}

func TestInit_InvalidLevel(t *testing.T) {
	l := New()
	assert.Error(t, l.Init("loud"))
}

func TestNew_UsableBeforeInit(t *testing.T) {
	l := New()
	require.NotNil(t, l.Log)
	l.Log.Info("no-op logger accepts writes")
}
