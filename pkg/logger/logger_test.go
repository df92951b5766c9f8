package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_LevelOverride(t *testing.T) {
	l, err := New("prod", "warn")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_InvalidLevelKeepsDefault(t *testing.T) {
	l, err := New("dev", "loud")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel), "development config defaults to debug")
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))

	l := zap.NewExample()
	assert.Same(t, l, OrNop(l))
}

func TestL_InitializesLazily(t *testing.T) {
	assert.NotNil(t, L())
	assert.NotNil(t, S())
}
