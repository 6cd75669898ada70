package common

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	orig := slog.Default()
	t.Cleanup(func() { slog.SetDefault(orig) })

	ctx := context.Background()

	require.NoError(t, SetupLogger(slog.LevelDebug, "json"))
	assert.True(t, slog.Default().Enabled(ctx, slog.LevelDebug))

	require.NoError(t, SetupLogger(slog.LevelWarn, "console"))
	assert.False(t, slog.Default().Enabled(ctx, slog.LevelInfo))
	assert.True(t, slog.Default().Enabled(ctx, slog.LevelWarn))
}
