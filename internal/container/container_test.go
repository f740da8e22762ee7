package container

import (
	"context"
	"testing"

	"chicuadrado/internal"
	"chicuadrado/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WiresEverything(t *testing.T) {
	c, err := New(config.Default(), internal.NewNopLogger())
	require.NoError(t, err)

	assert.NotNil(t, c.Loader)
	assert.NotNil(t, c.TestService)
	assert.NotNil(t, c.Profiler)
	assert.NotNil(t, c.Sessions)
	assert.True(t, c.Evaluator.YatesCorrection)

	c.Start(context.Background())
	assert.NoError(t, c.Shutdown(context.Background()))
	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}
