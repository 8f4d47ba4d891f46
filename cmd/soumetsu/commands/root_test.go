package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentRegistry(t *testing.T) {
	reg := componentRegistry()

	assert.Equal(t, []string{"fastapi"}, reg.Names())

	fn, err := reg.Resolve("fastapi")
	require.NoError(t, err)
	assert.NotNil(t, fn)
}

func TestComponentRegistryUnset(t *testing.T) {
	_, err := componentRegistry().Resolve("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Please set APP_COMPONENT")
	assert.Contains(t, err.Error(), "fastapi")
}

func TestComponentRegistryUnknown(t *testing.T) {
	_, err := componentRegistry().Resolve("bancho")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown APP_COMPONENT")
	assert.Contains(t, err.Error(), "bancho")
}
