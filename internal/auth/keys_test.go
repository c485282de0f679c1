package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrGenerateKey_GeneratesAndReloads(t *testing.T) {
	dir := t.TempDir()

	key, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, key, 32)

	// The same key comes back on the next load.
	again, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, key, again)
}

func TestLoadOrGenerateKey_RejectsCorruptKeyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "auth.key"), []byte("short"), 0o600))

	_, err := LoadOrGenerateKey(dir)
	assert.Error(t, err)
}
