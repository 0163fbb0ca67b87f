package history

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMissingFile(t *testing.T) {
	h, err := Open(filepath.Join(t.TempDir(), "recent.json"), nil)
	require.NoError(t, err)
	assert.Empty(t, h.List())
}

func TestOpenMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recent.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

	h, err := Open(path, nil)
	require.NoError(t, err)
	assert.Empty(t, h.List())
}

func TestAddOrderAndDedup(t *testing.T) {
	h, err := Open(filepath.Join(t.TempDir(), "recent.json"), nil)
	require.NoError(t, err)

	require.NoError(t, h.Add("/p/a"))
	require.NoError(t, h.Add("/p/b"))
	require.NoError(t, h.Add("/p/c"))
	require.NoError(t, h.Add("/p/a"))

	assert.Equal(t, []string{"/p/a", "/p/c", "/p/b"}, h.List())
}

func TestAddCapsAtMax(t *testing.T) {
	h, err := Open(filepath.Join(t.TempDir(), "recent.json"), nil)
	require.NoError(t, err)

	for i := 0; i < MaxEntries+2; i++ {
		require.NoError(t, h.Add(fmt.Sprintf("/p/%02d", i)))
	}
	got := h.List()
	require.Len(t, got, MaxEntries)
	assert.Equal(t, fmt.Sprintf("/p/%02d", MaxEntries+1), got[0])
	assert.NotContains(t, got, "/p/00")
	assert.NotContains(t, got, "/p/01")
}

func TestAddIgnoresEmpty(t *testing.T) {
	h, err := Open(filepath.Join(t.TempDir(), "recent.json"), nil)
	require.NoError(t, err)
	require.NoError(t, h.Add(""))
	assert.Empty(t, h.List())
}

func TestPersistAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recent.json")
	h, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, h.Add("/p/one"))
	require.NoError(t, h.Add("/p/two"))

	again, err := Open(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"/p/two", "/p/one"}, again.List())
}

func TestAddMakesRelativePathsAbsolute(t *testing.T) {
	h, err := Open(filepath.Join(t.TempDir(), "recent.json"), nil)
	require.NoError(t, err)
	require.NoError(t, h.Add("rel/dir"))

	got := h.List()
	require.Len(t, got, 1)
	assert.True(t, filepath.IsAbs(got[0]))
}
