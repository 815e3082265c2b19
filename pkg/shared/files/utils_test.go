package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := ExpandPath("~/reports")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "reports"), expanded)

	plain, err := ExpandPath("/tmp/reports")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/reports", plain)
}

func TestCreateFolderIfNotExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "folder")
	require.NoError(t, CreateFolderIfNotExists(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// A second call on an existing folder is a no-op.
	assert.NoError(t, CreateFolderIfNotExists(dir))
}

func TestWriteJsonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteJsonFile(path, []byte(`{"ok":true}`)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(data))
}
