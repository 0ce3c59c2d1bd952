package migrations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	assert.Equal(t, "001", Version("001_init.sql"))
	assert.Equal(t, "002", Version("/x/y/002_add_enrollments_index.sql"))
	assert.Equal(t, "plain.sql", Version("plain.sql"))
}

func TestPendingFilesSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"010_c.sql", "002_b.sql", "001_a.sql", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "003_dir.sql"), 0o755))

	files, err := PendingFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "001_a.sql"),
		filepath.Join(dir, "002_b.sql"),
		filepath.Join(dir, "010_c.sql"),
	}, files)
}
