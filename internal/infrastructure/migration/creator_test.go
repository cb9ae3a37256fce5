package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add lots table", "add_lots_table"},
		{"Add-Lots-Table", "add_lots_table"},
		{"ADD_LOTS_TABLE", "add_lots_table"},
		{"add__lots__table", "add_lots_table"},
		{"Add Index 123", "add_index_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func writeMigration(t *testing.T, dir, base string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, base+".up.sql"), []byte("-- up"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, base+".down.sql"), []byte("-- down"), 0o644))
}

func TestCreateMigration(t *testing.T) {
	root := t.TempDir()
	writeMigration(t, Dir(root, "postgres"), "000001_create_coc_tables")
	writeMigration(t, Dir(root, "postgres"), "000002_add_indexes")
	writeMigration(t, Dir(root, "mysql"), "000001_create_coc_tables")

	files, err := CreateMigration(root, []string{"postgres", "mysql"}, "Add Sync Audit", "Track sync runs")
	require.NoError(t, err)
	require.Len(t, files, 2)

	for _, mf := range files {
		assert.Equal(t, "000003", mf.Version)
		assert.Equal(t, filepath.Join(root, mf.Dialect, "000003_add_sync_audit.up.sql"), mf.UpPath)
		assert.Equal(t, filepath.Join(root, mf.Dialect, "000003_add_sync_audit.down.sql"), mf.DownPath)

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "Add Sync Audit ("+mf.Dialect+")")
		assert.Contains(t, string(up), "Track sync runs")

		down, err := os.ReadFile(mf.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(down), "rollback")
	}
}

func TestCreateMigration_Errors(t *testing.T) {
	root := t.TempDir()

	_, err := CreateMigration(root, nil, "x", "")
	assert.Error(t, err)

	_, err = CreateMigration(root, []string{"postgres"}, "!!!", "")
	assert.Error(t, err)
}

func TestCreateMigration_StartsAtOne(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested")

	files, err := CreateMigration(root, []string{"postgres"}, "init", "")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "000001", files[0].Version)

	info, err := os.Stat(Dir(root, "postgres"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "000002_add_indexes")
	writeMigration(t, dir, "000001_create_coc_tables")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("docs"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "000003_not_a_file.up.sql"), 0o755))

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_create_coc_tables", "000002_add_indexes"}, migrations)
}

func TestListMigrations_NonexistentDirectory(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}
