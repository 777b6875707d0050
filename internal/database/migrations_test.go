package database

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidlu/backend/internal/config"
)

func TestMigrationFiles_SortedSQLOnly(t *testing.T) {
	fsys := fstest.MapFS{
		"002_b.sql": {Data: []byte("SELECT 2")},
		"001_a.sql": {Data: []byte("SELECT 1")},
		"README.md": {Data: []byte("docs")},
		"010_c.sql": {Data: []byte("SELECT 10")},
		"sub/x.sql": {Data: []byte("ignored")},
	}

	files, err := migrationFiles(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_a.sql", "002_b.sql", "010_c.sql"}, files)
}

func TestNewPool_EmptyURLIsDisabled(t *testing.T) {
	pool, err := NewPool(context.Background(), config.DatabaseConfig{})
	require.NoError(t, err)
	assert.Nil(t, pool)
}

func TestNewPool_BadURL(t *testing.T) {
	_, err := NewPool(context.Background(), config.DatabaseConfig{URL: "::not a url"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse database URL")
}
