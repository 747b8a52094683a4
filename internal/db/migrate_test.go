package db

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfluence/backend/migrations"
)

func TestPendingOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_reviews.up.sql":  {Data: []byte("SELECT 1")},
		"0001_init.up.sql":     {Data: []byte("SELECT 1")},
		"0001_init.down.sql":   {Data: []byte("SELECT 1")},
		"README.md":            {Data: []byte("docs")},
		"nested/0003_x.up.sql": {Data: []byte("SELECT 1")},
	}

	files, err := PendingOrder(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.up.sql", "0002_reviews.up.sql"}, files)
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	files, err := PendingOrder(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "0001_init.up.sql", files[0])
}
