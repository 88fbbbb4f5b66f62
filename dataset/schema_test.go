package dataset

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/viant/sqlite-knn/engine"
)

// TestEnsureSchema verifies that EnsureSchema creates the samples table
// without error on a fresh in-memory database and is idempotent.
func TestEnsureSchema(t *testing.T) {
	db, err := engine.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	require.NoError(t, EnsureSchema(db))
	require.NoError(t, EnsureSchema(db))

	_, err = db.Exec(`INSERT INTO samples(dataset_id, split, id, label, features) VALUES('d', 'train', '1', 3, X'0000803F')`)
	require.NoError(t, err)
}
