package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sample is a single labeled feature vector.
type Sample struct {
	// ID identifies the sample within its dataset split. When empty on
	// insert, the store generates one.
	ID string

	// Label is the class of the sample.
	Label int64

	// Features is the feature vector. All samples of a split share its length.
	Features []float64
}

// Set is a split loaded as parallel slices: X[i] has label Y[i] and id IDs[i].
type Set struct {
	IDs []string
	X   [][]float64
	Y   []int64
}

// Len returns the number of samples.
func (s *Set) Len() int { return len(s.X) }

// Dim returns the feature dimension, 0 for an empty set.
func (s *Set) Dim() int {
	if len(s.X) == 0 {
		return 0
	}
	return len(s.X[0])
}

// Neighbor is a stored sample ranked by distance to a query.
type Neighbor struct {
	ID       string
	Label    int64
	Distance float64
}

// SQLiteStore keeps samples in the samples table, grouped by dataset id and
// split name (e.g. "train", "test").
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed store. It ensures the samples
// schema exists in the provided database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("dataset: db is nil")
	}
	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// AddSamples upserts samples into a dataset split and returns their ids in
// input order. Every sample must have the dimension of the samples already
// stored in the split.
func (s *SQLiteStore) AddSamples(ctx context.Context, datasetID, split string, samples []Sample) ([]string, error) {
	if len(samples) == 0 {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	dim, err := storedDim(ctx, tx, datasetID, split)
	if err != nil {
		return nil, err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO samples(dataset_id, split, id, label, features)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(dataset_id, split, id) DO UPDATE SET
  label = excluded.label,
  features = excluded.features`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	ids := make([]string, 0, len(samples))
	for i, sample := range samples {
		if len(sample.Features) == 0 {
			return nil, fmt.Errorf("dataset: sample %d has no features", i)
		}
		if dim == 0 {
			dim = len(sample.Features)
		}
		if len(sample.Features) != dim {
			return nil, fmt.Errorf("dataset: sample %d has dimension %d, split %s/%s has %d", i, len(sample.Features), datasetID, split, dim)
		}
		blob, err := EncodeFeatures(sample.Features)
		if err != nil {
			return nil, err
		}
		id := sample.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, datasetID, split, id, sample.Label, blob); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

func storedDim(ctx context.Context, tx *sql.Tx, datasetID, split string) (int, error) {
	var size int
	err := tx.QueryRowContext(ctx, `SELECT length(features) FROM samples WHERE dataset_id = ? AND split = ? LIMIT 1`, datasetID, split).Scan(&size)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return size / 4, nil
}

// Load returns all samples of a split in insertion order.
func (s *SQLiteStore) Load(ctx context.Context, datasetID, split string) (*Set, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, label, features FROM samples WHERE dataset_id = ? AND split = ? ORDER BY rowid`, datasetID, split)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := &Set{}
	for rows.Next() {
		var id string
		var label int64
		var blob []byte
		if err := rows.Scan(&id, &label, &blob); err != nil {
			return nil, err
		}
		features, err := DecodeFeatures(blob)
		if err != nil {
			return nil, fmt.Errorf("dataset: sample %s: %w", id, err)
		}
		if set.Len() > 0 && len(features) != set.Dim() {
			return nil, fmt.Errorf("dataset: sample %s has dimension %d, want %d", id, len(features), set.Dim())
		}
		set.IDs = append(set.IDs, id)
		set.X = append(set.X, features)
		set.Y = append(set.Y, label)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return set, nil
}

// Count returns the number of samples in a split.
func (s *SQLiteStore) Count(ctx context.Context, datasetID, split string) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM samples WHERE dataset_id = ? AND split = ?`, datasetID, split).Scan(&n)
	return n, err
}

// Splits returns the split names stored for a dataset, sorted by name.
func (s *SQLiteStore) Splits(ctx context.Context, datasetID string) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT split FROM samples WHERE dataset_id = ? ORDER BY split`, datasetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var split string
		if err := rows.Scan(&split); err != nil {
			return nil, err
		}
		out = append(out, split)
	}
	return out, rows.Err()
}

// Remove deletes a sample by id.
func (s *SQLiteStore) Remove(ctx context.Context, datasetID, split, id string) error {
	if id == "" {
		return fmt.Errorf("dataset: Remove called with empty id")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM samples WHERE dataset_id = ? AND split = ? AND id = ?`, datasetID, split, id)
	return err
}

// DropSplit deletes every sample of a split and returns how many were removed.
func (s *SQLiteStore) DropSplit(ctx context.Context, datasetID, split string) (int64, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM samples WHERE dataset_id = ? AND split = ?`, datasetID, split)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Neighbors scans a split in SQL and returns its k samples closest to query,
// nearest first. Equal distances keep insertion order. It requires
// engine.RegisterDistanceFunctions to have been called before the database
// connection was opened.
func (s *SQLiteStore) Neighbors(ctx context.Context, datasetID, split string, query []float64, k int) ([]Neighbor, error) {
	if k <= 0 {
		return nil, fmt.Errorf("dataset: k must be positive, got %d", k)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	blob, err := EncodeFeatures(query)
	if err != nil {
		return nil, err
	}
	if blob == nil {
		return nil, fmt.Errorf("dataset: empty query")
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, label, knn_l2(features, ?) AS distance
FROM samples
WHERE dataset_id = ? AND split = ?
ORDER BY distance, rowid
LIMIT ?`, blob, datasetID, split, k)
	if err != nil {
		return nil, fmt.Errorf("dataset: neighbor scan failed: %w", err)
	}
	defer rows.Close()

	var out []Neighbor
	for rows.Next() {
		var n Neighbor
		if err := rows.Scan(&n.ID, &n.Label, &n.Distance); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dataset: neighbor scan failed: %w", err)
	}
	return out, nil
}
