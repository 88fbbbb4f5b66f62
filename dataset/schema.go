package dataset

import (
	"database/sql"
)

const samplesSchema = `
CREATE TABLE IF NOT EXISTS samples (
    dataset_id TEXT NOT NULL,
    split      TEXT NOT NULL,
    id         TEXT NOT NULL,
    label      INTEGER NOT NULL,
    features   BLOB NOT NULL,
    PRIMARY KEY(dataset_id, split, id)
);
`

// EnsureSchema creates the samples table in the provided database if it does
// not already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(samplesSchema)
	return err
}
