// Package dataset stores labeled feature vectors in SQLite and loads them
// back as training or query matrices for the knn classifier. It includes:
//   - Sample and Set models
//   - SQLiteStore: durable storage of samples grouped by dataset and split
//   - Schema helpers to create the samples table
//   - Feature encoding (BLOB) and CSV import
package dataset
