// Package knn implements a k-nearest-neighbors classifier over dense float64
// feature vectors. Training memorizes the labeled rows; prediction computes
// the Euclidean distance matrix between query and training rows and takes a
// majority vote among the k closest training rows.
//
// Three interchangeable strategies compute the same distance matrix:
//   - TwoLoop: explicit iteration over every (query, train) pair
//   - OneLoop: one pass over the queries, broadcasting each against all training rows
//   - ZeroLoop: fully vectorized via ‖a−b‖² = ‖a‖² + ‖b‖² − 2a·b (default)
//
// Voting breaks ties between equally frequent labels in favour of the smaller
// label.
package knn
