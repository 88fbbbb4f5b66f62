// Package config loads the YAML configuration of the knn command.
//
// Example:
//
//	db: knn.db
//	dataset: iris
//	trainSplit: train
//	testSplit: test
//	strategy: zero-loop
//	k: 5
//	folds: 5
//	ks: [1, 3, 5, 8, 10, 12, 15, 20, 50, 100]
//	logLevel: info
//	logFormat: text
package config
