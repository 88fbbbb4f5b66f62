// Package evaluate scores knn predictions and selects the neighbor count k
// by k-fold cross-validation.
package evaluate
