package evaluate

import (
	"cmp"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/viant/sqlite-knn/knn"
)

// Fold is the half-open index range [Start, End) held out in one round.
type Fold struct {
	Start, End int
}

// KFold partitions [0, n) into folds contiguous ranges. The first n%folds
// folds receive one extra index.
func KFold(n, folds int) ([]Fold, error) {
	if folds < 2 || folds > n {
		return nil, fmt.Errorf("evaluate: folds must be in [2, %d], got %d", n, folds)
	}
	out := make([]Fold, folds)
	size, extra := n/folds, n%folds
	start := 0
	for i := range out {
		end := start + size
		if i < extra {
			end++
		}
		out[i] = Fold{Start: start, End: end}
		start = end
	}
	return out, nil
}

// CrossValidate runs k-fold cross-validation for every candidate k and
// returns the per-fold accuracies keyed by k. Each round trains on all folds
// but one and scores the held-out fold. A candidate k larger than a round's
// training set fails the whole run.
func CrossValidate[L cmp.Ordered](X [][]float64, y []L, folds int, ks []int, strategy knn.Strategy, opts ...knn.Option) (map[int][]float64, error) {
	if len(X) != len(y) {
		return nil, &knn.ErrLabelCount{Vectors: len(X), Labels: len(y)}
	}
	if len(ks) == 0 {
		return nil, fmt.Errorf("evaluate: no candidate k")
	}
	parts, err := KFold(len(X), folds)
	if err != nil {
		return nil, err
	}

	results := make(map[int][]float64, len(ks))
	c := knn.New[L](opts...)
	for _, fold := range parts {
		trainX := slices.Concat(X[:fold.Start], X[fold.End:])
		trainY := slices.Concat(y[:fold.Start], y[fold.End:])
		if err := c.Train(trainX, trainY); err != nil {
			return nil, err
		}
		// Distances do not depend on k, so compute them once per fold.
		dists, err := c.ComputeDistances(strategy, X[fold.Start:fold.End])
		if err != nil {
			return nil, err
		}
		for _, k := range ks {
			pred, err := c.PredictLabels(dists, k)
			if err != nil {
				return nil, fmt.Errorf("evaluate: fold [%d, %d): %w", fold.Start, fold.End, err)
			}
			acc, err := Accuracy(y[fold.Start:fold.End], pred)
			if err != nil {
				return nil, err
			}
			results[k] = append(results[k], acc)
		}
	}
	return results, nil
}

// BestK returns the k with the highest mean accuracy; ties go to the
// smaller k. It returns 0 for empty results.
func BestK(results map[int][]float64) (k int, mean float64) {
	ks := make([]int, 0, len(results))
	for candidate := range results {
		ks = append(ks, candidate)
	}
	slices.Sort(ks)
	for _, candidate := range ks {
		m := stat.Mean(results[candidate], nil)
		if k == 0 || m > mean {
			k, mean = candidate, m
		}
	}
	return k, mean
}

// Summary holds the mean and standard deviation of one candidate's fold
// accuracies.
type Summary struct {
	K      int
	Mean   float64
	StdDev float64
}

// Summarize returns one Summary per candidate k, ordered by k.
func Summarize(results map[int][]float64) []Summary {
	out := make([]Summary, 0, len(results))
	for k, accs := range results {
		mean, std := stat.MeanStdDev(accs, nil)
		out = append(out, Summary{K: k, Mean: mean, StdDev: std})
	}
	slices.SortFunc(out, func(a, b Summary) int { return cmp.Compare(a.K, b.K) })
	return out
}
