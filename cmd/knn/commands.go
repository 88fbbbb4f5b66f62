package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/viant/sqlite-knn/dataset"
	"github.com/viant/sqlite-knn/evaluate"
	"github.com/viant/sqlite-knn/knn"
)

// agreementTolerance bounds the Frobenius norm of the difference between two
// strategies' distance matrices.
const agreementTolerance = 1e-3

func importFlags(fs *flag.FlagSet) func(context.Context, *env) error {
	split := fs.String("split", "", "target split (defaults to the configured train split)")
	csvPath := fs.String("csv", "", "CSV file with rows label,f1,...,fD")
	replace := fs.Bool("replace", false, "drop the split before importing")
	return func(ctx context.Context, e *env) error {
		if *csvPath == "" {
			return fmt.Errorf("import: -csv is required")
		}
		target := *split
		if target == "" {
			target = e.cfg.TrainSplit
		}
		f, err := os.Open(*csvPath)
		if err != nil {
			return err
		}
		defer f.Close()
		samples, err := dataset.ReadCSV(f)
		if err != nil {
			return err
		}
		if *replace {
			dropped, err := e.store.DropSplit(ctx, e.cfg.Dataset, target)
			if err != nil {
				return err
			}
			e.logger.Info("split dropped", "split", target, "samples", dropped)
		}
		ids, err := e.store.AddSamples(ctx, e.cfg.Dataset, target, samples)
		if err != nil {
			return err
		}
		total, err := e.store.Count(ctx, e.cfg.Dataset, target)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "imported %d samples into %s/%s (%d total)\n", len(ids), e.cfg.Dataset, target, total)
		return nil
	}
}

func predictFlags(fs *flag.FlagSet) func(context.Context, *env) error {
	return func(ctx context.Context, e *env) error {
		train, err := e.load(ctx, e.cfg.TrainSplit)
		if err != nil {
			return err
		}
		test, err := e.load(ctx, e.cfg.TestSplit)
		if err != nil {
			return err
		}
		c := knn.New[int64](e.options...)
		if err := c.Train(train.X, train.Y); err != nil {
			return err
		}
		pred, err := c.Predict(test.X, e.cfg.Strategy, e.cfg.K)
		if err != nil {
			return err
		}
		acc, err := evaluate.Accuracy(test.Y, pred)
		if err != nil {
			return err
		}
		correct := int(math.Round(acc * float64(test.Len())))
		e.logger.WithStrategy(e.cfg.Strategy).WithK(e.cfg.K).Info("prediction finished", "accuracy", acc)
		fmt.Fprintf(e.out, "got %d / %d correct => accuracy: %f\n", correct, test.Len(), acc)
		return nil
	}
}

func compareFlags(fs *flag.FlagSet) func(context.Context, *env) error {
	return func(ctx context.Context, e *env) error {
		train, err := e.load(ctx, e.cfg.TrainSplit)
		if err != nil {
			return err
		}
		test, err := e.load(ctx, e.cfg.TestSplit)
		if err != nil {
			return err
		}
		c := knn.New[int64](e.options...)
		if err := c.Train(train.X, train.Y); err != nil {
			return err
		}

		reference, err := c.ComputeDistances(knn.TwoLoop, test.X)
		if err != nil {
			return err
		}
		disagree := 0
		for _, s := range knn.Strategies {
			start := time.Now()
			dists, err := c.ComputeDistances(s, test.X)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)
			diff := frobeniusDiff(reference, dists)
			verdict := "same"
			if diff >= agreementTolerance {
				verdict = "different"
				disagree++
			}
			fmt.Fprintf(e.out, "%-9s took %v, difference %g (%s)\n", s, elapsed, diff, verdict)
		}
		if disagree > 0 {
			return fmt.Errorf("compare: %d strategies disagree with %s", disagree, knn.TwoLoop)
		}
		return nil
	}
}

func crossvalFlags(fs *flag.FlagSet) func(context.Context, *env) error {
	return func(ctx context.Context, e *env) error {
		train, err := e.load(ctx, e.cfg.TrainSplit)
		if err != nil {
			return err
		}
		results, err := evaluate.CrossValidate(train.X, train.Y, e.cfg.Folds, e.cfg.Ks, e.cfg.Strategy, e.options...)
		if err != nil {
			return err
		}
		summaries := evaluate.Summarize(results)
		for _, s := range summaries {
			for _, acc := range results[s.K] {
				fmt.Fprintf(e.out, "k = %d, accuracy = %f\n", s.K, acc)
			}
		}
		for _, s := range summaries {
			fmt.Fprintf(e.out, "k = %d, mean = %f, std = %f\n", s.K, s.Mean, s.StdDev)
		}
		best, mean := evaluate.BestK(results)
		e.logger.WithStrategy(e.cfg.Strategy).Info("cross-validation finished", "best_k", best, "mean_accuracy", mean)
		fmt.Fprintf(e.out, "best k = %d (mean accuracy %f)\n", best, mean)
		return nil
	}
}

// frobeniusDiff returns the Frobenius norm of a-b. Matrices of different shape
// are infinitely far apart.
func frobeniusDiff(a, b [][]float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return math.Inf(1)
		}
		d := floats.Distance(a[i], b[i], 2)
		sum += d * d
	}
	return math.Sqrt(sum)
}
