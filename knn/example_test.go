package knn_test

import (
	"fmt"

	"github.com/viant/sqlite-knn/knn"
)

func Example() {
	c := knn.New[string]()
	if err := c.Train([][]float64{{0, 0}, {10, 10}}, []string{"A", "B"}); err != nil {
		panic(err)
	}

	labels, err := c.Predict([][]float64{{0, 1}, {9, 9}}, knn.ZeroLoop, 1)
	if err != nil {
		panic(err)
	}
	fmt.Println(labels)

	// An even split between A and B resolves to the smaller label.
	labels, err = c.Predict([][]float64{{5, 5}}, knn.TwoLoop, 2)
	if err != nil {
		panic(err)
	}
	fmt.Println(labels)
	// Output:
	// [A B]
	// [A]
}
