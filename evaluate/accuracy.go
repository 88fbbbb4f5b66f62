package evaluate

import "fmt"

// Accuracy returns the fraction of positions where yPred equals yTrue.
// Empty input yields 0.
func Accuracy[L comparable](yTrue, yPred []L) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, fmt.Errorf("evaluate: %d true labels but %d predictions", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return 0, nil
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}
