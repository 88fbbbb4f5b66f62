package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadCSV parses rows of the form label,f1,...,fD. A first row whose label
// cell is not an integer is treated as a header and skipped. Sample ids are
// the 1-based data row numbers.
func ReadCSV(r io.Reader) ([]Sample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var samples []Sample
	dim := 0
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: csv line %d: %w", line, err)
		}
		label, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("dataset: csv line %d: invalid label %q", line, record[0])
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("dataset: csv line %d: no features", line)
		}
		features := make([]float64, len(record)-1)
		for i, cell := range record[1:] {
			if features[i], err = strconv.ParseFloat(strings.TrimSpace(cell), 64); err != nil {
				return nil, fmt.Errorf("dataset: csv line %d: feature %d: %w", line, i, err)
			}
		}
		if dim == 0 {
			dim = len(features)
		}
		if len(features) != dim {
			return nil, fmt.Errorf("dataset: csv line %d: %d features, want %d", line, len(features), dim)
		}
		samples = append(samples, Sample{
			ID:       strconv.Itoa(len(samples) + 1),
			Label:    label,
			Features: features,
		})
	}
	return samples, nil
}
