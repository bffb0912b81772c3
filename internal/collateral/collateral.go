package collateral

import (
	"fmt"
	"math"
	"sort"
)

// Table holds the fixed per-category collateral data vectors and the
// weights applied to them. Both are loaded from configuration once at
// startup and treated as immutable afterwards.
type Table struct {
	data    map[string][]float64
	weights []float64
}

// NewTable builds a Table after checking every data vector matches the
// weights vector in length.
func NewTable(data map[string][]float64, weights []float64) (*Table, error) {
	for category, values := range data {
		if len(values) != len(weights) {
			return nil, fmt.Errorf("collateral category %s: %d values for %d weights", category, len(values), len(weights))
		}
	}
	return &Table{data: data, weights: weights}, nil
}

// Categories returns the known category names in sorted order.
func (t *Table) Categories() []string {
	names := make([]string, 0, len(t.data))
	for category := range t.data {
		names = append(names, category)
	}
	sort.Strings(names)
	return names
}

// Has reports whether the category exists in the table.
func (t *Table) Has(category string) bool {
	_, ok := t.data[category]
	return ok
}

// WeightedAverage returns the dot product of a category's data vector
// with the weights vector, rounded to 2 decimals. This is the recovery
// rate used when deriving loss-given-default.
func (t *Table) WeightedAverage(category string) (float64, error) {
	values, ok := t.data[category]
	if !ok {
		return 0, fmt.Errorf("unknown collateral category: %s", category)
	}
	var total float64
	for i, v := range values {
		total += v * t.weights[i]
	}
	return math.Round(total*100) / 100, nil
}
