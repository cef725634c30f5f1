package classifier

import (
	"fmt"
)

// NumericColumn standardises a numeric input: (x - Mean) / Scale.
type NumericColumn struct {
	Name  string  `json:"name"`
	Mean  float64 `json:"mean"`
	Scale float64 `json:"scale"`
}

// CategoricalColumn one-hot encodes a string input over the fitted categories.
type CategoricalColumn struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

// Preprocessor turns a Row into the feature vector the estimator was fitted
// on. Numeric columns come first, then the one-hot blocks in column order.
type Preprocessor struct {
	Numeric     []NumericColumn     `json:"numeric"`
	Categorical []CategoricalColumn `json:"categorical"`
}

// NumFeatures returns the width of the encoded vector.
func (p *Preprocessor) NumFeatures() int {
	n := len(p.Numeric)
	for _, c := range p.Categorical {
		n += len(c.Categories)
	}
	return n
}

// Transform encodes a row. Unknown categories and missing columns are errors.
func (p *Preprocessor) Transform(row Row) ([]float64, error) {
	x := make([]float64, 0, p.NumFeatures())

	for _, col := range p.Numeric {
		v, ok := row.Numeric[col.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col.Name)
		}
		x = append(x, (v-col.Mean)/col.Scale)
	}

	for _, col := range p.Categorical {
		v, ok := row.Categorical[col.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col.Name)
		}
		found := false
		for _, c := range col.Categories {
			if c == v {
				x = append(x, 1)
				found = true
			} else {
				x = append(x, 0)
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s=%q (fitted on %v)", ErrUnknownCategory, col.Name, v, col.Categories)
		}
	}

	return x, nil
}

func (p *Preprocessor) validate() error {
	if p.NumFeatures() == 0 {
		return fmt.Errorf("%w: preprocessor has no columns", ErrIncompatible)
	}
	seen := make(map[string]bool)
	for _, col := range p.Numeric {
		if col.Name == "" || seen[col.Name] {
			return fmt.Errorf("%w: invalid or duplicate numeric column %q", ErrIncompatible, col.Name)
		}
		seen[col.Name] = true
		if col.Scale <= 0 {
			return fmt.Errorf("%w: column %s has non-positive scale %v", ErrIncompatible, col.Name, col.Scale)
		}
	}
	for _, col := range p.Categorical {
		if col.Name == "" || seen[col.Name] {
			return fmt.Errorf("%w: invalid or duplicate categorical column %q", ErrIncompatible, col.Name)
		}
		seen[col.Name] = true
		if len(col.Categories) == 0 {
			return fmt.Errorf("%w: column %s has no categories", ErrIncompatible, col.Name)
		}
		cats := make(map[string]bool, len(col.Categories))
		for _, c := range col.Categories {
			if cats[c] {
				return fmt.Errorf("%w: column %s repeats category %q", ErrIncompatible, col.Name, c)
			}
			cats[c] = true
		}
	}
	return nil
}
