package features

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"titanic/internal/data"
)

var ErrNoObservations = errors.New("nenhum valor observado para imputação")

// Stats holds the imputation values of one batch. The trainer stores the
// training batch's Stats in the artifact; inference recomputes them per batch
// unless told to reuse the stored ones.
type Stats struct {
	AgeMedian    float64
	FareMedian   float64
	EmbarkedMode string
}

// ComputeStats computes medians of Age and Fare and the mode of Embarked over raw.
func ComputeStats(raw *data.Table) (Stats, error) {
	var s Stats
	var errs error
	for _, c := range []struct {
		name string
		dst  *float64
	}{{ColAge, &s.AgeMedian}, {ColFare, &s.FareMedian}} {
		vals, ok := raw.Column(c.name)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrMissingColumn, c.name))
			continue
		}
		nums, _, err := parseNumeric(c.name, vals)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if len(nums) == 0 {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrNoObservations, c.name))
			continue
		}
		*c.dst = median(nums)
	}
	vals, ok := raw.Column(ColEmbarked)
	if !ok {
		errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrMissingColumn, ColEmbarked))
	} else if m, found := mode(vals); found {
		s.EmbarkedMode = m
	} else {
		errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrNoObservations, ColEmbarked))
	}
	return s, errs
}

// imputeMedian parses a numeric column and fills its gaps with fill, or with
// the column's own median when fill is nil.
func imputeMedian(name string, vals []string, fill *float64) ([]float64, error) {
	nums, missing, err := parseNumeric(name, vals)
	if err != nil {
		return nil, err
	}
	if len(missing) == 0 {
		return expand(vals, nums, nil, 0), nil
	}
	var v float64
	switch {
	case fill != nil:
		v = *fill
	case len(nums) > 0:
		v = median(nums)
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoObservations, name)
	}
	return expand(vals, nums, missing, v), nil
}

// imputeMode fills the gaps of a categorical column with fill, or with the
// column's own mode when fill is empty.
func imputeMode(name string, vals []string, fill string) ([]string, error) {
	out := make([]string, len(vals))
	v := fill
	for i, s := range vals {
		if !data.IsMissing(s) {
			out[i] = strings.TrimSpace(s)
			continue
		}
		if v == "" {
			m, ok := mode(vals)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrNoObservations, name)
			}
			v = m
		}
		out[i] = v
	}
	return out, nil
}

// parseNumeric returns the observed values in row order and the indices of
// the missing ones. Unparseable cells are collected into one error.
func parseNumeric(name string, vals []string) (nums []float64, missing []int, err error) {
	nums = make([]float64, 0, len(vals))
	for i, s := range vals {
		if data.IsMissing(s) {
			missing = append(missing, i)
			continue
		}
		f, perr := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if perr != nil {
			err = multierr.Append(err, fmt.Errorf("coluna %s, linha %d: valor não numérico %q", name, i+1, s))
			continue
		}
		nums = append(nums, f)
	}
	return nums, missing, err
}

func expand(vals []string, nums []float64, missing []int, fill float64) []float64 {
	out := make([]float64, len(vals))
	k, m := 0, 0
	for i := range vals {
		if m < len(missing) && missing[m] == i {
			out[i] = fill
			m++
			continue
		}
		out[i] = nums[k]
		k++
	}
	return out
}

func median(x []float64) float64 {
	cp := append([]float64(nil), x...)
	sort.Float64s(cp)
	mid := len(cp) / 2
	if len(cp)%2 == 0 {
		return (cp[mid-1] + cp[mid]) / 2
	}
	return cp[mid]
}

// mode returns the most frequent observed value; ties go to the smallest one.
func mode(vals []string) (string, bool) {
	counts := map[string]int{}
	for _, s := range vals {
		if data.IsMissing(s) {
			continue
		}
		counts[strings.TrimSpace(s)]++
	}
	best, bestN := "", 0
	for v, n := range counts {
		if n > bestN || (n == bestN && v < best) {
			best, bestN = v, n
		}
	}
	return best, bestN > 0
}
