package features

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"titanic/internal/data"
)

const (
	ColID       = "PassengerId"
	ColLabel    = "Survived"
	ColSex      = "Sex"
	ColAge      = "Age"
	ColFare     = "Fare"
	ColCabin    = "Cabin"
	ColEmbarked = "Embarked"

	// CabinSentinel stands for an unknown cabin before it is cut to its deck letter.
	CabinSentinel = "U"
)

var ErrMissingColumn = errors.New("coluna obrigatória ausente")

var (
	encoded  = []string{ColSex, ColEmbarked, ColCabin}
	dropped  = []string{"Name", "Ticket", ColID}
	required = []string{ColSex, ColAge, ColFare, ColCabin, ColEmbarked}
)

// Table is a numeric feature table. Booleans are stored as 0 and 1.
type Table struct {
	Columns []string
	Rows    [][]float64
}

func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func (t *Table) Column(name string) ([]float64, bool) {
	j := t.Index(name)
	if j < 0 {
		return nil, false
	}
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[j]
	}
	return out, true
}

// Pop removes the named column from t and returns its values.
func (t *Table) Pop(name string) ([]float64, bool) {
	vals, ok := t.Column(name)
	if !ok {
		return nil, false
	}
	j := t.Index(name)
	t.Columns = append(t.Columns[:j:j], t.Columns[j+1:]...)
	for i, row := range t.Rows {
		t.Rows[i] = append(row[:j:j], row[j+1:]...)
	}
	return vals, true
}

// Options tunes Preprocess. A nil Schema means training mode: the column set
// is whatever the batch produces. A nil Stats means imputation values are
// computed from the batch itself.
type Options struct {
	Schema ColumnSchema
	Stats  *Stats
}

// Preprocess turns raw passenger records into a feature table. With a schema
// the result always carries exactly the schema columns, in schema order.
func Preprocess(raw *data.Table, schema ColumnSchema) (*Table, error) {
	return PreprocessWith(raw, Options{Schema: schema})
}

func PreprocessWith(raw *data.Table, opts Options) (*Table, error) {
	if raw == nil {
		return nil, data.ErrEmptyTable
	}
	for _, c := range required {
		if raw.Index(c) < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}

	var ageFill, fareFill *float64
	var embarkedFill string
	if opts.Stats != nil {
		ageFill, fareFill = &opts.Stats.AgeMedian, &opts.Stats.FareMedian
		embarkedFill = opts.Stats.EmbarkedMode
	}

	numeric := map[string][]float64{}
	var errs error
	ageVals, _ := raw.Column(ColAge)
	if v, err := imputeMedian(ColAge, ageVals, ageFill); err != nil {
		errs = multierr.Append(errs, err)
	} else {
		numeric[ColAge] = v
	}
	fareVals, _ := raw.Column(ColFare)
	if v, err := imputeMedian(ColFare, fareVals, fareFill); err != nil {
		errs = multierr.Append(errs, err)
	} else {
		numeric[ColFare] = v
	}

	categorical := map[string][]string{}
	embVals, _ := raw.Column(ColEmbarked)
	if v, err := imputeMode(ColEmbarked, embVals, embarkedFill); err != nil {
		errs = multierr.Append(errs, err)
	} else {
		categorical[ColEmbarked] = v
	}
	cabinVals, _ := raw.Column(ColCabin)
	categorical[ColCabin] = deckLetters(cabinVals)
	sexVals, _ := raw.Column(ColSex)
	categorical[ColSex] = sexVals

	var inSchema map[string]struct{}
	if opts.Schema != nil {
		inSchema = make(map[string]struct{}, len(opts.Schema))
		for _, c := range opts.Schema {
			inSchema[c] = struct{}{}
		}
	}

	out := &Table{Rows: make([][]float64, raw.Len())}
	var cols [][]float64
	for _, h := range raw.Header {
		if contains(encoded, h) || contains(dropped, h) {
			continue
		}
		if inSchema != nil {
			if _, ok := inSchema[h]; !ok {
				continue
			}
		}
		vals, ok := numeric[h]
		if !ok && (h == ColAge || h == ColFare) {
			continue
		}
		if !ok {
			cells, _ := raw.Column(h)
			nums, missing, err := parseNumeric(h, cells)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			if len(missing) > 0 {
				errs = multierr.Append(errs, fmt.Errorf("coluna %s: %d valores ausentes sem regra de imputação", h, len(missing)))
				continue
			}
			vals = nums
		}
		out.Columns = append(out.Columns, h)
		cols = append(cols, vals)
	}
	if errs != nil {
		return nil, errs
	}

	for _, group := range encoded {
		names, dummies := oneHotDropFirst(group, categorical[group])
		out.Columns = append(out.Columns, names...)
		cols = append(cols, dummies...)
	}

	for i := range out.Rows {
		row := make([]float64, len(cols))
		for j, c := range cols {
			row[j] = c[i]
		}
		out.Rows[i] = row
	}

	if opts.Schema == nil {
		return out, nil
	}
	return Reconcile(out, opts.Schema)
}

// deckLetters replaces missing cabins with the sentinel and keeps the first character.
func deckLetters(vals []string) []string {
	out := make([]string, len(vals))
	for i, s := range vals {
		s = strings.TrimSpace(s)
		if data.IsMissing(s) {
			s = CabinSentinel
		}
		out[i] = string([]rune(s)[:1])
	}
	return out
}

// oneHotDropFirst encodes vals as one 0/1 column per observed category except
// the alphabetically first one. Missing cells encode as all zeros.
func oneHotDropFirst(group string, vals []string) ([]string, [][]float64) {
	seen := map[string]struct{}{}
	for _, v := range vals {
		if data.IsMissing(v) {
			continue
		}
		seen[strings.TrimSpace(v)] = struct{}{}
	}
	cats := make([]string, 0, len(seen))
	for c := range seen {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	if len(cats) <= 1 {
		return nil, nil
	}
	cats = cats[1:]
	names := make([]string, len(cats))
	cols := make([][]float64, len(cats))
	for k, c := range cats {
		names[k] = group + "_" + c
		col := make([]float64, len(vals))
		for i, v := range vals {
			if strings.TrimSpace(v) == c {
				col[i] = 1
			}
		}
		cols[k] = col
	}
	return names, cols
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
