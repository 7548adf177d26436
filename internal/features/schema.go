package features

import (
	"fmt"
	"strings"
)

// ColumnSchema is the ordered list of feature columns a model was trained on.
// Column position carries the meaning of each model input, so two schemas are
// only equal when names, order and count all match.
type ColumnSchema []string

func (s ColumnSchema) Equal(cols []string) bool {
	if len(s) != len(cols) {
		return false
	}
	for i := range s {
		if s[i] != cols[i] {
			return false
		}
	}
	return true
}

// Diff returns the schema columns absent from cols and the cols unknown to the schema.
func (s ColumnSchema) Diff(cols []string) (missing, extra []string) {
	have := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		have[c] = struct{}{}
	}
	want := make(map[string]struct{}, len(s))
	for _, c := range s {
		want[c] = struct{}{}
		if _, ok := have[c]; !ok {
			missing = append(missing, c)
		}
	}
	for _, c := range cols {
		if _, ok := want[c]; !ok {
			extra = append(extra, c)
		}
	}
	return missing, extra
}

func (s ColumnSchema) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for i, c := range s {
		if c == "" {
			return &SchemaMismatchError{Expected: s, Reason: fmt.Sprintf("coluna vazia na posição %d", i)}
		}
		if _, dup := seen[c]; dup {
			return &SchemaMismatchError{Expected: s, Reason: "coluna duplicada " + c}
		}
		seen[c] = struct{}{}
	}
	return nil
}

// SchemaMismatchError reports a feature table that cannot be, or was not,
// aligned to the trained column schema.
type SchemaMismatchError struct {
	Expected ColumnSchema
	Got      []string
	Reason   string
}

func (e *SchemaMismatchError) Error() string {
	var b strings.Builder
	b.WriteString("schema de colunas incompatível")
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Got != nil {
		missing, extra := e.Expected.Diff(e.Got)
		fmt.Fprintf(&b, " (esperado %d colunas, recebido %d", len(e.Expected), len(e.Got))
		if len(missing) > 0 {
			fmt.Fprintf(&b, "; ausentes %v", missing)
		}
		if len(extra) > 0 {
			fmt.Fprintf(&b, "; extras %v", extra)
		}
		b.WriteString(")")
	}
	return b.String()
}

// Reconcile adds zero-filled columns for every schema entry missing from t,
// drops columns unknown to the schema and reorders the rest to match it.
func Reconcile(t *Table, schema ColumnSchema) (*Table, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	pos := make([]int, len(schema))
	for j, c := range schema {
		pos[j] = t.Index(c)
	}
	out := &Table{Columns: append([]string(nil), schema...), Rows: make([][]float64, len(t.Rows))}
	for i, row := range t.Rows {
		r := make([]float64, len(schema))
		for j, p := range pos {
			if p >= 0 {
				r[j] = row[p]
			}
		}
		out.Rows[i] = r
	}
	return out, nil
}

// CheckAligned guards model input: t must carry exactly the schema columns.
func CheckAligned(t *Table, schema ColumnSchema) error {
	if schema.Equal(t.Columns) {
		return nil
	}
	return &SchemaMismatchError{Expected: schema, Got: append([]string(nil), t.Columns...), Reason: "tabela não reconciliada"}
}
