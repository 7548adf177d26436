package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrEmptyTable = errors.New("tabela vazia: cabeçalho ausente")

// Table is a raw CSV table: a header plus string cells. Missing values are
// kept as they appear in the file (see IsMissing).
type Table struct {
	Header []string
	Rows   [][]string
}

func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func ParseCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}
	header := rows[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return &Table{Header: header, Rows: rows[1:]}, nil
}

// ParseRecords reads header-less CSV lines. Records with one field fewer than
// header are taken to lack the column named optional.
func ParseRecords(r io.Reader, header []string, optional string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	short := withoutColumn(header, optional)
	t := &Table{Rows: rows}
	for i, row := range rows {
		var h []string
		switch len(row) {
		case len(header):
			h = header
		case len(short):
			h = short
		default:
			return nil, fmt.Errorf("linha %d: %d campos, esperado %d ou %d", i+1, len(row), len(header), len(short))
		}
		if t.Header == nil {
			t.Header = append([]string(nil), h...)
		} else if len(t.Header) != len(h) {
			return nil, fmt.Errorf("linha %d: quantidade de campos diferente das linhas anteriores", i+1)
		}
	}
	if t.Header == nil {
		t.Header = append([]string(nil), short...)
	}
	return t, nil
}

// WriteCSV writes t to path, creating the parent directory when missing.
func WriteCSV(path string, t *Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write renders t as CSV. A nil header writes the rows alone.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if t.Header != nil {
		if err := cw.Write(t.Header); err != nil {
			return err
		}
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

func (t *Table) Len() int { return len(t.Rows) }

// Index returns the position of the named column or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

func (t *Table) Column(name string) ([]string, bool) {
	j := t.Index(name)
	if j < 0 {
		return nil, false
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[j]
	}
	return out, true
}

// Clone deep-copies t so callers can mutate cells freely.
func (t *Table) Clone() *Table {
	c := &Table{Header: append([]string(nil), t.Header...), Rows: make([][]string, len(t.Rows))}
	for i, row := range t.Rows {
		c.Rows[i] = append([]string(nil), row...)
	}
	return c
}

// IsMissing reports whether a cell holds no value.
func IsMissing(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "NA", "NaN", "nan", "null":
		return true
	}
	return false
}
