// Package table is the generic columnar interchange structure handed to
// plotting and external tooling: named columns and parallel rows of values.
package table

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Table holds one row per time point or per aggregate point.
// When Labels is non-nil it carries one string label per row (e.g. a run id
// or group key) and is emitted as the first column.
type Table struct {
	Columns []string
	Labels  []string
	Rows    [][]float64
}

func New(columns ...string) *Table {
	return &Table{Columns: columns}
}

func (t *Table) AddRow(vals ...float64) {
	t.Rows = append(t.Rows, vals)
}

func (t *Table) AddLabeledRow(label string, vals ...float64) {
	t.Labels = append(t.Labels, label)
	t.Rows = append(t.Rows, vals)
}

// WriteTSV writes the table as tab separated text, one header line followed
// by one line per row. Missing values render as "-".
func (t *Table) WriteTSV(w io.Writer) error {
	for i, c := range t.Columns {
		if i > 0 || t.Labels != nil {
			if _, err := io.WriteString(w, "\t"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, c); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("table: row %d has %d values, want %d", i, len(row), len(t.Columns))
		}
		var buf bytes.Buffer
		if t.Labels != nil {
			buf.WriteString(t.Labels[i])
			buf.WriteByte('\t')
		}
		for j, v := range row {
			if j > 0 {
				buf.WriteByte('\t')
			}
			if math.IsNaN(v) {
				buf.WriteByte('-')
			} else {
				buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
			}
		}
		buf.WriteByte('\n')
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) String() string {
	var buf bytes.Buffer
	t.WriteTSV(&buf)
	return buf.String()
}
