// Package csvrow implements the CSV dialect used for data exchange: a field is
// quoted only when it contains a comma, quotes inside fields are never escaped,
// and rows are split on commas outside quoted cells.
//
// encoding/csv cannot produce or read this dialect byte-for-byte (it quotes
// fields containing quotes or newlines and doubles embedded quotes), so the
// codec is written by hand.
package csvrow

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Quote wraps v in double quotes if it contains a comma.
func Quote(v string) string {
	if strings.Contains(v, ",") {
		return `"` + v + `"`
	}
	return v
}

// CheckValue reports whether v would survive a Write/Parse round trip. Line
// breaks end a row, a leading quote opens a quoted cell, and a quote next to
// a comma can end one early.
func CheckValue(v string) error {
	switch {
	case strings.ContainsAny(v, "\r\n"):
		return errors.New("must not contain line breaks")
	case strings.HasPrefix(v, `"`):
		return errors.New("must not start with a double quote")
	case strings.Contains(v, `",`) || strings.Contains(v, `,"`):
		return errors.New("must not have a double quote next to a comma")
	}
	return nil
}

// Join quotes each field and joins them into one line.
func Join(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = Quote(f)
	}
	return strings.Join(quoted, ",")
}

// Split breaks a line on commas outside quoted cells. A cell is quoted when
// it starts with a double quote; it runs to the next quote that is followed by
// a comma or the end of the line. For every line produced by Join this matches
// splitting on commas followed by an even number of quotes, and it also keeps
// unbalanced quotes in unquoted cells (27" Monitor) intact. Cells are returned
// raw; see Unquote.
func Split(line string) []string {
	var cells []string
	start := 0
	for start <= len(line) {
		end := cellEnd(line, start)
		cells = append(cells, line[start:end])
		start = end + 1
	}
	return cells
}

// cellEnd returns the index of the comma ending the cell at start, or len(line).
func cellEnd(line string, start int) int {
	if start < len(line) && line[start] == '"' {
		for i := start + 1; i < len(line); i++ {
			if line[i] == '"' && (i+1 == len(line) || line[i+1] == ',') {
				return i + 1
			}
		}
	}
	if i := strings.IndexByte(line[start:], ','); i >= 0 {
		return start + i
	}
	return len(line)
}

// Unquote strips one pair of surrounding double quotes.
func Unquote(v string) string {
	if strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
		if len(v) < 2 {
			return ""
		}
		return v[1 : len(v)-1]
	}
	return v
}

// Row is one data row keyed by header name.
type Row struct {
	Line  int // 1-based, counting the header and skipping blank lines
	cells map[string]string
}

// Get returns the unquoted cell under header name, or "" if the row is short.
func (r Row) Get(name string) string {
	return r.cells[name]
}

// Has reports whether the row carried a cell for header name.
func (r Row) Has(name string) bool {
	_, ok := r.cells[name]
	return ok
}

// Table is a parsed file: its header and data rows.
type Table struct {
	Header []string
	Rows   []Row
}

// HasColumns reports whether every name appears in the header.
func (t *Table) HasColumns(names ...string) bool {
	set := make(map[string]bool, len(t.Header))
	for _, h := range t.Header {
		set[h] = true
	}
	for _, n := range names {
		if !set[n] {
			return false
		}
	}
	return true
}

// Parse reads a whole file. Blank lines are dropped, header cells are trimmed,
// and a file with only a header yields no rows.
func Parse(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	var lines []string
	for _, l := range strings.Split(string(data), "\n") {
		l = strings.TrimSuffix(l, "\r")
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return &Table{}, nil
	}

	header := strings.Split(lines[0], ",")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := &Table{Header: header}
	for i, l := range lines[1:] {
		values := Split(l)
		cells := make(map[string]string, len(header))
		for j, h := range header {
			if j < len(values) {
				cells[h] = Unquote(values[j])
			}
		}
		t.Rows = append(t.Rows, Row{Line: i + 2, cells: cells})
	}
	return t, nil
}

// Write emits the header and rows joined by "\n" with no trailing newline.
func Write(w io.Writer, header []string, rows [][]string) error {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(header, ","))
	for _, row := range rows {
		lines = append(lines, Join(row))
	}
	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}

// RowError records a rejected data row.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}
