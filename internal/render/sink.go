package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/table"
)

// TableSink collects bubbles/table rows together with the entity key behind
// each row, so a single key handler can act on the selected row by key.
type TableSink[T any, K comparable] struct {
	row  func(T) table.Row
	id   func(T) K
	rows []table.Row
	ids  []K
}

// NewTableSink creates a sink that formats items with row and keys them with id.
func NewTableSink[T any, K comparable](row func(T) table.Row, id func(T) K) *TableSink[T, K] {
	return &TableSink[T, K]{row: row, id: id}
}

// Reset drops every row.
func (s *TableSink[T, K]) Reset() {
	s.rows = nil
	s.ids = nil
}

// Append formats items and adds them after the existing rows.
func (s *TableSink[T, K]) Append(items []T) {
	for _, item := range items {
		s.rows = append(s.rows, s.row(item))
		s.ids = append(s.ids, s.id(item))
	}
}

// Len returns the number of rows rendered so far.
func (s *TableSink[T, K]) Len() int {
	return len(s.rows)
}

// Rows returns the rendered rows for table.SetRows.
func (s *TableSink[T, K]) Rows() []table.Row {
	return s.rows
}

// IDAt returns the entity key of row i.
func (s *TableSink[T, K]) IDAt(i int) (K, bool) {
	if i < 0 || i >= len(s.ids) {
		var zero K
		return zero, false
	}
	return s.ids[i], true
}

// WriterSink streams one formatted line per item to an io.Writer. Reset
// cannot take back lines already written; it only restarts the count.
type WriterSink[T any] struct {
	w      io.Writer
	format func(T) string
	err    error
	n      int
}

// NewWriterSink creates a sink writing format(item) lines to w.
func NewWriterSink[T any](w io.Writer, format func(T) string) *WriterSink[T] {
	return &WriterSink[T]{w: w, format: format}
}

// Reset restarts the row count.
func (s *WriterSink[T]) Reset() {
	s.n = 0
}

// Append writes a line per item. The first write error stops further output.
func (s *WriterSink[T]) Append(items []T) {
	for _, item := range items {
		if s.err != nil {
			return
		}
		if _, err := fmt.Fprintln(s.w, s.format(item)); err != nil {
			s.err = err
			return
		}
		s.n++
	}
}

// Len returns the number of lines written in this pass.
func (s *WriterSink[T]) Len() int {
	return s.n
}

// Err returns the first write error, if any.
func (s *WriterSink[T]) Err() error {
	return s.err
}
