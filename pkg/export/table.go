// Package export renders tabular reports into downloadable files.
package export

import "fmt"

// Align controls horizontal cell alignment in rendered documents.
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// Column describes one report column. Weight sets its relative width in
// paged formats; zero means 1.
type Column struct {
	Title  string
	Weight float64
	Align  Align
}

// Table is a titled grid of string cells.
type Table struct {
	Title   string
	Meta    []string
	Columns []Column
	Rows    [][]string
}

func (t Table) validate() error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("export requires at least one column")
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(t.Columns))
		}
	}
	return nil
}

// Renderer turns a table into file bytes.
type Renderer interface {
	Render(Table) ([]byte, error)
	ContentType() string
	Extension() string
}
