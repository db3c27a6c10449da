package repository

import (
	"fmt"
	"strings"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// where accumulates AND-ed conditions with positional placeholders.
type where struct {
	conds []string
	args  []interface{}
}

// add appends a condition; every "?" in expr becomes the next placeholder
// bound to arg.
func (w *where) add(expr string, arg interface{}) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(expr, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return "WHERE 1=1"
	}
	return "WHERE " + strings.Join(w.conds, " AND ")
}

// orderBy resolves a user supplied sort key against an allow list.
func orderBy(allowed map[string]string, sortBy, fallback, sortOrder, defaultOrder string) string {
	column, ok := allowed[sortBy]
	if !ok {
		column = allowed[fallback]
	}
	order := strings.ToUpper(sortOrder)
	if order != "ASC" && order != "DESC" {
		order = defaultOrder
	}
	return column + " " + order
}

// pageWindow clamps page parameters and returns LIMIT and OFFSET.
func pageWindow(page, size int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}
	return size, (page - 1) * size
}
