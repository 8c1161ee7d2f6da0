// Package paging provides support for query paging.
package paging

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/speedrunethereum/speedrun/business/sys/validate"
)

// Set of defaults for paging.
const (
	DefaultRows = 20
	MaxRows     = 100
)

// Page represents the requested page and rows per page.
type Page struct {
	Number int
	Rows   int
}

// Parse parses the request for the page and rows query string. The
// defaults are provided as well.
func Parse(r *http.Request) (Page, error) {
	values := r.URL.Query()

	number := 1
	if page := values.Get("page"); page != "" {
		var err error
		number, err = strconv.Atoi(page)
		if err != nil || number <= 0 {
			return Page{}, validate.NewFieldError("page", errors.New("page must be a positive number"))
		}
	}

	rowsPerPage := DefaultRows
	if rows := values.Get("rows"); rows != "" {
		var err error
		rowsPerPage, err = strconv.Atoi(rows)
		if err != nil || rowsPerPage <= 0 || rowsPerPage > MaxRows {
			return Page{}, validate.NewFieldError("rows", errors.New("rows must be between 1 and 100"))
		}
	}

	return Page{Number: number, Rows: rowsPerPage}, nil
}
