package payimport

import "errors"

var (
	ErrEmptyWorkbook   = errors.New("workbook contains no importable rows")
	ErrUnreadableFile  = errors.New("file could not be read as a spreadsheet")
	ErrNoImportableRow = errors.New("no valid rows found; employee name expected in column C")
)
