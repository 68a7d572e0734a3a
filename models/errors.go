package models

import "fmt"

// DataIntegrityError reports a load-time defect in the source table.
// Row is 1-based and counts data rows only; 0 means the whole table.
type DataIntegrityError struct {
	Row    int
	Column string
	Value  string
	Reason string
}

func (e *DataIntegrityError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("data integrity: column %q: %s", e.Column, e.Reason)
	}
	return fmt.Sprintf("data integrity: row %d, column %q, value %q: %s",
		e.Row, e.Column, e.Value, e.Reason)
}
