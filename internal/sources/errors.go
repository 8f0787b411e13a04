package sources

import "fmt"

// SourceError represents a failure reading one content source.
type SourceError struct {
	Locator string
	Message string
	Cause   error
}

func (e *SourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("source %s: %s: %v", e.Locator, e.Message, e.Cause)
	}
	return fmt.Sprintf("source %s: %s", e.Locator, e.Message)
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}

// RowError describes a spreadsheet row that could not be converted to a metrics record.
type RowError struct {
	Row     int
	Message string
	Cause   error
}

func (e *RowError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("row %d: %s: %v", e.Row, e.Message, e.Cause)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

func (e *RowError) Unwrap() error {
	return e.Cause
}
