package recordmatcher

import "fmt"

// ColumnNotFoundError reports that a referenced column does not exist
// on the expected side of the tables being configured.
type ColumnNotFoundError struct {
	Column  string
	Side    string // "x" or "y"
	Allowed []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("%s_column:%q cannot be found in %s_records; only these columns may be used: %v",
		e.Side, e.Column, e.Side, e.Allowed)
}

// ScorerNotFoundError reports an unknown scorer name.
type ScorerNotFoundError struct {
	Name     string
	Registry []string
}

func (e *ScorerNotFoundError) Error() string {
	return fmt.Sprintf("scorer %q is not registered; available scorers: %v", e.Name, e.Registry)
}

// XUniqueConstraintError reports that a columns_to_get destination
// column is already mapped by another entry.
type XUniqueConstraintError struct {
	Destination string
}

func (e *XUniqueConstraintError) Error() string {
	return fmt.Sprintf("destination column %q is already used by another columns_to_get entry", e.Destination)
}

// OverwriteError reports that a columns_to_get destination would
// shadow an existing X column and allow_overwrite is false.
type OverwriteError struct {
	Destination string
}

func (e *OverwriteError) Error() string {
	return fmt.Sprintf("destination column %q already exists in x_records; set AllowOverwrite=true to overwrite it", e.Destination)
}

// ColumnToMatchLockError reports an attempt to remove a scorer,
// threshold, or cutoff entry while its column remains in
// columns_to_match.
type ColumnToMatchLockError struct {
	Column string
}

func (e *ColumnToMatchLockError) Error() string {
	return fmt.Sprintf("x_column:%q is still a column to match; remove it from ColumnsToMatch first", e.Column)
}

// InvalidValueError reports a threshold or cutoff value outside its
// allowed domain.
type InvalidValueError struct {
	Field  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Field, e.Reason)
}
