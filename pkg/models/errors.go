package models

import "fmt"

// DataError reports a missing or malformed required field in the input
// dataset. It aborts the whole analysis call; no partial result is produced.
type DataError struct {
	Column string
	Reason string
}

func (e *DataError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("data error: required column %q is missing", e.Column)
	}
	return fmt.Sprintf("data error: column %q: %s", e.Column, e.Reason)
}

// InsufficientDataError reports that too few records are available for a
// stable train/test split or clustering.
type InsufficientDataError struct {
	Required int
	Got      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need at least %d records, got %d", e.Required, e.Got)
}

// NotFoundError reports that a requested flight, airport or route has zero
// matching records. Callers can treat it as a graceful "no data" state.
type NotFoundError struct {
	Kind string // "flight", "airport", "route"
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q: no matching records", e.Kind, e.Key)
}

// ConfigurationError reports an invalid analysis parameter.
type ConfigurationError struct {
	Param  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Param, e.Reason)
}
