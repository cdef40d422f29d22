package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for handlers and the export orchestrator to map to HTTP
// status. Wrap them with %w so callers can classify with errors.Is.
var (
	// ErrCSVProcessing marks structural/input faults in the uploaded file:
	// wrong file type, missing columns, malformed rows or extensions.
	ErrCSVProcessing = errors.New("csv processing failed")
	// ErrLicenseNotAvailable marks a row that references a license the
	// organization does not own.
	ErrLicenseNotAvailable = errors.New("license not available")
	// ErrLocationNotAvailable marks a row that references a location the
	// organization does not have.
	ErrLocationNotAvailable = errors.New("location not available")
	// ErrInternalConsistency marks a bug: pipeline bookkeeping disagrees
	// with itself (metadata/request mismatch, unknown correlation id).
	ErrInternalConsistency = errors.New("internal consistency fault")
	// ErrNotAuthenticated marks a request without a valid admin session.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// CSVProcessingf builds a structural fault with detail.
func CSVProcessingf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrCSVProcessing}, args...)...)
}

// LicenseNotAvailablef builds a reference-data fault naming the license.
func LicenseNotAvailablef(name string) error {
	return fmt.Errorf("%w: %s license is not available at this organization, so it cannot be assigned to any users", ErrLicenseNotAvailable, name)
}

// LocationNotAvailablef builds a reference-data fault naming the location.
func LocationNotAvailablef(name string) error {
	return fmt.Errorf("%w: location '%s' does not exist at this organization, so it cannot be assigned to any users", ErrLocationNotAvailable, name)
}

// InternalConsistencyf builds an internal-consistency fault with detail.
func InternalConsistencyf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInternalConsistency}, args...)...)
}
