// Package apperrors defines the semantic error kinds surfaced by the
// animesubinfo library: transport failures, session capture failures,
// security rejections from the download endpoint, archive problems, and
// filename-decomposition failures. None of these are retried internally.
package apperrors

import "fmt"

// TransportError wraps any network, timeout or non-2xx response from one of
// the catalog's HTTP endpoints.
type TransportError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error for %s: %v", e.URL, e.Err)
}

// Unwrap exposes the underlying cause to errors.Is/errors.As.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is(), by type rather than value.
func (e *TransportError) Is(target error) bool {
	_, ok := target.(*TransportError)
	return ok
}

// NewTransportError builds a TransportError for the given URL and cause.
func NewTransportError(url string, err error) *TransportError {
	return &TransportError{URL: url, Err: err}
}

// SessionDataError is returned when the download pipeline could not capture
// an (sh, cookie) pair for the requested subtitle id, either because the
// record could not be found in a fresh search or its row carried no token.
type SessionDataError struct {
	SubtitleID int
}

// Error implements the error interface.
func (e *SessionDataError) Error() string {
	return fmt.Sprintf("could not obtain session data for subtitle %d", e.SubtitleID)
}

// Is allows for error checking with errors.Is().
func (e *SessionDataError) Is(target error) bool {
	_, ok := target.(*SessionDataError)
	return ok
}

// NewSessionDataError builds a SessionDataError for the given subtitle id.
func NewSessionDataError(subtitleID int) *SessionDataError {
	return &SessionDataError{SubtitleID: subtitleID}
}

// SecurityError is raised when the download endpoint answers a POST with an
// HTML document instead of an archive, which the site uses to signal that
// the sh/cookie pair it was handed has been rejected.
type SecurityError struct {
	SubtitleID int
	Sh         string
	Cookie     string
}

// Error implements the error interface.
func (e *SecurityError) Error() string {
	return fmt.Sprintf("security error downloading subtitle %d: session tokens rejected", e.SubtitleID)
}

// Is allows for error checking with errors.Is().
func (e *SecurityError) Is(target error) bool {
	_, ok := target.(*SecurityError)
	return ok
}

// NewSecurityError builds a SecurityError carrying the rejected token pair.
func NewSecurityError(subtitleID int, sh, cookie string) *SecurityError {
	return &SecurityError{SubtitleID: subtitleID, Sh: sh, Cookie: cookie}
}

// ErrEmptyArchive is the ArchiveError reason used for a zero-entry archive.
const ErrEmptyArchive = "empty archive"

// ArchiveError covers an empty, malformed or otherwise unreadable archive.
type ArchiveError struct {
	Reason string
}

// Error implements the error interface.
func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive error: %s", e.Reason)
}

// Is allows for error checking with errors.Is().
func (e *ArchiveError) Is(target error) bool {
	_, ok := target.(*ArchiveError)
	return ok
}

// NewArchiveError builds an ArchiveError with the given reason.
func NewArchiveError(reason string) *ArchiveError {
	return &ArchiveError{Reason: reason}
}

// NewEmptyArchiveError builds the specific ArchiveError for an empty archive.
func NewEmptyArchiveError() *ArchiveError {
	return NewArchiveError(ErrEmptyArchive)
}

// DecomposeError is returned when a file name cannot be analyzed into the
// attributes the fitness scorer needs.
type DecomposeError struct {
	Input  string
	Reason string
}

// Error implements the error interface.
func (e *DecomposeError) Error() string {
	return fmt.Sprintf("could not decompose %q: %s", e.Input, e.Reason)
}

// Is allows for error checking with errors.Is().
func (e *DecomposeError) Is(target error) bool {
	_, ok := target.(*DecomposeError)
	return ok
}

// NewDecomposeError builds a DecomposeError for the given input and reason.
func NewDecomposeError(input, reason string) *DecomposeError {
	return &DecomposeError{Input: input, Reason: reason}
}
