package scanner

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// ErrorReason categorizes why an entry was skipped during a scan
type ErrorReason int

const (
	ErrorPermissionDenied ErrorReason = iota
	ErrorTransientIO
	ErrorFileNotFound
	ErrorUnknown
)

// String returns a human-readable error reason
func (e ErrorReason) String() string {
	switch e {
	case ErrorPermissionDenied:
		return "Permission denied"
	case ErrorTransientIO:
		return "Transient I/O error"
	case ErrorFileNotFound:
		return "File not found"
	case ErrorUnknown:
		return "Unknown error"
	default:
		return "Unspecified error"
	}
}

// ScanError records why one entry was skipped. Scan errors are never fatal;
// the entry is dropped from the current pass and the scan continues.
type ScanError struct {
	Path     string
	Reason   ErrorReason
	Original error
}

// Error implements the error interface
func (e *ScanError) Error() string {
	return fmt.Sprintf("%s: %s (%v)", e.Path, e.Reason, e.Original)
}

// Unwrap returns the underlying error
func (e *ScanError) Unwrap() error {
	return e.Original
}

// CategorizeError analyzes an error and returns a categorized ScanError
func CategorizeError(path string, err error) *ScanError {
	if err == nil {
		return nil
	}

	scanErr := &ScanError{
		Path:     path,
		Original: err,
		Reason:   ErrorUnknown,
	}

	if os.IsNotExist(err) {
		scanErr.Reason = ErrorFileNotFound
		return scanErr
	}
	if os.IsPermission(err) {
		scanErr.Reason = ErrorPermissionDenied
		return scanErr
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EACCES, syscall.EPERM:
			scanErr.Reason = ErrorPermissionDenied
		case syscall.EBUSY, syscall.ETXTBSY, syscall.EINTR, syscall.EIO:
			scanErr.Reason = ErrorTransientIO
		case syscall.ENOENT:
			scanErr.Reason = ErrorFileNotFound
		}
		return scanErr
	}

	return scanErr
}
