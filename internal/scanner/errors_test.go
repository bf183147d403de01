package scanner

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"
)

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorReason
	}{
		{"permission errno", syscall.EACCES, ErrorPermissionDenied},
		{"operation not permitted", syscall.EPERM, ErrorPermissionDenied},
		{"busy file", syscall.EBUSY, ErrorTransientIO},
		{"text file busy", syscall.ETXTBSY, ErrorTransientIO},
		{"interrupted", syscall.EINTR, ErrorTransientIO},
		{"io error", syscall.EIO, ErrorTransientIO},
		{"not found errno", syscall.ENOENT, ErrorFileNotFound},
		{"not exist path error", &os.PathError{Op: "open", Path: "/gone", Err: os.ErrNotExist}, ErrorFileNotFound},
		{"permission path error", &os.PathError{Op: "open", Path: "/locked", Err: os.ErrPermission}, ErrorPermissionDenied},
		{"wrapped errno", fmt.Errorf("stat failed: %w", syscall.EACCES), ErrorPermissionDenied},
		{"unknown", errors.New("something odd"), ErrorUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CategorizeError("/some/path", tt.err)
			if got.Reason != tt.want {
				t.Errorf("CategorizeError(%v).Reason = %v, want %v", tt.err, got.Reason, tt.want)
			}
			if got.Path != "/some/path" {
				t.Errorf("Path = %q, want /some/path", got.Path)
			}
		})
	}
}

func TestCategorizeErrorNil(t *testing.T) {
	if got := CategorizeError("/x", nil); got != nil {
		t.Errorf("CategorizeError(nil) = %v, want nil", got)
	}
}

func TestScanErrorUnwrap(t *testing.T) {
	base := syscall.ENOENT
	scanErr := CategorizeError("/missing", base)
	if !errors.Is(scanErr, syscall.ENOENT) {
		t.Error("errors.Is should reach the original error through Unwrap")
	}
}
