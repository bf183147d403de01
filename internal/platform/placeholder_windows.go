//go:build windows

package platform

import (
	"io/fs"
	"syscall"
)

// File attribute flags marking files whose content lives remotely. Reading
// such a file makes the sync client download it first.
const (
	fileAttributeOffline            = 0x00001000
	fileAttributeRecallOnOpen       = 0x00040000
	fileAttributeRecallOnDataAccess = 0x00400000
)

// IsCloudPlaceholder reports whether info describes a cloud-sync placeholder:
// a file that appears to exist locally but whose content is not stored on disk.
func IsCloudPlaceholder(info fs.FileInfo) bool {
	sys, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return false
	}
	const flags = fileAttributeOffline | fileAttributeRecallOnOpen | fileAttributeRecallOnDataAccess
	return sys.FileAttributes&flags != 0
}
