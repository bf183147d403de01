//go:build !windows

package platform

import "io/fs"

// IsCloudPlaceholder reports whether info describes a cloud-sync placeholder.
// Placeholder attributes are a Windows filesystem feature; on other platforms
// sync clients keep full copies, so this always reports false.
func IsCloudPlaceholder(info fs.FileInfo) bool {
	return false
}
