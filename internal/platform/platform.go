package platform

import (
	"errors"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrUnsupportedPlatform is returned when the current OS is not recognized
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Platform represents the operating system platform
type Platform string

const (
	MacOS   Platform = "darwin"
	Linux   Platform = "linux"
	Windows Platform = "windows"
	Unknown Platform = "unknown"
)

// Info contains platform-specific information and paths
type Info struct {
	OS         Platform
	HomeDir    string
	Username   string
	VolumeRoot string
}

// Detect returns the current platform
func Detect() Platform {
	switch runtime.GOOS {
	case "darwin":
		return MacOS
	case "linux":
		return Linux
	case "windows":
		return Windows
	default:
		return Unknown
	}
}

// GetInfo returns platform-specific information
func GetInfo() (*Info, error) {
	platform := Detect()
	if platform == Unknown {
		return nil, ErrUnsupportedPlatform
	}

	currentUser, err := user.Current()
	if err != nil {
		return nil, err
	}

	volumeRoot := "/"
	if platform == Windows {
		volumeRoot = filepath.VolumeName(currentUser.HomeDir) + `\`
	}

	return &Info{
		OS:         platform,
		HomeDir:    currentUser.HomeDir,
		Username:   currentUser.Username,
		VolumeRoot: volumeRoot,
	}, nil
}

// DefaultExcludes returns the built-in exclusion roots for this platform:
// well-known system directories plus any cloud-sync application directories
// found under the user's home.
func (i *Info) DefaultExcludes() []string {
	var paths []string

	switch i.OS {
	case Windows:
		vol := strings.TrimSuffix(i.VolumeRoot, `\`)
		paths = append(paths,
			vol+`\Windows`,
			vol+`\Program Files`,
			vol+`\Program Files (x86)`,
			vol+`\ProgramData`,
			vol+`\$Recycle.Bin`,
			vol+`\Recovery`,
			vol+`\PerfLogs`,
		)
	case MacOS:
		paths = append(paths,
			"/System",
			"/Library",
			"/private",
			"/usr",
			"/bin",
			"/sbin",
			"/opt",
		)
	case Linux:
		paths = append(paths,
			"/proc",
			"/sys",
			"/dev",
			"/run",
			"/boot",
			"/usr",
			"/bin",
			"/sbin",
			"/etc",
			"/var",
		)
	}

	return append(paths, i.CloudSyncDirs()...)
}

// CloudSyncDirs returns directories managed by file-sync clients. These are
// excluded by default because their contents may be metadata-only stubs whose
// reads trigger network downloads.
func (i *Info) CloudSyncDirs() []string {
	var paths []string

	for _, env := range []string{"OneDrive", "OneDriveCommercial", "OneDriveConsumer"} {
		if p := os.Getenv(env); p != "" {
			paths = append(paths, filepath.Clean(p))
		}
	}

	if i.HomeDir != "" {
		// Sync clients create their roots directly under the home directory.
		entries, err := os.ReadDir(i.HomeDir)
		if err == nil {
			for _, e := range entries {
				if !e.IsDir() {
					continue
				}
				name := strings.ToLower(e.Name())
				if strings.HasPrefix(name, "onedrive") || name == "dropbox" || name == "google drive" {
					paths = append(paths, filepath.Join(i.HomeDir, e.Name()))
				}
			}
		}
		if i.OS == MacOS {
			paths = append(paths, filepath.Join(i.HomeDir, "Library", "CloudStorage"))
		}
	}

	return dedupe(paths)
}

func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := paths[:0]
	for _, p := range paths {
		key := strings.ToLower(filepath.Clean(p))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}
