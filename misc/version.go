// Package misc holds build-time program identification.
package misc

import (
	"os"
	"path/filepath"
	"strings"
)

// Set by the linker: -X hdoc/misc.version=... -X hdoc/misc.gitHash=...
var (
	version = "dev"
	gitHash = "unknown"
	appName = ""
)

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}

// GetAppName returns program name without extension, falling back to
// "hdoc" when it cannot be derived from the executable path.
func GetAppName() string {
	if len(appName) > 0 {
		return appName
	}
	if len(os.Args) > 0 && len(os.Args[0]) > 0 {
		name := filepath.Base(os.Args[0])
		if strings.HasSuffix(name, ".test") || strings.HasSuffix(name, ".test.exe") {
			return "hdoc"
		}
		if n := strings.TrimSuffix(name, filepath.Ext(name)); len(n) > 0 {
			return n
		}
	}
	return "hdoc"
}
