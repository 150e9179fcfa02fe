package agent

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultBinary is the agent CLI name.
const DefaultBinary = "amp"

// DefaultThreadURLBase is where amp threads can be viewed.
const DefaultThreadURLBase = "https://ampcode.com/threads/"

// ResolveBinary finds the agent executable. Absolute and ~/ paths are used
// as given; otherwise the usual install locations are probed in order,
// then PATH. The bare name is returned when nothing is found so that the
// launch fails with a not-found error.
func ResolveBinary(binary string) string {
	if binary == "" {
		binary = DefaultBinary
	}
	if filepath.IsAbs(binary) {
		return binary
	}

	home, homeErr := os.UserHomeDir()
	if strings.HasPrefix(binary, "~/") {
		if homeErr == nil {
			return filepath.Join(home, binary[2:])
		}
		return binary
	}
	if strings.ContainsRune(binary, filepath.Separator) {
		return binary
	}

	if homeErr == nil {
		for _, p := range candidatePaths(home, binary) {
			if isExecutable(p) {
				return p
			}
		}
	}

	if p, err := exec.LookPath(binary); err == nil {
		return p
	}
	return binary
}

func candidatePaths(home, name string) []string {
	return []string{
		filepath.Join(home, ".local", "bin", name),
		filepath.Join(home, ".amp", "bin", name),
		filepath.Join("/usr/local/bin", name),
	}
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&0111 != 0
}

// ThreadURL returns the browsable URL of a thread, or "" without an id.
func ThreadURL(base, threadID string) string {
	if threadID == "" {
		return ""
	}
	if base == "" {
		base = DefaultThreadURLBase
	}
	return strings.TrimSuffix(base, "/") + "/" + threadID
}
