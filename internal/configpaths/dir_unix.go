//go:build !windows

package configpaths

import (
	"os"
	"path/filepath"
)

// ConfigDir returns the system-wide configuration directory.
// On Unix, root services use /etc/joybridge.
func ConfigDir() (string, error) {
	if os.Geteuid() == 0 {
		return filepath.Join(string(os.PathSeparator), "etc", appDir), nil
	}
	return DefaultConfigDir()
}
