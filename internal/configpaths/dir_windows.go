//go:build windows

package configpaths

// ConfigDir returns the system-wide configuration directory.
func ConfigDir() (string, error) {
	return DefaultConfigDir()
}
