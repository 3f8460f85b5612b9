// Package configpaths resolves where configuration files are looked up.
package configpaths

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	appDir   = "joybridge"
	baseName = "joybridge"
)

// DefaultConfigDir returns the per-user configuration directory.
func DefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir), nil
}

// ConfigCandidatePaths returns the JSON, YAML and TOML files to try, in
// priority order. An explicit userCfg is the only candidate; its extension
// picks the loader, and an unknown extension is offered to all three.
func ConfigCandidatePaths(userCfg string) (jsonPaths, yamlPaths, tomlPaths []string) {
	if userCfg != "" {
		switch strings.ToLower(filepath.Ext(userCfg)) {
		case ".json":
			return []string{userCfg}, nil, nil
		case ".yaml", ".yml":
			return nil, []string{userCfg}, nil
		case ".toml":
			return nil, nil, []string{userCfg}
		}
		return []string{userCfg}, []string{userCfg}, []string{userCfg}
	}

	dirs := []string{"."}
	if dir, err := ConfigDir(); err == nil {
		dirs = append(dirs, dir)
	}
	for _, d := range dirs {
		jsonPaths = append(jsonPaths, filepath.Join(d, baseName+".json"))
		yamlPaths = append(yamlPaths, filepath.Join(d, baseName+".yaml"), filepath.Join(d, baseName+".yml"))
		tomlPaths = append(tomlPaths, filepath.Join(d, baseName+".toml"))
	}
	return jsonPaths, yamlPaths, tomlPaths
}
