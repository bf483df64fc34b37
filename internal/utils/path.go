package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

// PathResolver resolves the user supplied paths of the config file: vault
// directories, dictionaries and the history file.
type PathResolver struct {
	homeDir string
	baseDir string
}

// NewPathResolver resolves relative paths against baseDir, usually the
// directory of the active config file. An empty baseDir means the working dir.
func NewPathResolver(baseDir string) *PathResolver {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}
	if baseDir == "" {
		if cwd, err := os.Getwd(); err == nil {
			baseDir = cwd
		}
	}
	log.Debugf("PathResolver initialized: home=%s, base=%s", homeDir, baseDir)
	return &PathResolver{homeDir: homeDir, baseDir: baseDir}
}

// UserConfigDir returns the platform config directory of app.
func UserConfigDir(homeDir, app string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, ".config", app)
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, app)
		}
		return filepath.Join(homeDir, ".config", app)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, app)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", app)
	default:
		return filepath.Join(homeDir, "."+app)
	}
}

// Resolve expands a leading ~ and makes path absolute against the base dir.
// The empty path stays empty.
func (pr *PathResolver) Resolve(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		return pr.homeDir
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(pr.homeDir, rest)
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(pr.baseDir, path)
}

// ResolveAll resolves every path, dropping empty ones.
func (pr *PathResolver) ResolveAll(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if r := pr.Resolve(p); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// BaseDir returns the directory relative paths are resolved against.
func (pr *PathResolver) BaseDir() string {
	return pr.baseDir
}

// FindFileInPaths searches for a file in multiple possible locations
func (pr *PathResolver) FindFileInPaths(filename string, searchPaths []string) (string, error) {
	for _, searchPath := range searchPaths {
		fullPath := filepath.Join(pr.Resolve(searchPath), filename)
		if _, err := os.Stat(fullPath); err == nil {
			return fullPath, nil
		}
	}
	return "", os.ErrNotExist
}

// GetRuntimeInfo returns debug information about the current runtime environment
func (pr *PathResolver) GetRuntimeInfo() map[string]string {
	cwd, _ := os.Getwd()

	info := map[string]string{
		"current_dir": cwd,
		"home_dir":    pr.homeDir,
		"base_dir":    pr.baseDir,
		"os":          runtime.GOOS,
		"arch":        runtime.GOARCH,
	}
	if execDir, err := GetExecutableDir(); err == nil {
		info["executable_dir"] = execDir
	}

	envVars := []string{"HOME", "XDG_CONFIG_HOME", "APPDATA"}
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			info["env_"+strings.ToLower(envVar)] = value
		}
	}
	return info
}
