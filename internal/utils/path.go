package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// AppName names the config directory and fallback locations.
const AppName = "askserve"

// PathResolver finds config and data files relative to the binary, the working
// directory and the user's config dir.
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	// Resolve any symlinks to get the actual binary location
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executableDir: filepath.Dir(execPath),
		homeDir:       homeDir,
		configDir:     configDirFor(homeDir),
	}
	log.Debugf("PathResolver initialized: exec=%s, configDir=%s", execPath, pr.configDir)
	return pr, nil
}

// configDirFor returns the platform config directory for askserve
func configDirFor(homeDir string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, ".config", AppName)
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, AppName)
		}
		return filepath.Join(homeDir, ".config", AppName)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", AppName)
	default:
		return filepath.Join(homeDir, "."+AppName)
	}
}

// ResolveDataFile looks for a dataset file in order:
//  1. the path as given (absolute or relative to cwd)
//  2. relative to the executable directory
//  3. inside the config directory
//
// When nothing exists the path as given is returned so the caller reports it.
func (pr *PathResolver) ResolveDataFile(path string) string {
	if path == "" {
		return ""
	}
	candidates := []string{path}
	if !filepath.IsAbs(path) {
		candidates = append(candidates,
			filepath.Join(pr.executableDir, path),
			filepath.Join(pr.configDir, path),
		)
	}
	for _, c := range candidates {
		if stat, err := os.Stat(c); err == nil && !stat.IsDir() {
			log.Debugf("Resolved data file %s -> %s", path, c)
			return c
		}
		log.Debugf("Data file candidate not found: %s", c)
	}
	return path
}

// WritableDataDir returns the first writable directory for learned state:
// the config dir, then ~/.askserve, the temp dir and the executable dir.
// When none can be written the temp dir is returned so the store reports the error.
func (pr *PathResolver) WritableDataDir() string {
	candidates := []string{
		pr.configDir,
		filepath.Join(pr.homeDir, "."+AppName),
		filepath.Join(os.TempDir(), AppName),
		pr.executableDir,
	}
	for i, dir := range candidates {
		if dir == "" || !ensureWritableDir(dir) {
			continue
		}
		if i > 0 {
			log.Warnf("Using fallback data location: %s", dir)
		}
		return dir
	}
	log.Warnf("No writable data directory found, using %s", os.TempDir())
	return os.TempDir()
}

// ensureWritableDir creates the directory if it doesn't exist and tests writability
func ensureWritableDir(dir string) bool {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Debugf("Cannot create directory %s: %v", dir, err)
		return false
	}
	return testWriteAccess(dir)
}
