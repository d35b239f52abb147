// Package config resolves the desktop shell's web base URL and the web
// server's environment configuration.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

const (
	// FileName is the config file looked up next to the process and in the app bundle.
	FileName = "wingman-web.json"
	// DefaultWebBaseURL is used when no config file resolves.
	DefaultWebBaseURL = "http://localhost:3000"
)

var errEmptyURL = errors.New("wingmanWeb.url is empty")

// AppConfig is loaded once at startup and not mutated afterwards.
type AppConfig struct {
	WebBaseURL string
}

// fileSchema mirrors {"wingmanWeb": {"url": "..."}}.
type fileSchema struct {
	WingmanWeb struct {
		URL string `json:"url"`
	} `json:"wingmanWeb"`
}

// Load resolves the config from the working directory, then the bundle
// resources, then the built-in default. It never fails; every fallback is
// logged. Each call re-reads from disk.
func Load(logger *zap.Logger) AppConfig {
	return LoadFrom(logger, Candidates())
}

// LoadFrom resolves the config from an explicit candidate list.
func LoadFrom(logger *zap.Logger, candidates []string) AppConfig {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, path := range candidates {
		url, err := readFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				logger.Debug("config file not found", zap.String("path", path))
			} else {
				logger.Warn("config file unusable", zap.String("path", path), zap.Error(err))
			}
			continue
		}
		logger.Info("loaded web config", zap.String("path", path), zap.String("url", url))
		return AppConfig{WebBaseURL: url}
	}
	logger.Warn("no web config found, using default", zap.String("url", DefaultWebBaseURL))
	return AppConfig{WebBaseURL: DefaultWebBaseURL}
}

// Candidates returns the ordered config search paths.
func Candidates() []string {
	var paths []string
	if wd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(wd, FileName))
	}
	if dir := resourceDir(); dir != "" {
		p := filepath.Join(dir, FileName)
		if len(paths) == 0 || paths[0] != p {
			paths = append(paths, p)
		}
	}
	return paths
}

// resourceDir is Contents/Resources for a macOS .app bundle, otherwise the
// executable's directory.
func resourceDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	dir := filepath.Dir(exe)
	if runtime.GOOS == "darwin" && filepath.Base(dir) == "MacOS" {
		return filepath.Join(filepath.Dir(dir), "Resources")
	}
	return dir
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var f fileSchema
	if err := json.Unmarshal(b, &f); err != nil {
		return "", err
	}
	url := strings.TrimSpace(f.WingmanWeb.URL)
	if url == "" {
		return "", errEmptyURL
	}
	return strings.TrimRight(url, "/"), nil
}
