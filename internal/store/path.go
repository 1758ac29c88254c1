package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator checks that file paths stay inside a configured
// directory before anything reads or writes them.
type PathValidator struct {
	configuredDirectory string
}

// NewPathValidator creates a path validator for the given directory. The
// directory does not need to exist yet; validation starts once it does.
func NewPathValidator(configuredDirectory string) (*PathValidator, error) {
	if configuredDirectory == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}
	return &PathValidator{configuredDirectory: configuredDirectory}, nil
}

// ValidatePath checks that path is within the configured directory.
func (v *PathValidator) ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	// If the configured directory doesn't exist yet, skip validation.
	if _, err := os.Stat(v.configuredDirectory); os.IsNotExist(err) {
		return nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	isWithin, err := v.isWithinDirectory(absPath)
	if err != nil {
		return fmt.Errorf("path validation failed: %w", err)
	}
	if !isWithin {
		return fmt.Errorf("path is outside configured directory: %s", path)
	}
	return nil
}

// NormalizePath returns an absolute path within the configured
// directory. Relative paths resolve against the configured directory.
func (v *PathValidator) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(v.configuredDirectory, path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	if err := v.ValidatePath(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

// isWithinDirectory checks containment against both the literal and the
// symlink-resolved forms of the path and the configured directory, so a
// symlink planted inside the directory cannot point traffic outside it.
func (v *PathValidator) isWithinDirectory(path string) (bool, error) {
	absDir, err := filepath.Abs(v.configuredDirectory)
	if err != nil {
		return false, fmt.Errorf("failed to resolve configured directory: %w", err)
	}

	cleanPath := filepath.Clean(path)
	cleanDir := filepath.Clean(absDir)

	realPath := cleanPath
	if info, err := os.Lstat(cleanPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(cleanPath); err == nil {
			realPath = resolved
		}
	}
	realDir := cleanDir
	if resolved, err := filepath.EvalSymlinks(cleanDir); err == nil {
		realDir = resolved
	}

	dirWithSep := cleanDir + string(filepath.Separator)
	realDirWithSep := realDir + string(filepath.Separator)

	pathOk := strings.HasPrefix(cleanPath, dirWithSep) || cleanPath == cleanDir ||
		strings.HasPrefix(cleanPath, realDirWithSep) || cleanPath == realDir
	realPathOk := strings.HasPrefix(realPath, dirWithSep) || realPath == cleanDir ||
		strings.HasPrefix(realPath, realDirWithSep) || realPath == realDir

	return pathOk && realPathOk, nil
}
