package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilePathValidator validates paths for the database, config and log files.
type FilePathValidator struct {
	// AllowedBaseDirs restricts paths to these directories; empty allows any.
	AllowedBaseDirs    []string
	AllowRelativePaths bool
	MaxPathLength      int
}

func NewFilePathValidator() *FilePathValidator {
	homeDir, _ := os.UserHomeDir()
	return &FilePathValidator{
		AllowedBaseDirs: []string{
			homeDir,
			os.TempDir(),
		},
		AllowRelativePaths: false,
		MaxPathLength:      4096,
	}
}

func NewPermissiveFilePathValidator() *FilePathValidator {
	return &FilePathValidator{
		AllowRelativePaths: true,
		MaxPathLength:      4096,
	}
}

// ValidateAndSanitize expands ~, cleans the path and checks it against the
// validator's rules.
func (v *FilePathValidator) ValidateAndSanitize(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if len(path) > v.MaxPathLength {
		return "", fmt.Errorf("path too long (max %d characters)", v.MaxPathLength)
	}
	if strings.ContainsRune(path, 0) {
		return "", fmt.Errorf("path contains null byte")
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return "", fmt.Errorf("path traversal not allowed: %s", path)
		}
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	if !filepath.IsAbs(path) {
		if !v.AllowRelativePaths {
			return "", fmt.Errorf("relative paths not allowed: %s", path)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("resolving path: %w", err)
		}
		path = abs
	}
	path = filepath.Clean(path)

	if err := v.validateBaseDirs(path); err != nil {
		return "", err
	}
	return path, nil
}

func (v *FilePathValidator) validateBaseDirs(path string) error {
	if len(v.AllowedBaseDirs) == 0 {
		return nil
	}
	for _, base := range v.AllowedBaseDirs {
		if base == "" {
			continue
		}
		base = filepath.Clean(base)
		if rel, err := filepath.Rel(base, path); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil
		}
	}
	return fmt.Errorf("path outside allowed directories: %s", path)
}

// ValidateFile validates path and ensures its parent directory exists.
func (v *FilePathValidator) ValidateFile(path string) (string, error) {
	clean, err := v.ValidateAndSanitize(path)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(clean); err == nil && info.IsDir() {
		return "", fmt.Errorf("path is a directory: %s", clean)
	}
	if err := os.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
		return "", fmt.Errorf("creating parent directory: %w", err)
	}
	return clean, nil
}
