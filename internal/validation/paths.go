package validation

import (
	"os"
	"path/filepath"
)

// PathHandler resolves the files vodfall writes, falling back to defaults
// under the home directory.
type PathHandler struct {
	validator *FilePathValidator
}

func NewSecurePathHandler() *PathHandler {
	return &PathHandler{validator: NewFilePathValidator()}
}

func NewPermissivePathHandler() *PathHandler {
	return &PathHandler{validator: NewPermissiveFilePathValidator()}
}

// GetSecureDBPath returns the preferences database path.
func (ph *PathHandler) GetSecureDBPath(userPath string) (string, error) {
	return ph.resolve(userPath, ".vodfall.db")
}

// GetSecureConfigPath returns the config file path.
func (ph *PathHandler) GetSecureConfigPath(userPath string) (string, error) {
	return ph.resolve(userPath, filepath.Join(".config", "vodfall", "config.toml"))
}

// GetSecureLogPath returns the debug log path.
func (ph *PathHandler) GetSecureLogPath(userPath string) (string, error) {
	return ph.resolve(userPath, filepath.Join(".vodfall", "vodfall.log"))
}

func (ph *PathHandler) resolve(userPath, defaultRel string) (string, error) {
	if userPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		userPath = filepath.Join(home, defaultRel)
	}
	return ph.validator.ValidateFile(userPath)
}
