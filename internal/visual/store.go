package visual

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// BaselineStore keeps baseline images keyed by descriptive file names
type BaselineStore struct {
	fs afero.Fs
}

// NewBaselineStore stores baselines at the root of fs
func NewBaselineStore(fs afero.Fs) *BaselineStore {
	return &BaselineStore{fs: fs}
}

// NewDirStore stores baselines under dir on the local disk
func NewDirStore(dir string) *BaselineStore {
	return NewBaselineStore(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// FileName normalises a checkpoint name to its baseline file name
func FileName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "-")
	if !strings.HasSuffix(name, ".png") {
		name += ".png"
	}
	return name
}

// ActualName is where a mismatching capture of name is written
func ActualName(name string) string {
	return strings.TrimSuffix(FileName(name), ".png") + ".actual.png"
}

// DiffName is where the highlighted difference for name is written
func DiffName(name string) string {
	return strings.TrimSuffix(FileName(name), ".png") + ".diff.png"
}

// Exists reports whether a baseline for name is stored
func (s *BaselineStore) Exists(name string) (bool, error) {
	return afero.Exists(s.fs, FileName(name))
}

// Read returns the stored baseline for name
func (s *BaselineStore) Read(name string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, FileName(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline %s: %w", FileName(name), err)
	}
	return data, nil
}

// Write stores data under the exact file name, creating parent directories
func (s *BaselineStore) Write(file string, data []byte) error {
	if err := s.fs.MkdirAll(path.Dir(file), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", file, err)
	}
	if err := afero.WriteFile(s.fs, file, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", file, err)
	}
	return nil
}

// Remove deletes file if present
func (s *BaselineStore) Remove(file string) error {
	if err := s.fs.Remove(file); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", file, err)
	}
	return nil
}
