package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SuccessMarker is written into a view directory once all of its files exist.
const SuccessMarker = "_SUCCESS"

// LocalStorage persists report files on disk under a base directory.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./student_analysis_output"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", baseDir, err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// BaseDir returns the root directory files are written under.
func (s *LocalStorage) BaseDir() string {
	return s.baseDir
}

// Save writes the given bytes to the relative path under the base dir,
// replacing any existing file.
func (s *LocalStorage) Save(filename string, data []byte) (string, error) {
	path, err := s.resolve(filename)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write output file %s: %w", filename, err)
	}
	return filename, nil
}

// ResetDir removes a relative directory and everything in it, then recreates
// it empty.
func (s *LocalStorage) ResetDir(dir string) error {
	path, err := s.resolve(dir)
	if err != nil {
		return err
	}
	if path == filepath.Clean(s.baseDir) {
		return fmt.Errorf("refusing to reset output root")
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("clear output directory %s: %w", dir, err)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}
	return nil
}

// MarkSuccess drops the empty success marker into a relative directory.
func (s *LocalStorage) MarkSuccess(dir string) error {
	_, err := s.Save(filepath.Join(dir, SuccessMarker), nil)
	return err
}

// Path exposes the underlying path of a stored file.
func (s *LocalStorage) Path(filename string) string {
	path, err := s.resolve(filename)
	if err != nil {
		return filepath.Join(s.baseDir, filepath.Base(filename))
	}
	return path
}

func (s *LocalStorage) resolve(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		return "", fmt.Errorf("output path %s must be relative", filename)
	}
	path := filepath.Join(s.baseDir, filename)
	rel, err := filepath.Rel(s.baseDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("output path %s escapes %s", filename, s.baseDir)
	}
	return path, nil
}
