package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DocumentStore persists MCU result documents on disk. Blobs live under
// <baseDir>/<nik>/<year>.<ext>; saving overwrites any previous document for
// the same employee and year, so at most one blob exists per (nik, year).
type DocumentStore struct {
	baseDir string
}

// NewDocumentStore ensures the base directory exists and returns a handle.
func NewDocumentStore(baseDir string) (*DocumentStore, error) {
	if baseDir == "" {
		baseDir = "./uploads/mcu_history"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create documents directory: %w", err)
	}
	return &DocumentStore{baseDir: baseDir}, nil
}

// FileName derives the stored file name for a year and original upload name.
// The extension is taken from the upload, defaulting to ".pdf".
func FileName(year int, uploadName string) string {
	ext := filepath.Ext(uploadName)
	if ext == "" {
		ext = ".pdf"
	}
	return fmt.Sprintf("%d%s", year, strings.ToLower(ext))
}

// checkComponent rejects path elements that could escape baseDir. Both the
// NIK and the file name arrive as URL parameters on the download route.
func checkComponent(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return fmt.Errorf("invalid path component %q", name)
	}
	return nil
}

func (s *DocumentStore) blobPath(nik, fileName string) (string, error) {
	if err := checkComponent(nik); err != nil {
		return "", err
	}
	if err := checkComponent(fileName); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, nik, fileName), nil
}

func (s *DocumentStore) ownerDir(nik string) (string, error) {
	if err := checkComponent(nik); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, nik), nil
}

// Save streams a document into place, overwriting an existing blob.
// Writes are direct (no write-then-rename); a crash mid-write can leave a
// truncated file, which is an accepted gap for this tool.
func (s *DocumentStore) Save(nik, fileName string, r io.Reader) (string, error) {
	path, err := s.blobPath(nik, fileName)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare document directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create document file: %w", err)
	}
	defer file.Close() //nolint:errcheck
	if _, err := io.Copy(file, r); err != nil {
		return "", fmt.Errorf("write document file: %w", err)
	}
	return fileName, nil
}

// Open returns a read-only handle for a stored document.
func (s *DocumentStore) Open(nik, fileName string) (*os.File, error) {
	path, err := s.blobPath(nik, fileName)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document file: %w", err)
	}
	return file, nil
}

// Exists reports whether the document is present locally. Unsafe path
// components count as absent.
func (s *DocumentStore) Exists(nik, fileName string) bool {
	path, err := s.blobPath(nik, fileName)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Delete removes a stored document if present.
func (s *DocumentStore) Delete(nik, fileName string) error {
	path, err := s.blobPath(nik, fileName)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete document file: %w", err)
	}
	return nil
}

// ListOwner returns the file names stored for an employee.
func (s *DocumentStore) ListOwner(nik string) ([]string, error) {
	dir, err := s.ownerDir(nik)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list documents: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// RemoveOwner deletes every document for an employee and then the directory
// itself. Per-file failures are collected; directory removal failure is
// ignored (the directory may be non-empty after partial cleanup).
func (s *DocumentStore) RemoveOwner(nik string) []error {
	dir, err := s.ownerDir(nik)
	if err != nil {
		return []error{err}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return []error{fmt.Errorf("list documents: %w", err)}
	}
	var errs []error
	for _, entry := range entries {
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", entry.Name(), err))
		}
	}
	_ = os.Remove(dir)
	return errs
}

// Path exposes the underlying absolute path (useful for debugging).
func (s *DocumentStore) Path(nik, fileName string) string {
	return filepath.Join(s.baseDir, nik, fileName)
}
