package service

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/mcu-dashboard-api/pkg/errors"
	"github.com/noah-isme/mcu-dashboard-api/pkg/storage"
)

type documentBlobStore interface {
	Save(nik, fileName string, r io.Reader) (string, error)
	Open(nik, fileName string) (*os.File, error)
	Exists(nik, fileName string) bool
	Delete(nik, fileName string) error
	RemoveOwner(nik string) []error
}

type mirrorResolver interface {
	Configured() bool
	URL(nik, fileName string) string
}

// DocumentUpload carries upload metadata and the stream reader.
type DocumentUpload struct {
	Filename string
	Size     int64
	MimeType string
	Content  io.Reader
}

// DocumentDownload bundles the resolved document source. Exactly one of
// File or MirrorURL is set.
type DocumentDownload struct {
	File      *os.File
	Filename  string
	MirrorURL string
}

// DocumentServiceConfig holds upload validation parameters.
type DocumentServiceConfig struct {
	MaxFileSize  int64
	AllowedMIMEs []string
}

// DocumentService validates and stores MCU documents, one directory per NIK.
type DocumentService struct {
	store   documentBlobStore
	mirror  mirrorResolver
	logger  *zap.Logger
	cfg     DocumentServiceConfig
	mimeSet map[string]struct{}
}

// NewDocumentService constructs the service with defaults.
func NewDocumentService(store documentBlobStore, mirror mirrorResolver, logger *zap.Logger, cfg DocumentServiceConfig) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 100 * 1024 * 1024
	}
	if len(cfg.AllowedMIMEs) == 0 {
		cfg.AllowedMIMEs = []string{
			"application/pdf",
			"image/jpeg",
			"image/png",
		}
	}
	mimeSet := make(map[string]struct{}, len(cfg.AllowedMIMEs))
	for _, mt := range cfg.AllowedMIMEs {
		mimeSet[strings.ToLower(mt)] = struct{}{}
	}
	return &DocumentService{
		store:   store,
		mirror:  mirror,
		logger:  logger,
		cfg:     cfg,
		mimeSet: mimeSet,
	}
}

// ValidateUpload enforces the size cap and MIME allowlist. A file of exactly
// MaxFileSize bytes passes; one byte more is rejected.
func (s *DocumentService) ValidateUpload(upload *DocumentUpload) error {
	if upload == nil || upload.Content == nil {
		return appErrors.ErrNoDocument
	}
	if upload.Size > s.cfg.MaxFileSize {
		return appErrors.ErrFileTooLarge
	}
	if upload.MimeType != "" {
		if _, ok := s.mimeSet[strings.ToLower(upload.MimeType)]; !ok {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported file type %s", upload.MimeType))
		}
	}
	return nil
}

// Store validates the upload and writes it under the employee's directory,
// named after the MCU year. An existing document for the same year is
// overwritten.
func (s *DocumentService) Store(nik string, year int, upload *DocumentUpload) (string, error) {
	if err := s.ValidateUpload(upload); err != nil {
		return "", err
	}
	fileName := storage.FileName(year, upload.Filename)
	if _, err := s.store.Save(nik, fileName, upload.Content); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrFileIOFailure.Code, appErrors.ErrFileIOFailure.Status, "failed to store mcu document")
	}
	return fileName, nil
}

// Resolve locates a document for download. A missing local file falls back
// to the configured remote mirror when one exists.
func (s *DocumentService) Resolve(nik, fileName string) (*DocumentDownload, error) {
	if s.store.Exists(nik, fileName) {
		file, err := s.store.Open(nik, fileName)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrFileIOFailure.Code, appErrors.ErrFileIOFailure.Status, "failed to open mcu document")
		}
		return &DocumentDownload{File: file, Filename: fileName}, nil
	}
	if s.mirror != nil && s.mirror.Configured() {
		return &DocumentDownload{Filename: fileName, MirrorURL: s.mirror.URL(nik, fileName)}, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "mcu document not found")
}

// MirrorURL returns the remote mirror URL for a stored document, or an empty
// string when no mirror is configured.
func (s *DocumentService) MirrorURL(nik, fileName string) string {
	if s.mirror == nil || !s.mirror.Configured() {
		return ""
	}
	return s.mirror.URL(nik, fileName)
}

// Delete removes a single stored document. A missing file is not an error.
func (s *DocumentService) Delete(nik, fileName string) error {
	if err := s.store.Delete(nik, fileName); err != nil {
		return appErrors.Wrap(err, appErrors.ErrFileIOFailure.Code, appErrors.ErrFileIOFailure.Status, "failed to delete mcu document")
	}
	return nil
}

// RemoveAll deletes every stored document for an employee. Failures are
// logged and swallowed so a record delete never blocks on blob cleanup.
func (s *DocumentService) RemoveAll(nik string) {
	for _, err := range s.store.RemoveOwner(nik) {
		s.logger.Warn("document cleanup failed", zap.String("nik", nik), zap.Error(err))
	}
}
