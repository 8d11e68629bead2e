package service

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/mcu-dashboard-api/pkg/errors"
)

type mockBlobStore struct {
	saved      map[string][]byte
	exists     bool
	deleted    []string
	removeErrs []error
}

func (m *mockBlobStore) Save(nik, fileName string, r io.Reader) (string, error) {
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.saved[nik+"/"+fileName] = data
	return fileName, nil
}

func (m *mockBlobStore) Open(nik, fileName string) (*os.File, error) {
	return nil, os.ErrNotExist
}

func (m *mockBlobStore) Exists(nik, fileName string) bool {
	return m.exists
}

func (m *mockBlobStore) Delete(nik, fileName string) error {
	m.deleted = append(m.deleted, nik+"/"+fileName)
	return nil
}

func (m *mockBlobStore) RemoveOwner(nik string) []error {
	return m.removeErrs
}

type mockMirror struct {
	configured bool
}

func (m *mockMirror) Configured() bool { return m.configured }

func (m *mockMirror) URL(nik, fileName string) string {
	return "https://github.com/acme/mcu-history/blob/main/mcu_files/" + nik + "/" + fileName + "?raw=true"
}

func TestDocumentServiceValidateUploadSizeCap(t *testing.T) {
	svc := NewDocumentService(&mockBlobStore{}, &mockMirror{}, nil, DocumentServiceConfig{MaxFileSize: 100 * 1024 * 1024})

	atLimit := &DocumentUpload{
		Filename: "mcu.pdf",
		Size:     100 * 1024 * 1024,
		MimeType: "application/pdf",
		Content:  strings.NewReader("x"),
	}
	assert.NoError(t, svc.ValidateUpload(atLimit), "a file of exactly the cap is accepted")

	overLimit := &DocumentUpload{
		Filename: "mcu.pdf",
		Size:     100*1024*1024 + 1,
		MimeType: "application/pdf",
		Content:  strings.NewReader("x"),
	}
	err := svc.ValidateUpload(overLimit)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrFileTooLarge.Code, appErr.Code)
}

func TestDocumentServiceValidateUploadMissingFile(t *testing.T) {
	svc := NewDocumentService(&mockBlobStore{}, &mockMirror{}, nil, DocumentServiceConfig{})

	var appErr *appErrors.Error
	require.ErrorAs(t, svc.ValidateUpload(nil), &appErr)
	assert.Equal(t, appErrors.ErrNoDocument.Code, appErr.Code)

	require.ErrorAs(t, svc.ValidateUpload(&DocumentUpload{Filename: "mcu.pdf"}), &appErr)
	assert.Equal(t, appErrors.ErrNoDocument.Code, appErr.Code)
}

func TestDocumentServiceValidateUploadMIMEAllowlist(t *testing.T) {
	svc := NewDocumentService(&mockBlobStore{}, &mockMirror{}, nil, DocumentServiceConfig{})

	err := svc.ValidateUpload(&DocumentUpload{
		Filename: "mcu.exe",
		Size:     10,
		MimeType: "application/x-msdownload",
		Content:  strings.NewReader("x"),
	})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	assert.NoError(t, svc.ValidateUpload(&DocumentUpload{
		Filename: "mcu.PDF",
		Size:     10,
		MimeType: "Application/PDF",
		Content:  strings.NewReader("x"),
	}), "MIME comparison is case insensitive")
}

func TestDocumentServiceStoreNamesFileByYear(t *testing.T) {
	store := &mockBlobStore{}
	svc := NewDocumentService(store, &mockMirror{}, nil, DocumentServiceConfig{})

	name, err := svc.Store("EMP001", 2024, &DocumentUpload{
		Filename: "hasil_mcu_final.PDF",
		Size:     10,
		MimeType: "application/pdf",
		Content:  strings.NewReader("content"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2024.pdf", name)
	assert.Contains(t, store.saved, "EMP001/2024.pdf")
}

func TestDocumentServiceResolveFallsBackToMirror(t *testing.T) {
	svc := NewDocumentService(&mockBlobStore{exists: false}, &mockMirror{configured: true}, nil, DocumentServiceConfig{})

	download, err := svc.Resolve("EMP001", "2024.pdf")
	require.NoError(t, err)
	assert.Nil(t, download.File)
	assert.Equal(t, "https://github.com/acme/mcu-history/blob/main/mcu_files/EMP001/2024.pdf?raw=true", download.MirrorURL)
}

func TestDocumentServiceResolveNotFoundWithoutMirror(t *testing.T) {
	svc := NewDocumentService(&mockBlobStore{exists: false}, &mockMirror{configured: false}, nil, DocumentServiceConfig{})

	_, err := svc.Resolve("EMP001", "2024.pdf")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestDocumentServiceMirrorURL(t *testing.T) {
	withMirror := NewDocumentService(&mockBlobStore{}, &mockMirror{configured: true}, nil, DocumentServiceConfig{})
	assert.NotEmpty(t, withMirror.MirrorURL("EMP001", "2024.pdf"))

	withoutMirror := NewDocumentService(&mockBlobStore{}, &mockMirror{configured: false}, nil, DocumentServiceConfig{})
	assert.Empty(t, withoutMirror.MirrorURL("EMP001", "2024.pdf"))
}
