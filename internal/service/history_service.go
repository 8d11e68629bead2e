package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mcu-dashboard-api/internal/dto"
	"github.com/noah-isme/mcu-dashboard-api/internal/mcu"
	"github.com/noah-isme/mcu-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/mcu-dashboard-api/pkg/errors"
)

type historyStore interface {
	ListByNIK(ctx context.Context, nik string) ([]models.MCUHistory, error)
	FindByID(ctx context.Context, id int64) (*models.MCUHistory, error)
	Create(ctx context.Context, entry *models.MCUHistory) error
	DeleteByID(ctx context.Context, id int64) error
}

type historyEmployeeChecker interface {
	ExistsByNIK(ctx context.Context, nik string) (bool, error)
}

type historyDocuments interface {
	Store(nik string, year int, upload *DocumentUpload) (string, error)
	Delete(nik, fileName string) error
}

// HistoryService manages per-employee MCU history entries. Duplicate years
// are accepted: a re-test within the same year simply adds another entry.
type HistoryService struct {
	repo      historyStore
	employees historyEmployeeChecker
	documents historyDocuments
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewHistoryService constructs a HistoryService.
func NewHistoryService(repo historyStore, employees historyEmployeeChecker, documents historyDocuments, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *HistoryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryService{
		repo:      repo,
		employees: employees,
		documents: documents,
		cache:     cache,
		validator: validate,
		logger:    logger,
	}
}

// List returns the employee's history entries, most recent year first.
func (s *HistoryService) List(ctx context.Context, nik string) ([]models.MCUHistory, error) {
	exists, err := s.employees.ExistsByNIK(ctx, nik)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check nik")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
	}
	entries, err := s.repo.ListByNIK(ctx, nik)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list mcu history")
	}
	return entries, nil
}

// Create records a new history entry. The document upload is mandatory; the
// entry's expiry is derived from its MCU date.
func (s *HistoryService) Create(ctx context.Context, nik string, req dto.CreateHistoryRequest, upload *DocumentUpload) (*models.MCUHistory, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if upload == nil || upload.Content == nil {
		return nil, appErrors.ErrNoDocument
	}
	exists, err := s.employees.ExistsByNIK(ctx, nik)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check nik")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
	}

	entry := &models.MCUHistory{
		NIK:            nik,
		MCUYear:        req.MCUYear,
		Diagnosis:      req.Diagnosis,
		Recommendation: req.Recommendation,
	}
	if entry.MCUDate, err = parseDate(req.MCUDate); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid mcu_date")
	}
	entry.ExpiredDate = mcu.Expiry(entry.MCUDate)

	fileName, err := s.documents.Store(nik, req.MCUYear, upload)
	if err != nil {
		return nil, err
	}
	entry.FileName = &fileName

	if err := s.repo.Create(ctx, entry); err != nil {
		if delErr := s.documents.Delete(nik, fileName); delErr != nil {
			s.logger.Warn("failed to remove orphaned document",
				zap.String("nik", nik), zap.String("file", fileName), zap.Error(delErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create mcu history")
	}

	s.invalidateDashboard(ctx)
	return entry, nil
}

// Delete removes one history entry together with its stored document. The
// blob goes first; a missing file does not block row removal.
func (s *HistoryService) Delete(ctx context.Context, nik string, id int64) error {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "mcu history entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mcu history entry")
	}
	if entry.NIK != nik {
		return appErrors.Clone(appErrors.ErrNotFound, "mcu history entry not found")
	}
	if entry.FileName != nil {
		if err := s.documents.Delete(nik, *entry.FileName); err != nil {
			s.logger.Warn("history document cleanup failed", zap.String("nik", nik), zap.Int64("id", id), zap.Error(err))
		}
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete mcu history entry")
	}
	s.invalidateDashboard(ctx)
	return nil
}

func (s *HistoryService) invalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "dash:*"); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}
