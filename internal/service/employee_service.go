package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mcu-dashboard-api/internal/dto"
	"github.com/noah-isme/mcu-dashboard-api/internal/mcu"
	"github.com/noah-isme/mcu-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/mcu-dashboard-api/pkg/errors"
)

type employeeStore interface {
	List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error)
	FindByNIK(ctx context.Context, nik string) (*models.Employee, error)
	ExistsByNIK(ctx context.Context, nik string) (bool, error)
	Create(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, nik string) error
	ListAll(ctx context.Context) ([]models.Employee, error)
	DistinctPositions(ctx context.Context) ([]string, error)
}

type employeeHistoryStore interface {
	ListByNIK(ctx context.Context, nik string) ([]models.MCUHistory, error)
	Create(ctx context.Context, entry *models.MCUHistory) error
	DeleteByNIK(ctx context.Context, nik string) error
}

type employeeDocuments interface {
	Store(nik string, year int, upload *DocumentUpload) (string, error)
	Delete(nik, fileName string) error
	RemoveAll(nik string)
}

// EmployeeService implements the MCU record lifecycle. Work period, expiry
// and status are derived fields: every write path recomputes them against
// the wall clock before persisting, and never trusts caller input for them.
type EmployeeService struct {
	repo      employeeStore
	history   employeeHistoryStore
	documents employeeDocuments
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewEmployeeService constructs an EmployeeService.
func NewEmployeeService(repo employeeStore, history employeeHistoryStore, documents employeeDocuments, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *EmployeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{
		repo:      repo,
		history:   history,
		documents: documents,
		cache:     cache,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns employees matching the filter with pagination metadata.
func (s *EmployeeService) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, *models.Pagination, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown status filter")
	}
	employees, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list employees")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return employees, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Positions returns the distinct position values for filter dropdowns.
func (s *EmployeeService) Positions(ctx context.Context) ([]string, error) {
	positions, err := s.repo.DistinctPositions(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list positions")
	}
	return positions, nil
}

// Get returns one employee with its full MCU history, newest year first.
func (s *EmployeeService) Get(ctx context.Context, nik string) (*dto.EmployeeDetailResponse, error) {
	employee, err := s.repo.FindByNIK(ctx, nik)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	history, err := s.history.ListByNIK(ctx, nik)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mcu history")
	}
	return &dto.EmployeeDetailResponse{Employee: *employee, History: history}, nil
}

// Create registers a new employee record. The NIK must be unused; the check
// runs before any write so a duplicate leaves no partial state behind. When
// an MCU date is present the derived fields are computed and a matching
// history entry is recorded alongside the optional document.
func (s *EmployeeService) Create(ctx context.Context, req dto.CreateEmployeeRequest, upload *DocumentUpload) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	exists, err := s.repo.ExistsByNIK(ctx, req.NIK)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check nik")
	}
	if exists {
		return nil, appErrors.ErrDuplicateNIK
	}

	employee := &models.Employee{
		NIK:               req.NIK,
		EmployeeName:      req.EmployeeName,
		Position:          req.Position,
		ExaminationResult: req.ExaminationResult,
		Diagnosis:         req.Diagnosis,
		Recommendation:    req.Recommendation,
		Email:             req.Email,
	}
	if employee.BirthDate, err = parseDate(req.BirthDate); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid birth_date")
	}
	if employee.HireDate, err = parseDate(req.HireDate); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid hire_date")
	}
	if employee.MCUDate, err = parseDate(req.MCUDate); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid mcu_date")
	}
	s.recompute(employee)

	if upload != nil && upload.Content != nil {
		if employee.MCUDate == nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "mcu_date is required when uploading a document")
		}
		fileName, err := s.documents.Store(employee.NIK, employee.MCUDate.Year(), upload)
		if err != nil {
			return nil, err
		}
		employee.FileMCUMain = &fileName
	}

	if err := s.repo.Create(ctx, employee); err != nil {
		if employee.FileMCUMain != nil {
			if delErr := s.documents.Delete(employee.NIK, *employee.FileMCUMain); delErr != nil {
				s.logger.Warn("failed to remove orphaned document",
					zap.String("nik", employee.NIK), zap.String("file", *employee.FileMCUMain), zap.Error(delErr))
			}
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create employee")
	}

	if employee.MCUDate != nil {
		entry := &models.MCUHistory{
			NIK:            employee.NIK,
			MCUYear:        employee.MCUDate.Year(),
			MCUDate:        employee.MCUDate,
			ExpiredDate:    employee.MCUExpired,
			FileName:       employee.FileMCUMain,
			Diagnosis:      employee.Diagnosis,
			Recommendation: employee.Recommendation,
		}
		if err := s.history.Create(ctx, entry); err != nil {
			s.logger.Warn("failed to record initial mcu history", zap.String("nik", employee.NIK), zap.Error(err))
		}
	}

	s.invalidateDashboard(ctx)
	return employee, nil
}

// Update edits an employee record in place. Derived fields are always
// recomputed from the submitted dates; any status the caller might send is
// ignored. A fresh MCU date clears the reminder flag.
func (s *EmployeeService) Update(ctx context.Context, nik string, req dto.UpdateEmployeeRequest, upload *DocumentUpload) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	employee, err := s.repo.FindByNIK(ctx, nik)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	previousMCU := employee.MCUDate

	employee.EmployeeName = req.EmployeeName
	employee.Position = req.Position
	employee.ExaminationResult = req.ExaminationResult
	employee.Diagnosis = req.Diagnosis
	employee.Recommendation = req.Recommendation
	employee.Email = req.Email
	if employee.BirthDate, err = parseDate(req.BirthDate); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid birth_date")
	}
	if employee.HireDate, err = parseDate(req.HireDate); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid hire_date")
	}
	if employee.MCUDate, err = parseDate(req.MCUDate); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid mcu_date")
	}
	s.recompute(employee)

	if !sameDate(previousMCU, employee.MCUDate) {
		employee.ReminderSent = false
	}

	if upload != nil && upload.Content != nil {
		if employee.MCUDate == nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "mcu_date is required when uploading a document")
		}
		fileName, err := s.documents.Store(employee.NIK, employee.MCUDate.Year(), upload)
		if err != nil {
			return nil, err
		}
		employee.FileMCUMain = &fileName
	}

	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update employee")
	}

	s.invalidateDashboard(ctx)
	return employee, nil
}

// Delete removes an employee with its history rows and stored documents.
// The cascade is best effort and idempotent: blob cleanup failures are
// logged, and deleting an absent NIK succeeds.
func (s *EmployeeService) Delete(ctx context.Context, nik string) error {
	if err := s.history.DeleteByNIK(ctx, nik); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete mcu history")
	}
	s.documents.RemoveAll(nik)
	if err := s.repo.Delete(ctx, nik); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete employee")
	}
	s.invalidateDashboard(ctx)
	return nil
}

// RefreshStatuses re-derives status and work period for every employee and
// persists the rows that drifted since their last write. Returns the number
// of rows updated.
func (s *EmployeeService) RefreshStatuses(ctx context.Context) (int, error) {
	employees, err := s.repo.ListAll(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list employees")
	}
	updated := 0
	for i := range employees {
		employee := employees[i]
		prevStatus := employee.Status
		prevPeriod := employee.WorkPeriod
		s.recompute(&employee)
		if employee.Status == prevStatus && employee.WorkPeriod == prevPeriod {
			continue
		}
		if err := s.repo.Update(ctx, &employee); err != nil {
			s.logger.Warn("status refresh failed", zap.String("nik", employee.NIK), zap.Error(err))
			continue
		}
		updated++
	}
	if updated > 0 {
		s.invalidateDashboard(ctx)
	}
	return updated, nil
}

func (s *EmployeeService) recompute(employee *models.Employee) {
	now := s.now()
	employee.WorkPeriod = mcu.Tenure(employee.HireDate, now)
	employee.MCUExpired = mcu.Expiry(employee.MCUDate)
	employee.Status = mcu.Classify(employee.MCUExpired, now)
}

func (s *EmployeeService) invalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "dash:*"); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
