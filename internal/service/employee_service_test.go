package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mcu-dashboard-api/internal/dto"
	"github.com/noah-isme/mcu-dashboard-api/internal/mcu"
	"github.com/noah-isme/mcu-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/mcu-dashboard-api/pkg/errors"
)

type mockEmployeeRepo struct {
	items      map[string]*models.Employee
	listResult []models.Employee
	listTotal  int
	listErr    error
	created    []*models.Employee
	updated    []*models.Employee
	deleted    []string
	createErr  error
}

func (m *mockEmployeeRepo) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.listResult, m.listTotal, nil
}

func (m *mockEmployeeRepo) FindByNIK(ctx context.Context, nik string) (*models.Employee, error) {
	if e, ok := m.items[nik]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEmployeeRepo) ExistsByNIK(ctx context.Context, nik string) (bool, error) {
	_, ok := m.items[nik]
	return ok, nil
}

func (m *mockEmployeeRepo) Create(ctx context.Context, employee *models.Employee) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.items == nil {
		m.items = make(map[string]*models.Employee)
	}
	cp := *employee
	m.items[employee.NIK] = &cp
	m.created = append(m.created, &cp)
	return nil
}

func (m *mockEmployeeRepo) Update(ctx context.Context, employee *models.Employee) error {
	if m.items == nil {
		m.items = make(map[string]*models.Employee)
	}
	cp := *employee
	m.items[employee.NIK] = &cp
	m.updated = append(m.updated, &cp)
	return nil
}

func (m *mockEmployeeRepo) Delete(ctx context.Context, nik string) error {
	delete(m.items, nik)
	m.deleted = append(m.deleted, nik)
	return nil
}

func (m *mockEmployeeRepo) ListAll(ctx context.Context) ([]models.Employee, error) {
	return m.listResult, m.listErr
}

func (m *mockEmployeeRepo) DistinctPositions(ctx context.Context) ([]string, error) {
	return []string{"Operator", "Technician"}, nil
}

type mockEmployeeHistoryRepo struct {
	entries     []models.MCUHistory
	created     []*models.MCUHistory
	deletedNIKs []string
	createErr   error
}

func (m *mockEmployeeHistoryRepo) ListByNIK(ctx context.Context, nik string) ([]models.MCUHistory, error) {
	return m.entries, nil
}

func (m *mockEmployeeHistoryRepo) Create(ctx context.Context, entry *models.MCUHistory) error {
	if m.createErr != nil {
		return m.createErr
	}
	cp := *entry
	m.created = append(m.created, &cp)
	return nil
}

func (m *mockEmployeeHistoryRepo) DeleteByNIK(ctx context.Context, nik string) error {
	m.deletedNIKs = append(m.deletedNIKs, nik)
	return nil
}

type mockEmployeeDocs struct {
	stored    []string
	deleted   []string
	removed   []string
	storeErr  error
	storeName string
}

func (m *mockEmployeeDocs) Store(nik string, year int, upload *DocumentUpload) (string, error) {
	if m.storeErr != nil {
		return "", m.storeErr
	}
	m.stored = append(m.stored, nik)
	if m.storeName != "" {
		return m.storeName, nil
	}
	return "2024.pdf", nil
}

func (m *mockEmployeeDocs) Delete(nik, fileName string) error {
	m.deleted = append(m.deleted, nik+"/"+fileName)
	return nil
}

func (m *mockEmployeeDocs) RemoveAll(nik string) {
	m.removed = append(m.removed, nik)
}

func newEmployeeService(repo *mockEmployeeRepo, history *mockEmployeeHistoryRepo, docs *mockEmployeeDocs, now time.Time) *EmployeeService {
	svc := NewEmployeeService(repo, history, docs, nil, nil, nil)
	svc.now = func() time.Time { return now }
	return svc
}

func TestEmployeeServiceCreateDerivesFields(t *testing.T) {
	repo := &mockEmployeeRepo{}
	history := &mockEmployeeHistoryRepo{}
	docs := &mockEmployeeDocs{}
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	svc := newEmployeeService(repo, history, docs, now)

	created, err := svc.Create(context.Background(), dto.CreateEmployeeRequest{
		NIK:          "EMP001",
		EmployeeName: "Budi Santoso",
		Position:     "Operator",
		HireDate:     "2021-01-15",
		MCUDate:      "2024-03-10",
		Diagnosis:    "Fit",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, mcu.StatusActive, created.Status)
	require.NotNil(t, created.MCUExpired)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), *created.MCUExpired)
	// 2021-01-15 to 2024-06-01 is 1232 days: 3 years plus 137/30 months.
	assert.Equal(t, "3 year(s) 4 month(s)", created.WorkPeriod)

	require.Len(t, history.created, 1)
	assert.Equal(t, "EMP001", history.created[0].NIK)
	assert.Equal(t, 2024, history.created[0].MCUYear)
	assert.Equal(t, "Fit", history.created[0].Diagnosis)
}

func TestEmployeeServiceCreateWithoutMCUDate(t *testing.T) {
	repo := &mockEmployeeRepo{}
	history := &mockEmployeeHistoryRepo{}
	svc := newEmployeeService(repo, history, &mockEmployeeDocs{}, time.Now())

	created, err := svc.Create(context.Background(), dto.CreateEmployeeRequest{
		NIK:          "EMP002",
		EmployeeName: "Siti Rahma",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, mcu.StatusNoMCU, created.Status)
	assert.Nil(t, created.MCUExpired)
	assert.Empty(t, history.created)
}

func TestEmployeeServiceCreateInsertFailureRemovesDocument(t *testing.T) {
	repo := &mockEmployeeRepo{createErr: errors.New("insert failed")}
	docs := &mockEmployeeDocs{}
	svc := newEmployeeService(repo, &mockEmployeeHistoryRepo{}, docs, time.Now())

	_, err := svc.Create(context.Background(), dto.CreateEmployeeRequest{
		NIK:          "EMP001",
		EmployeeName: "Budi Santoso",
		MCUDate:      "2024-03-10",
	}, &DocumentUpload{Filename: "mcu.pdf", Size: 10, Content: nilReader{}})
	require.Error(t, err)

	// The blob stored before the failed insert must not be left behind.
	require.Len(t, docs.stored, 1)
	assert.Equal(t, []string{"EMP001/2024.pdf"}, docs.deleted)
	assert.Empty(t, repo.created)
}

func TestEmployeeServiceCreateDuplicateNIKLeavesNoWrites(t *testing.T) {
	repo := &mockEmployeeRepo{items: map[string]*models.Employee{
		"EMP001": {NIK: "EMP001", EmployeeName: "Budi Santoso"},
	}}
	history := &mockEmployeeHistoryRepo{}
	docs := &mockEmployeeDocs{}
	svc := newEmployeeService(repo, history, docs, time.Now())

	_, err := svc.Create(context.Background(), dto.CreateEmployeeRequest{
		NIK:          "EMP001",
		EmployeeName: "Impostor",
		MCUDate:      "2024-03-10",
	}, &DocumentUpload{Filename: "mcu.pdf", Size: 10, Content: nilReader{}})

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrDuplicateNIK.Code, appErr.Code)
	assert.Empty(t, repo.created)
	assert.Empty(t, history.created)
	assert.Empty(t, docs.stored)
}

func TestEmployeeServiceCreateRejectsBadDate(t *testing.T) {
	svc := newEmployeeService(&mockEmployeeRepo{}, &mockEmployeeHistoryRepo{}, &mockEmployeeDocs{}, time.Now())

	_, err := svc.Create(context.Background(), dto.CreateEmployeeRequest{
		NIK:          "EMP003",
		EmployeeName: "Andi",
		MCUDate:      "10-03-2024",
	}, nil)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestEmployeeServiceUpdateRederivesStatus(t *testing.T) {
	old := time.Date(2022, 1, 10, 0, 0, 0, 0, time.UTC)
	oldExpiry := old.Add(mcu.ValidityPeriod)
	repo := &mockEmployeeRepo{items: map[string]*models.Employee{
		"EMP001": {
			NIK:          "EMP001",
			EmployeeName: "Budi Santoso",
			MCUDate:      &old,
			MCUExpired:   &oldExpiry,
			Status:       mcu.StatusExpired,
			ReminderSent: true,
		},
	}}
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	svc := newEmployeeService(repo, &mockEmployeeHistoryRepo{}, &mockEmployeeDocs{}, now)

	updated, err := svc.Update(context.Background(), "EMP001", dto.UpdateEmployeeRequest{
		EmployeeName: "Budi Santoso",
		MCUDate:      "2024-05-20",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, mcu.StatusActive, updated.Status)
	require.NotNil(t, updated.MCUExpired)
	assert.Equal(t, time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC), *updated.MCUExpired)
	assert.False(t, updated.ReminderSent, "fresh MCU date should clear the reminder flag")
}

func TestEmployeeServiceUpdateSameMCUDateKeepsReminderFlag(t *testing.T) {
	mcuDate := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	repo := &mockEmployeeRepo{items: map[string]*models.Employee{
		"EMP001": {
			NIK:          "EMP001",
			EmployeeName: "Budi Santoso",
			MCUDate:      &mcuDate,
			ReminderSent: true,
		},
	}}
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	svc := newEmployeeService(repo, &mockEmployeeHistoryRepo{}, &mockEmployeeDocs{}, now)

	updated, err := svc.Update(context.Background(), "EMP001", dto.UpdateEmployeeRequest{
		EmployeeName: "Budi S.",
		MCUDate:      "2024-05-20",
	}, nil)
	require.NoError(t, err)

	assert.True(t, updated.ReminderSent)
	assert.Equal(t, mcu.StatusWillExpire, updated.Status)
}

func TestEmployeeServiceUpdateNotFound(t *testing.T) {
	svc := newEmployeeService(&mockEmployeeRepo{}, &mockEmployeeHistoryRepo{}, &mockEmployeeDocs{}, time.Now())

	_, err := svc.Update(context.Background(), "MISSING", dto.UpdateEmployeeRequest{EmployeeName: "X"}, nil)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestEmployeeServiceDeleteCascades(t *testing.T) {
	repo := &mockEmployeeRepo{items: map[string]*models.Employee{
		"EMP001": {NIK: "EMP001"},
	}}
	history := &mockEmployeeHistoryRepo{}
	docs := &mockEmployeeDocs{}
	svc := newEmployeeService(repo, history, docs, time.Now())

	require.NoError(t, svc.Delete(context.Background(), "EMP001"))
	assert.Equal(t, []string{"EMP001"}, history.deletedNIKs)
	assert.Equal(t, []string{"EMP001"}, docs.removed)
	assert.Equal(t, []string{"EMP001"}, repo.deleted)

	// Deleting again succeeds: the cascade is idempotent.
	require.NoError(t, svc.Delete(context.Background(), "EMP001"))
}

func TestEmployeeServiceRefreshStatusesCountsDrift(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	staleDate := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	staleExpiry := staleDate.Add(mcu.ValidityPeriod)
	freshDate := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	freshExpiry := freshDate.Add(mcu.ValidityPeriod)

	repo := &mockEmployeeRepo{listResult: []models.Employee{
		{NIK: "EMP001", MCUDate: &staleDate, MCUExpired: &staleExpiry, Status: mcu.StatusActive, WorkPeriod: "0 year"},
		{NIK: "EMP002", MCUDate: &freshDate, MCUExpired: &freshExpiry, Status: mcu.StatusActive, WorkPeriod: "0 year"},
	}}
	svc := newEmployeeService(repo, &mockEmployeeHistoryRepo{}, &mockEmployeeDocs{}, now)

	updated, err := svc.RefreshStatuses(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, updated, "only the row whose status drifted is rewritten")
	require.Len(t, repo.updated, 1)
	assert.Equal(t, "EMP001", repo.updated[0].NIK)
	assert.Equal(t, mcu.StatusExpired, repo.updated[0].Status)
}

func TestEmployeeServiceListRejectsUnknownStatus(t *testing.T) {
	svc := newEmployeeService(&mockEmployeeRepo{}, &mockEmployeeHistoryRepo{}, &mockEmployeeDocs{}, time.Now())

	_, _, err := svc.List(context.Background(), models.EmployeeFilter{Status: "Bogus"})

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestEmployeeServiceListPaginationDefaults(t *testing.T) {
	repo := &mockEmployeeRepo{listResult: []models.Employee{{NIK: "EMP001"}}, listTotal: 42}
	svc := newEmployeeService(repo, &mockEmployeeHistoryRepo{}, &mockEmployeeDocs{}, time.Now())

	_, pagination, err := svc.List(context.Background(), models.EmployeeFilter{})
	require.NoError(t, err)

	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 42, pagination.TotalCount)
}

func TestEmployeeServiceGetNotFound(t *testing.T) {
	svc := newEmployeeService(&mockEmployeeRepo{}, &mockEmployeeHistoryRepo{}, &mockEmployeeDocs{}, time.Now())

	_, err := svc.Get(context.Background(), "MISSING")

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

type nilReader struct{}

func (nilReader) Read(p []byte) (int, error) { return 0, nil }
