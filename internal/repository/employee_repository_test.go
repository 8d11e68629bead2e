package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mcu-dashboard-api/internal/mcu"
	"github.com/noah-isme/mcu-dashboard-api/internal/models"
)

func newEmployeeMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func employeeRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "nik", "employee_name", "birth_date", "position", "hire_date", "work_period",
		"mcu_date", "mcu_expired", "file_mcu_main", "examination_result", "diagnosis",
		"recommendation", "status", "email", "reminder_sent",
	}).AddRow(1, "EMP-1", "Jane Roe", now, "Technician", now, "2 year(s) 1 month(s)",
		now, now, "2024.pdf", "Fit", "None", "None", mcu.StatusActive, "jane@example.com", false)
}

func TestEmployeeRepositoryList(t *testing.T) {
	db, mock, cleanup := newEmployeeMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery("SELECT id, nik, employee_name, .+ FROM employee WHERE 1=1 ORDER BY nik ASC LIMIT 20 OFFSET 0").
		WillReturnRows(employeeRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM employee WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	employees, total, err := repo.List(context.Background(), models.EmployeeFilter{})
	require.NoError(t, err)
	assert.Len(t, employees, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryListFiltersByPositionAndStatus(t *testing.T) {
	db, mock, cleanup := newEmployeeMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery(`SELECT id, nik, employee_name, .+ FROM employee WHERE 1=1 AND position = \$1 AND status = \$2`).
		WithArgs("Technician", mcu.StatusExpired).
		WillReturnRows(employeeRows())
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM employee WHERE 1=1 AND position = \$1 AND status = \$2`).
		WithArgs("Technician", mcu.StatusExpired).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, _, err := repo.List(context.Background(), models.EmployeeFilter{Position: "Technician", Status: mcu.StatusExpired})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryExistsByNIK(t *testing.T) {
	db, mock, cleanup := newEmployeeMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM employee WHERE nik = $1 LIMIT 1")).
		WithArgs("EMP-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsByNIK(context.Background(), "EMP-1")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM employee WHERE nik = $1 LIMIT 1")).
		WithArgs("EMP-2").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err = repo.ExistsByNIK(context.Background(), "EMP-2")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newEmployeeMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectExec("INSERT INTO employee").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), &models.Employee{
		NIK:          "EMP-1",
		EmployeeName: "Jane Roe",
		Status:       mcu.StatusNoMCU,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryDeleteAndMarkReminder(t *testing.T) {
	db, mock, cleanup := newEmployeeMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM employee WHERE nik = $1")).
		WithArgs("EMP-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "EMP-1"))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE employee SET reminder_sent = TRUE WHERE nik = $1")).
		WithArgs("EMP-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.MarkReminderSent(context.Background(), "EMP-1"))

	assert.NoError(t, mock.ExpectationsWereMet())
}
