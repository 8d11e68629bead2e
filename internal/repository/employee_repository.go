package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mcu-dashboard-api/internal/mcu"
	"github.com/noah-isme/mcu-dashboard-api/internal/models"
)

const employeeColumns = `id, nik, employee_name, birth_date, position, hire_date, work_period, mcu_date, mcu_expired,
        file_mcu_main, examination_result, diagnosis, recommendation, status, email, reminder_sent`

// EmployeeRepository manages persistence for employee MCU records.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository constructs an EmployeeRepository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// List returns employees matching the provided filters.
func (r *EmployeeRepository) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(nik) LIKE $%d OR LOWER(employee_name) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Position != "" {
		conditions = append(conditions, fmt.Sprintf("position = $%d", len(args)+1))
		args = append(args, filter.Position)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	where := strings.Join(conditions, " AND ")

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"nik":           "nik",
		"employee_name": "employee_name",
		"mcu_expired":   "mcu_expired",
		"status":        "status",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "nik"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM employee WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d",
		employeeColumns, where, column, order, size, offset)

	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM employee WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}
	return employees, total, nil
}

// FindByNIK fetches an employee row by its natural key.
func (r *EmployeeRepository) FindByNIK(ctx context.Context, nik string) (*models.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM employee WHERE nik = $1 LIMIT 1", employeeColumns)
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, nik); err != nil {
		return nil, err
	}
	return &employee, nil
}

// ExistsByNIK checks if an employee with the given NIK exists.
func (r *EmployeeRepository) ExistsByNIK(ctx context.Context, nik string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM employee WHERE nik = $1 LIMIT 1", nik); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check nik: %w", err)
	}
	return true, nil
}

// Create inserts a new employee record.
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	const query = `INSERT INTO employee (nik, employee_name, birth_date, position, hire_date, work_period, mcu_date, mcu_expired,
        file_mcu_main, examination_result, diagnosis, recommendation, status, email, reminder_sent)
        VALUES (:nik, :employee_name, :birth_date, :position, :hire_date, :work_period, :mcu_date, :mcu_expired,
        :file_mcu_main, :examination_result, :diagnosis, :recommendation, :status, :email, :reminder_sent)`
	if _, err := r.db.NamedExecContext(ctx, query, employee); err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

// Update replaces every mutable field of an employee in a single statement.
// The NIK itself is immutable and addresses the row.
func (r *EmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	const query = `UPDATE employee SET employee_name = :employee_name, birth_date = :birth_date, position = :position,
        hire_date = :hire_date, work_period = :work_period, mcu_date = :mcu_date, mcu_expired = :mcu_expired,
        file_mcu_main = :file_mcu_main, examination_result = :examination_result, diagnosis = :diagnosis,
        recommendation = :recommendation, status = :status, email = :email, reminder_sent = :reminder_sent
        WHERE nik = :nik`
	if _, err := r.db.NamedExecContext(ctx, query, employee); err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	return nil
}

// Delete removes the employee row by NIK.
func (r *EmployeeRepository) Delete(ctx context.Context, nik string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM employee WHERE nik = $1", nik); err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	return nil
}

// MarkReminderSent flips the reminder flag after a confirmed delivery.
func (r *EmployeeRepository) MarkReminderSent(ctx context.Context, nik string) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE employee SET reminder_sent = TRUE WHERE nik = $1", nik); err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	return nil
}

// ListByStatus returns every employee currently classified with the status.
func (r *EmployeeRepository) ListByStatus(ctx context.Context, status mcu.Status) ([]models.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM employee WHERE status = $1 ORDER BY nik ASC", employeeColumns)
	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, query, status); err != nil {
		return nil, fmt.Errorf("list employees by status: %w", err)
	}
	return employees, nil
}

// ListAll returns every employee row ordered by NIK.
func (r *EmployeeRepository) ListAll(ctx context.Context) ([]models.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM employee ORDER BY nik ASC", employeeColumns)
	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, query); err != nil {
		return nil, fmt.Errorf("list all employees: %w", err)
	}
	return employees, nil
}

// DistinctPositions returns the sorted set of positions present in the table.
func (r *EmployeeRepository) DistinctPositions(ctx context.Context) ([]string, error) {
	var positions []string
	const query = `SELECT DISTINCT position FROM employee WHERE position IS NOT NULL AND position <> '' ORDER BY position ASC`
	if err := r.db.SelectContext(ctx, &positions, query); err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	return positions, nil
}
