package models

import (
	"time"

	"github.com/noah-isme/mcu-dashboard-api/internal/mcu"
)

// Employee is one row per unique NIK in the employee table. Work period,
// expiry, and status are derived fields materialised at write time; every
// path that changes a date recomputes them before persisting.
type Employee struct {
	ID                int64      `db:"id" json:"id"`
	NIK               string     `db:"nik" json:"nik"`
	EmployeeName      string     `db:"employee_name" json:"employee_name"`
	BirthDate         *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Position          string     `db:"position" json:"position"`
	HireDate          *time.Time `db:"hire_date" json:"hire_date,omitempty"`
	WorkPeriod        string     `db:"work_period" json:"work_period"`
	MCUDate           *time.Time `db:"mcu_date" json:"mcu_date,omitempty"`
	MCUExpired        *time.Time `db:"mcu_expired" json:"mcu_expired,omitempty"`
	FileMCUMain       *string    `db:"file_mcu_main" json:"file_mcu_main,omitempty"`
	ExaminationResult string     `db:"examination_result" json:"examination_result"`
	Diagnosis         string     `db:"diagnosis" json:"diagnosis"`
	Recommendation    string     `db:"recommendation" json:"recommendation"`
	Status            mcu.Status `db:"status" json:"status"`
	Email             string     `db:"email" json:"email"`
	ReminderSent      bool       `db:"reminder_sent" json:"reminder_sent"`
}

// EmployeeFilter captures filtering criteria for listing employees.
type EmployeeFilter struct {
	Search    string
	Position  string
	Status    mcu.Status
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
