package dto

import "github.com/noah-isme/mcu-dashboard-api/internal/models"

// CreateEmployeeRequest carries the multipart form fields of a new record.
// Dates arrive as YYYY-MM-DD strings. Status is never accepted from the
// caller; it is derived from the MCU date on the server.
type CreateEmployeeRequest struct {
	NIK               string `form:"nik" json:"nik" validate:"required,max=64"`
	EmployeeName      string `form:"employee_name" json:"employee_name" validate:"required,max=255"`
	BirthDate         string `form:"birth_date" json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Position          string `form:"position" json:"position" validate:"max=255"`
	HireDate          string `form:"hire_date" json:"hire_date" validate:"omitempty,datetime=2006-01-02"`
	MCUDate           string `form:"mcu_date" json:"mcu_date" validate:"omitempty,datetime=2006-01-02"`
	ExaminationResult string `form:"examination_result" json:"examination_result"`
	Diagnosis         string `form:"diagnosis" json:"diagnosis"`
	Recommendation    string `form:"recommendation" json:"recommendation"`
	Email             string `form:"email" json:"email" validate:"omitempty,email"`
}

// UpdateEmployeeRequest mirrors the create form for full-record edits.
type UpdateEmployeeRequest struct {
	EmployeeName      string `form:"employee_name" json:"employee_name" validate:"required,max=255"`
	BirthDate         string `form:"birth_date" json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Position          string `form:"position" json:"position" validate:"max=255"`
	HireDate          string `form:"hire_date" json:"hire_date" validate:"omitempty,datetime=2006-01-02"`
	MCUDate           string `form:"mcu_date" json:"mcu_date" validate:"omitempty,datetime=2006-01-02"`
	ExaminationResult string `form:"examination_result" json:"examination_result"`
	Diagnosis         string `form:"diagnosis" json:"diagnosis"`
	Recommendation    string `form:"recommendation" json:"recommendation"`
	Email             string `form:"email" json:"email" validate:"omitempty,email"`
}

// EmployeeDetailResponse pairs a record with its full MCU history.
type EmployeeDetailResponse struct {
	Employee models.Employee     `json:"employee"`
	History  []models.MCUHistory `json:"history"`
}
