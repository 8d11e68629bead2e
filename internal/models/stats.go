package models

import "github.com/noah-isme/mcu-dashboard-api/internal/mcu"

// StatusCount is one dashboard counter row.
type StatusCount struct {
	Status mcu.Status `db:"status" json:"status"`
	Count  int        `db:"count" json:"count"`
}

// DiagnosisCount ranks diagnosis frequency across all employees.
type DiagnosisCount struct {
	Diagnosis string `db:"diagnosis" json:"diagnosis"`
	Count     int    `db:"count" json:"count"`
}

// YearCount is the number of MCU events recorded in a year.
type YearCount struct {
	Year  int `db:"mcu_year" json:"year"`
	Count int `db:"count" json:"count"`
}

// MonthCount is the number of MCU events recorded in a calendar month.
type MonthCount struct {
	Month int `db:"month" json:"month"`
	Count int `db:"count" json:"count"`
}
