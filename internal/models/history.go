package models

import "time"

// MCUHistory is one recorded MCU event for an employee. nik is a logical
// reference, not a database constraint, and duplicate (nik, mcu_year) pairs
// are tolerated: a re-test within the same year adds a second row.
type MCUHistory struct {
	ID             int64      `db:"id" json:"id"`
	NIK            string     `db:"nik" json:"nik"`
	MCUYear        int        `db:"mcu_year" json:"mcu_year"`
	MCUDate        *time.Time `db:"mcu_date" json:"mcu_date,omitempty"`
	ExpiredDate    *time.Time `db:"expired_date" json:"expired_date,omitempty"`
	FileName       *string    `db:"file_name" json:"file_name,omitempty"`
	Diagnosis      string     `db:"diagnosis" json:"diagnosis"`
	Recommendation string     `db:"recommendation" json:"recommendation"`
}
