package dto

// CreateHistoryRequest carries the form fields of a new MCU history entry.
// The document upload itself travels alongside as a multipart file part and
// is mandatory.
type CreateHistoryRequest struct {
	MCUYear        int    `form:"mcu_year" json:"mcu_year" validate:"required,min=1990,max=2100"`
	MCUDate        string `form:"mcu_date" json:"mcu_date" validate:"omitempty,datetime=2006-01-02"`
	Diagnosis      string `form:"diagnosis" json:"diagnosis"`
	Recommendation string `form:"recommendation" json:"recommendation"`
}
