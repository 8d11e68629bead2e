package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/mcu-dashboard-api/internal/mcu"
	"github.com/noah-isme/mcu-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/mcu-dashboard-api/pkg/errors"
)

type reminderEmployeeStore interface {
	ListByStatus(ctx context.Context, status mcu.Status) ([]models.Employee, error)
	MarkReminderSent(ctx context.Context, nik string) error
}

type reminderMailer interface {
	Configured() bool
	SendReminder(ctx context.Context, to, employeeName string, expiredDate time.Time, mcuYear int) error
}

// ReminderService emails employees whose MCU is about to lapse. Each record
// is reminded at most once per MCU cycle; the flag resets when a new MCU
// date is recorded.
type ReminderService struct {
	employees reminderEmployeeStore
	mailer    reminderMailer
	logger    *zap.Logger
	enabled   bool
}

// NewReminderService constructs a ReminderService.
func NewReminderService(employees reminderEmployeeStore, mailer reminderMailer, logger *zap.Logger, enabled bool) *ReminderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderService{
		employees: employees,
		mailer:    mailer,
		logger:    logger,
		enabled:   enabled,
	}
}

// Enabled reports whether sweeps will actually send mail.
func (s *ReminderService) Enabled() bool {
	return s != nil && s.enabled && s.mailer != nil && s.mailer.Configured()
}

// Sweep sends a reminder to every employee in the warning window that has an
// email address and has not been reminded yet. The flag is only set after a
// successful send so failed deliveries retry on the next sweep. Returns the
// number of reminders sent.
func (s *ReminderService) Sweep(ctx context.Context) (int, error) {
	if !s.Enabled() {
		return 0, nil
	}
	employees, err := s.employees.ListByStatus(ctx, mcu.StatusWillExpire)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list expiring employees")
	}
	sent := 0
	for _, employee := range employees {
		if employee.ReminderSent || employee.Email == "" || employee.MCUExpired == nil {
			continue
		}
		year := 0
		if employee.MCUDate != nil {
			year = employee.MCUDate.Year()
		}
		if err := s.mailer.SendReminder(ctx, employee.Email, employee.EmployeeName, *employee.MCUExpired, year); err != nil {
			s.logger.Warn("reminder send failed", zap.String("nik", employee.NIK), zap.Error(err))
			continue
		}
		if err := s.employees.MarkReminderSent(ctx, employee.NIK); err != nil {
			s.logger.Warn("failed to mark reminder sent", zap.String("nik", employee.NIK), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}
