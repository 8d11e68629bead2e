package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mcu-dashboard-api/internal/models"
)

const historyColumns = `id, nik, mcu_year, mcu_date, expired_date, file_name, diagnosis, recommendation`

// HistoryRepository manages persistence for MCU history entries.
type HistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository constructs a HistoryRepository.
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// ListByNIK returns an employee's history entries, most recent year first.
func (r *HistoryRepository) ListByNIK(ctx context.Context, nik string) ([]models.MCUHistory, error) {
	query := fmt.Sprintf("SELECT %s FROM mcu_history WHERE nik = $1 ORDER BY mcu_year DESC, id DESC", historyColumns)
	var entries []models.MCUHistory
	if err := r.db.SelectContext(ctx, &entries, query, nik); err != nil {
		return nil, fmt.Errorf("list mcu history: %w", err)
	}
	return entries, nil
}

// FindByID fetches a single history entry.
func (r *HistoryRepository) FindByID(ctx context.Context, id int64) (*models.MCUHistory, error) {
	query := fmt.Sprintf("SELECT %s FROM mcu_history WHERE id = $1 LIMIT 1", historyColumns)
	var entry models.MCUHistory
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create inserts a new history entry. No uniqueness check on (nik, mcu_year):
// duplicate years are accepted.
func (r *HistoryRepository) Create(ctx context.Context, entry *models.MCUHistory) error {
	const query = `INSERT INTO mcu_history (nik, mcu_year, mcu_date, expired_date, file_name, diagnosis, recommendation)
        VALUES (:nik, :mcu_year, :mcu_date, :expired_date, :file_name, :diagnosis, :recommendation)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create mcu history: %w", err)
	}
	return nil
}

// DeleteByID removes one history entry.
func (r *HistoryRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM mcu_history WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete mcu history: %w", err)
	}
	return nil
}

// DeleteByNIK removes every history entry for an employee.
func (r *HistoryRepository) DeleteByNIK(ctx context.Context, nik string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM mcu_history WHERE nik = $1", nik); err != nil {
		return fmt.Errorf("delete mcu history by nik: %w", err)
	}
	return nil
}
