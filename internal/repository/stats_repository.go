package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mcu-dashboard-api/internal/models"
)

// StatsRepository runs the aggregate queries behind the dashboard.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository constructs a StatsRepository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// CountByStatus returns employee counts grouped by MCU status.
func (r *StatsRepository) CountByStatus(ctx context.Context) ([]models.StatusCount, error) {
	const query = `SELECT status, COUNT(*) AS count FROM employee GROUP BY status`
	var counts []models.StatusCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	return counts, nil
}

// TopDiagnoses lists the most frequent non-empty diagnoses. Ties break
// alphabetically so the ranking is stable between refreshes.
func (r *StatsRepository) TopDiagnoses(ctx context.Context, limit int) ([]models.DiagnosisCount, error) {
	if limit <= 0 {
		limit = 5
	}
	const query = `SELECT diagnosis, COUNT(*) AS count FROM employee
        WHERE diagnosis IS NOT NULL AND diagnosis <> '' AND LOWER(diagnosis) <> 'none'
        GROUP BY diagnosis ORDER BY count DESC, diagnosis ASC LIMIT $1`
	var counts []models.DiagnosisCount
	if err := r.db.SelectContext(ctx, &counts, query, limit); err != nil {
		return nil, fmt.Errorf("top diagnoses: %w", err)
	}
	return counts, nil
}

// Ages returns the age in whole years of every employee with a birth date.
func (r *StatsRepository) Ages(ctx context.Context) ([]int, error) {
	const query = `SELECT EXTRACT(YEAR FROM AGE(CURRENT_DATE, birth_date))::int AS age
        FROM employee WHERE birth_date IS NOT NULL`
	var ages []int
	if err := r.db.SelectContext(ctx, &ages, query); err != nil {
		return nil, fmt.Errorf("employee ages: %w", err)
	}
	return ages, nil
}

// YearlyTrend counts MCU events per recorded year, oldest first.
func (r *StatsRepository) YearlyTrend(ctx context.Context) ([]models.YearCount, error) {
	const query = `SELECT mcu_year, COUNT(*) AS count FROM mcu_history GROUP BY mcu_year ORDER BY mcu_year ASC`
	var counts []models.YearCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("yearly trend: %w", err)
	}
	return counts, nil
}

// MonthlyTrend counts MCU events per calendar month within a year.
func (r *StatsRepository) MonthlyTrend(ctx context.Context, year int) ([]models.MonthCount, error) {
	const query = `SELECT EXTRACT(MONTH FROM mcu_date)::int AS month, COUNT(*) AS count
        FROM mcu_history WHERE mcu_date IS NOT NULL AND mcu_year = $1
        GROUP BY month ORDER BY month ASC`
	var counts []models.MonthCount
	if err := r.db.SelectContext(ctx, &counts, query, year); err != nil {
		return nil, fmt.Errorf("monthly trend: %w", err)
	}
	return counts, nil
}
