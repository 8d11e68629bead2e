package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Schema bootstrap keeps parity with the legacy tool: tables are created on
// startup when absent, no migration tooling is involved.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS employee (
		id SERIAL PRIMARY KEY,
		nik TEXT UNIQUE NOT NULL,
		employee_name TEXT NOT NULL,
		birth_date DATE,
		position TEXT,
		hire_date DATE,
		work_period TEXT,
		mcu_date DATE,
		mcu_expired DATE,
		file_mcu_main TEXT,
		examination_result TEXT,
		diagnosis TEXT,
		recommendation TEXT,
		status TEXT NOT NULL,
		email TEXT,
		reminder_sent BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS mcu_history (
		id SERIAL PRIMARY KEY,
		nik TEXT NOT NULL,
		mcu_year INTEGER NOT NULL,
		mcu_date DATE,
		expired_date DATE,
		file_name TEXT,
		diagnosis TEXT,
		recommendation TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		full_name TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		last_login TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		token TEXT UNIQUE NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		revoked BOOLEAN NOT NULL DEFAULT FALSE,
		revoked_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS export_jobs (
		id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		format TEXT NOT NULL,
		position_filter TEXT,
		status_filter TEXT,
		status TEXT NOT NULL,
		progress INTEGER NOT NULL DEFAULT 0,
		file_path TEXT,
		error_message TEXT,
		created_by TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_mcu_history_nik_year ON mcu_history (nik, mcu_year DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_employee_status ON employee (status)`,
}

// EnsureSchema creates the application tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
