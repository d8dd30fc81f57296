package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/neurolock/neurolock/internal/neurolock/domain"
	"github.com/neurolock/neurolock/internal/neurolock/store"
)

type employeesRepo struct {
	db *sql.DB
}

func (r *employeesRepo) GetEmployeeByID(ctx context.Context, empID string) (domain.Employee, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT emp_id, name, password_hash, totp_secret, created_at, updated_at
		FROM employees WHERE emp_id = ?`, empID)

	var e domain.Employee
	var secret sql.NullString
	if err := row.Scan(&e.EmpID, &e.Name, &e.PasswordHash, &secret, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return domain.Employee{}, mapNotFound(err)
	}
	if secret.Valid {
		e.TOTPSecret = secret.String
	}
	return e, nil
}

func (r *employeesRepo) CreateEmployee(ctx context.Context, e domain.Employee) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO employees (emp_id, name, password_hash, totp_secret, created_at, updated_at)
		VALUES (?, ?, ?, NULLIF(?, ''), ?, ?)`,
		e.EmpID, e.Name, e.PasswordHash, e.TOTPSecret, e.CreatedAt, e.UpdatedAt)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *employeesRepo) NextSequence(ctx context.Context) (int, error) {
	// Badge ids are "E" followed by a number, so the numeric suffix starts
	// at offset 2 in SQLite's 1-based substr.
	row := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(CAST(substr(emp_id, 2) AS INTEGER)), 0) FROM employees`)

	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *employeesRepo) UpdatePasswordHash(ctx context.Context, empID string, newHash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE employees SET password_hash = ?, updated_at = ? WHERE emp_id = ?`,
		newHash, time.Now().UTC(), empID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *employeesRepo) UpdateTOTPSecret(ctx context.Context, empID string, secret string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE employees SET totp_secret = NULLIF(?, ''), updated_at = ? WHERE emp_id = ?`,
		secret, time.Now().UTC(), empID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *employeesRepo) IsEmpty(ctx context.Context) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
