package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/neurolock/neurolock/internal/neurolock/domain"
)

type capturesRepo struct {
	db *sql.DB
}

func (r *capturesRepo) CreateCapture(ctx context.Context, c domain.Capture) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO captures (id, emp_id, nonce, challenge, accepted, reason, image_path, image_bytes, captured_at)
		VALUES (?, ?, ?, ?, ?, NULLIF(?, ''), ?, ?, ?)`,
		c.ID, c.EmpID, c.Nonce, c.Challenge.Wire(), c.Accepted, string(c.Reason),
		c.ImagePath, c.ImageBytes, c.CapturedAt)
	return err
}

func (r *capturesRepo) ListCapturesByEmployee(ctx context.Context, empID string, limit int) ([]domain.Capture, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, emp_id, nonce, challenge, accepted, reason, image_path, image_bytes, captured_at
		FROM captures WHERE emp_id = ?
		ORDER BY captured_at DESC LIMIT ?`, empID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Capture
	for rows.Next() {
		c, err := scanCapture(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *capturesRepo) DeleteCapturesBefore(ctx context.Context, cutoff time.Time) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT image_path FROM captures WHERE captured_at < ?`, cutoff)
	if err != nil {
		return nil, err
	}

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return nil, err
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM captures WHERE captured_at < ?`, cutoff); err != nil {
		return nil, err
	}
	return paths, nil
}

func scanCapture(rows *sql.Rows) (domain.Capture, error) {
	var c domain.Capture
	var challenge string
	var reason sql.NullString
	if err := rows.Scan(&c.ID, &c.EmpID, &c.Nonce, &challenge, &c.Accepted, &reason,
		&c.ImagePath, &c.ImageBytes, &c.CapturedAt); err != nil {
		return domain.Capture{}, err
	}
	if ct, err := domain.ParseChallengeType(challenge); err == nil {
		c.Challenge = ct
	}
	if reason.Valid {
		c.Reason = domain.RejectReason(reason.String)
	}
	return c, nil
}
