package tracker

import (
	"context"
	"database/sql"
)

// PGRepo persists applications in Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, app Application) error {
	_, err := r.DB.ExecContext(ctx, `
INSERT INTO tracked_applications (id, user_id, analysis_id, job_title, job_description, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		app.ID,
		app.UserID,
		nullableString(app.AnalysisID),
		app.JobTitle,
		app.JobDescription,
		string(app.Status),
		app.CreatedAt,
	)
	return err
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Application, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT id, user_id, analysis_id, job_title, job_description, status, created_at
FROM tracked_applications
WHERE user_id = $1
ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Application, 0)
	for rows.Next() {
		var app Application
		var analysisID, jobTitle, jobDescription, status sql.NullString
		if err := rows.Scan(&app.ID, &app.UserID, &analysisID, &jobTitle, &jobDescription, &status, &app.CreatedAt); err != nil {
			return nil, err
		}
		app.AnalysisID = analysisID.String
		app.JobTitle = jobTitle.String
		app.JobDescription = jobDescription.String
		app.Status = Status(status.String)
		out = append(out, app)
	}
	return out, rows.Err()
}

// UpdateStatus matches on id and owner in one predicate so another user's
// record is indistinguishable from a missing one.
func (r *PGRepo) UpdateStatus(ctx context.Context, userID, id string, status Status) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
UPDATE tracked_applications SET status = $1 WHERE id = $2 AND user_id = $3`, string(status), id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PGRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM tracked_applications WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *PGRepo) CountByStatus(ctx context.Context, userID string, status Status) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, `
SELECT COUNT(*) FROM tracked_applications WHERE user_id = $1 AND status = $2`, userID, string(status)).Scan(&n)
	return n, err
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
