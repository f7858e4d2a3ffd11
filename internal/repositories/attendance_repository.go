package repositories

import (
	"context"
	"time"

	"desynflow-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AttendanceRepository struct {
	DB *pgxpool.Pool
}

func NewAttendanceRepository(db *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{DB: db}
}

// Upsert records attendance for (user, team, date). Calling it twice with
// the same key leaves exactly one row reflecting the latest call.
func (r *AttendanceRepository) Upsert(ctx context.Context, a *models.Attendance) error {
	query := `
		INSERT INTO attendance (user_id, team_id, attendance_date, status, check_in, check_out, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, team_id, attendance_date)
		DO UPDATE SET status = EXCLUDED.status,
		              check_in = EXCLUDED.check_in,
		              check_out = EXCLUDED.check_out,
		              notes = EXCLUDED.notes,
		              updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRow(ctx, query,
		a.UserID, a.TeamID, a.Date, a.Status, a.CheckIn, a.CheckOut, a.Notes,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

const attendanceColumns = `id, user_id, team_id, attendance_date, status,
	check_in, check_out, COALESCE(notes, ''), created_at, updated_at`

func (r *AttendanceRepository) listQuery(ctx context.Context, query string, args ...any) ([]*models.Attendance, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.Attendance
	for rows.Next() {
		a := &models.Attendance{}
		err := rows.Scan(
			&a.ID, &a.UserID, &a.TeamID, &a.Date, &a.Status,
			&a.CheckIn, &a.CheckOut, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, nil
}

func (r *AttendanceRepository) ListByTeamAndDate(ctx context.Context, teamID int, date time.Time) ([]*models.Attendance, error) {
	return r.listQuery(ctx,
		`SELECT `+attendanceColumns+` FROM attendance WHERE team_id = $1 AND attendance_date = $2 ORDER BY user_id`,
		teamID, date)
}

func (r *AttendanceRepository) ListByUser(ctx context.Context, userID int, from, to time.Time) ([]*models.Attendance, error) {
	return r.listQuery(ctx,
		`SELECT `+attendanceColumns+` FROM attendance
		 WHERE user_id = $1 AND attendance_date BETWEEN $2 AND $3
		 ORDER BY attendance_date DESC`,
		userID, from, to)
}
