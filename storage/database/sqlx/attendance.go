package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/attendance"
)

type dbRecentRow struct {
	ID              string      `db:"id"`
	StudentID       string      `db:"student_id"`
	CourseID        string      `db:"course_id"`
	Method          string      `db:"check_in_method"`
	RecordedBy      null.String `db:"recorded_by"`
	CheckInTime     time.Time   `db:"check_in_time"`
	Notes           null.String `db:"notes"`
	StudentName     null.String `db:"student_name"`
	StudentLoginKey null.String `db:"student_login_key"`
}

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func (repo attendanceRepository) CreateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	rec.ID = uuid.New().String()
	// check_in_time is store-assigned
	err := repo.db.QueryRowContext(ctx,
		"INSERT INTO attendance_record (id, student_id, course_id, check_in_method, recorded_by, notes) "+
			"VALUES ($1, $2, $3, $4, $5, $6) RETURNING check_in_time",
		rec.ID, rec.StudentID, rec.CourseID, string(rec.Method), rec.RecordedBy, rec.Notes,
	).Scan(&rec.CheckInTime)
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "inserting attendance record")
	}
	return rec, nil
}

func (repo attendanceRepository) QueryRecentRecords(ctx context.Context, limit int) ([]attendance.RecordWithStudent, error) {
	rows, err := repo.db.QueryxContext(ctx,
		"SELECT r.id, r.student_id, r.course_id, r.check_in_method, r.recorded_by, r.check_in_time, r.notes, "+
			"p.name AS student_name, p.login_key AS student_login_key "+
			"FROM attendance_record r "+
			"LEFT JOIN profile p ON p.id = r.student_id "+
			"ORDER BY r.check_in_time DESC "+
			"LIMIT $1",
		limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying recent attendance")
	}
	defer func() { _ = rows.Close() }()

	recs := make([]attendance.RecordWithStudent, 0, limit)
	for rows.Next() {
		var row dbRecentRow
		if err := rows.StructScan(&row); err != nil {
			// one malformed row must not abort the batch
			continue
		}
		recs = append(recs, attendance.RecordWithStudent{
			Record: attendance.Record{
				ID:          row.ID,
				StudentID:   row.StudentID,
				CourseID:    row.CourseID,
				Method:      attendance.CheckInMethod(row.Method),
				RecordedBy:  row.RecordedBy,
				CheckInTime: row.CheckInTime,
				Notes:       row.Notes,
			},
			StudentName:     row.StudentName,
			StudentLoginKey: row.StudentLoginKey,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "reading recent attendance")
	}
	return recs, nil
}
