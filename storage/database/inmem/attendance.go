package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/attendance"
)

type attendanceRepository struct {
	db *DB
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) CreateRecord(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	rec.ID = uuid.New().String()
	rec.CheckInTime = time.Now().UTC()
	repo.db.records[rec.ID] = &rec
	return rec, nil
}

func (repo *attendanceRepository) QueryRecentRecords(_ context.Context, limit int) ([]attendance.RecordWithStudent, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	recs := make([]attendance.RecordWithStudent, 0, len(repo.db.records))
	for _, rec := range repo.db.records {
		row := attendance.RecordWithStudent{Record: *rec}
		for _, prof := range repo.db.profiles {
			if prof.ID == rec.StudentID {
				row.StudentName = null.StringFrom(prof.Name)
				row.StudentLoginKey = null.StringFrom(prof.LoginKey)
				break
			}
		}
		recs = append(recs, row)
	}

	sort.Slice(recs, func(i, j int) bool { return recs[i].CheckInTime.After(recs[j].CheckInTime) })
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}
