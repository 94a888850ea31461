package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/attendance/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) SaveRecords(_ context.Context, records []attendance.Record) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, rec := range records {
		rec := rec
		for id, existing := range repo.db.table {
			if existing.StudentID == rec.StudentID && existing.Date == rec.Date {
				rec.ID = id
				break
			}
		}
		if rec.ID == 0 {
			repo.db.pkCount++
			rec.ID = repo.db.pkCount
		}
		repo.db.table[rec.ID] = &rec
	}
	return nil
}

func (repo *attendanceRepository) filter(filter attendance.RecordFilter) []attendance.Record {
	recs := make([]attendance.Record, 0)
	for _, rec := range repo.db.table {
		if filter.Match(*rec) {
			recs = append(recs, *rec)
		}
	}
	return recs
}

func (repo *attendanceRepository) FilterRecords(_ context.Context, filter attendance.RecordFilter) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	recs := repo.filter(filter)
	sort.Slice(recs, func(i, j int) bool {
		ki, kj := rollKey(recs[i].RollNo), rollKey(recs[j].RollNo)
		switch {
		case ki != kj:
			return ki < kj
		case recs[i].RollNo != recs[j].RollNo:
			return recs[i].RollNo < recs[j].RollNo
		case recs[i].StudentID != recs[j].StudentID:
			return recs[i].StudentID < recs[j].StudentID
		}
		return recs[i].Date.Before(recs[j].Date)
	})
	return recs, nil
}

func (repo *attendanceRepository) CountRecords(_ context.Context, filter attendance.RecordFilter) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.filter(filter)), nil
}
