package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/attendance"
)

const (
	recordColumns = "studentId, studentName, rollNo, gender, className, date, status"
	upsertRecord  = "INSERT INTO attendance_records (" + recordColumns + ") VALUES (" + recordParams + ")" +
		" ON CONFLICT (studentId, date) DO UPDATE SET studentName = excluded.studentName, rollNo = excluded.rollNo," +
		" gender = excluded.gender, className = excluded.className, status = excluded.status"
	recordParams = ":studentId, :studentName, :rollNo, :gender, :className, :date, :status"
	// dates are stored as "dd-MM-yyyy"
	recordOrder = " ORDER BY CAST(rollNo AS INTEGER) ASC, rollNo ASC, studentId ASC," +
		" substr(date, 7, 4) ASC, substr(date, 4, 2) ASC, substr(date, 1, 2) ASC"
)

type recordRow struct {
	ID          int    `db:"id"`
	StudentID   int    `db:"studentId"`
	StudentName string `db:"studentName"`
	RollNo      string `db:"rollNo"`
	Gender      string `db:"gender"`
	ClassName   string `db:"className"`
	Date        string `db:"date"`
	Status      string `db:"status"`
}

type attendanceRepository struct {
	db core.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db core.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) toRow(rec attendance.Record) recordRow {
	return recordRow{
		ID:          rec.ID,
		StudentID:   rec.StudentID,
		StudentName: rec.StudentName,
		RollNo:      rec.RollNo,
		Gender:      rec.Gender,
		ClassName:   rec.ClassName,
		Date:        rec.Date.String(),
		Status:      string(rec.Status),
	}
}

func (repo *attendanceRepository) fromRow(row recordRow) (attendance.Record, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return attendance.Record{}, errors.Wrapf(err, "attendance record %d", row.ID)
	}
	return attendance.Record{
		ID:          row.ID,
		StudentID:   row.StudentID,
		StudentName: row.StudentName,
		RollNo:      row.RollNo,
		Gender:      row.Gender,
		ClassName:   row.ClassName,
		Date:        date,
		Status:      attendance.StatusFromString(row.Status),
	}, nil
}

func (repo *attendanceRepository) SaveRecords(ctx context.Context, records []attendance.Record) (err error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareNamedContext(ctx, upsertRecord)
	if err != nil {
		return errors.Wrap(err, "preparing upsert")
	}
	defer func(stmt *sqlx.NamedStmt) { _ = stmt.Close() }(stmt)

	for _, rec := range records {
		if _, err = stmt.ExecContext(ctx, repo.toRow(rec)); err != nil {
			return errors.Wrapf(err, "upserting attendance of student %d", rec.StudentID)
		}
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "committing attendance")
	}
	return nil
}

func (repo *attendanceRepository) conditions(filter attendance.RecordFilter) ([]string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.ClassName != "" {
		conds = append(conds, "className = ?")
		args = append(args, filter.ClassName)
	}
	if !filter.Date.IsZero() {
		conds = append(conds, "date = ?")
		args = append(args, filter.Date.String())
	}
	if filter.Year != 0 {
		conds = append(conds, "CAST(substr(date, 7, 4) AS INTEGER) = ?")
		args = append(args, filter.Year)
	}
	if filter.Month != 0 {
		conds = append(conds, "CAST(substr(date, 4, 2) AS INTEGER) = ?")
		args = append(args, int(filter.Month))
	}
	switch filter.Status {
	case "":
	case attendance.StatusAbsent:
		// anything not stored as Present reads back as Absent
		conds = append(conds, "status <> ?")
		args = append(args, string(attendance.StatusPresent))
	default:
		conds = append(conds, "status = ?")
		args = append(args, string(filter.Status))
	}
	return conds, args
}

func (repo *attendanceRepository) FilterRecords(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Record, error) {
	conds, args := repo.conditions(filter)
	var rows []recordRow
	if err := repo.db.SelectContext(ctx, &rows, "SELECT * FROM attendance_records"+where(conds)+recordOrder, args...); err != nil {
		return nil, errors.Wrap(err, "selecting attendance records")
	}
	recs := make([]attendance.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := repo.fromRow(row)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (repo *attendanceRepository) CountRecords(ctx context.Context, filter attendance.RecordFilter) (int, error) {
	conds, args := repo.conditions(filter)
	var count int
	err := repo.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM attendance_records"+where(conds), args...)
	return count, errors.Wrap(err, "counting attendance records")
}
