package testutil

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/attendance"
	"github.com/trezcool/attendance/core/student"
	"github.com/trezcool/attendance/services/logger"
	"github.com/trezcool/attendance/storage/database"
)

// Config returns a test configuration whose data and downloads folders live in a temp dir.
func Config(t *testing.T) *core.Config {
	t.Helper()
	dir := t.TempDir()
	return &core.Config{
		AppName:      "School Attendance",
		Env:          "TEST",
		Build:        "test",
		TestMode:     true,
		WorkDir:      dir,
		DownloadsDir: filepath.Join(dir, "Downloads"),
		SettingsFile: filepath.Join(dir, "data", "settings.yaml"),
		Database:     core.DatabaseConfig{Dir: filepath.Join(dir, "data"), Name: "school_attendance.db"},
		Image:        core.ImageConfig{MaxWidth: 600, MaxHeight: 600},
	}
}

// Logger returns a logger that discards everything.
func Logger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
}

// PrepareDB opens a migrated sqlite database for conf and closes it at the end of the test.
func PrepareDB(t *testing.T, conf *core.Config) *sqlx.DB {
	t.Helper()
	db, err := database.OpenAndMigrate(conf)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func CreateStudent(t *testing.T, repo student.Repository, name, rollNo, className, gender string) student.Student {
	t.Helper()
	s, err := repo.CreateStudent(context.Background(), student.Student{
		Name:        name,
		RollNo:      rollNo,
		ClassName:   className,
		Gender:      gender,
		DateOfBirth: "01-01-2015",
		IDType:      student.IDTypeNone,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return s
}

// SaveAttendance stores one record per student, marking the students in `absent` Absent.
func SaveAttendance(
	t *testing.T,
	repo attendance.Repository,
	date core.Date,
	students []student.Student,
	absent ...int,
) {
	t.Helper()
	isAbsent := make(map[int]bool, len(absent))
	for _, id := range absent {
		isAbsent[id] = true
	}
	recs := make([]attendance.Record, 0, len(students))
	for _, s := range students {
		status := attendance.StatusPresent
		if isAbsent[s.ID] {
			status = attendance.StatusAbsent
		}
		recs = append(recs, attendance.Record{
			StudentID:   s.ID,
			StudentName: s.Name,
			RollNo:      s.RollNo,
			Gender:      s.Gender,
			ClassName:   s.ClassName,
			Date:        date,
			Status:      status,
		})
	}
	if err := repo.SaveRecords(context.Background(), recs); err != nil {
		t.Fatalf("SaveAttendance() failed: %v", err)
	}
}
