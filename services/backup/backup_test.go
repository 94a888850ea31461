package backupsvc

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/attendance"
	"github.com/trezcool/attendance/core/student"
	"github.com/trezcool/attendance/storage/database"
	"github.com/trezcool/attendance/storage/database/sqlx"
	"github.com/trezcool/attendance/tests"
)

func TestService_BackupRestore(t *testing.T) {
	ctx := context.Background()
	conf := testutil.Config(t)
	db, err := database.OpenAndMigrate(conf)
	require.NoError(t, err)

	stuRepo := sqlxrepos.NewStudentRepository(db)
	attRepo := sqlxrepos.NewAttendanceRepository(db)
	a := testutil.CreateStudent(t, stuRepo, "Amin", "1", student.Class1, student.GenderMale)
	b := testutil.CreateStudent(t, stuRepo, "Bela", "2", student.Class1, student.GenderFemale)
	date := core.NewDate(2026, time.January, 5)
	testutil.SaveAttendance(t, attRepo, date, []student.Student{a, b}, b.ID)

	svc := NewService(db, conf, testutil.Logger(conf))

	t.Run("restore without backup", func(t *testing.T) {
		_, err := svc.Restore(ctx)
		assert.ErrorIs(t, err, ErrBackupNotFound)
	})

	msg, err := svc.Backup(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Backup Saved: Downloads/School Attendance/Backup", msg)
	assert.Equal(t, filepath.Join(conf.DownloadsDir, "School Attendance", "Backup", "school_attendance_backup.db"), svc.Path())

	// changes made after the backup are lost on restore
	testutil.CreateStudent(t, stuRepo, "Chand", "3", student.Class1, student.GenderMale)

	msg, err = svc.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Restore successful! Please restart the app.", msg)
	assert.Error(t, db.Ping(), "database handle left open")

	restored, err := os.ReadFile(conf.Database.Path())
	require.NoError(t, err)
	backup, err := os.ReadFile(svc.Path())
	require.NoError(t, err)
	assert.True(t, bytes.Equal(backup, restored), "restored file differs from backup")
	_, err = os.Stat(conf.Database.Path() + "-wal")
	assert.True(t, os.IsNotExist(err))

	// "restart"
	db2 := testutil.PrepareDB(t, conf)
	students, err := sqlxrepos.NewStudentRepository(db2).QueryAllStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Amin", students[0].Name)
	assert.Equal(t, "Bela", students[1].Name)

	absent, err := sqlxrepos.NewAttendanceRepository(db2).CountRecords(ctx, attendance.RecordFilter{Date: date, Status: attendance.StatusAbsent})
	require.NoError(t, err)
	assert.Equal(t, 1, absent)
}

func TestService_BackupCheckpointFailure(t *testing.T) {
	conf := testutil.Config(t)
	db := testutil.PrepareDB(t, conf)
	svc := NewService(db, conf, testutil.Logger(conf))

	checkpointFunc = func(context.Context, core.DBExecutor) error { return errors.New("disk I/O error") }
	defer func() { checkpointFunc = database.Checkpoint }()

	_, err := svc.Backup(context.Background())
	assert.EqualError(t, err, "disk I/O error")
	_, err = os.Stat(svc.Path())
	assert.True(t, os.IsNotExist(err), "backup written despite failed checkpoint")
}
