package exportsvc

import (
	"bytes"
	"encoding/csv"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/attendance"
	"github.com/trezcool/attendance/core/school"
	"github.com/trezcool/attendance/core/student"
	"github.com/trezcool/attendance/core/user"
	testutil "github.com/trezcool/attendance/tests"
)

func mockNow(t *testing.T) {
	t.Helper()
	NowFunc = func() time.Time { return time.UnixMilli(1773230400000) }
	t.Cleanup(func() { NowFunc = time.Now })
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	img := imaging.New(40, 30, color.NRGBA{R: 20, G: 90, B: 160, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))
	return buf.Bytes()
}

func march(day int) core.Date { return core.Date{Year: 2026, Month: time.March, Day: day} }

func sampleRecords() []attendance.Record {
	rec := func(id int, name, roll string, day int, status attendance.Status) attendance.Record {
		return attendance.Record{
			StudentID: id, StudentName: name, RollNo: roll, ClassName: "CLASS1",
			Gender: "MALE", Date: march(day), Status: status,
		}
	}
	return []attendance.Record{
		rec(1, "Rahim", "1", 1, attendance.StatusPresent),
		rec(2, "Karim", "2", 1, attendance.StatusAbsent),
		rec(1, "Rahim", "1", 2, attendance.StatusAbsent),
		rec(2, "Karim", "2", 31, attendance.StatusPresent),
	}
}

func TestHeaderName(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"name", "Name"},
		{"dateOfBirth", "Date Of Birth"},
		{"nidOrBirthReg", "Nid Or Birth Reg"},
		{"rollNo", "Roll No"},
		{"", ""},
	}
	for _, tc := range tests {
		t.Run(tc.field, func(t *testing.T) {
			assert.Equal(t, tc.want, HeaderName(tc.field))
		})
	}
}

func TestFileName(t *testing.T) {
	mockNow(t)
	assert.Equal(t, "Attendance_CLASS1_March_2026_1773230400000.pdf", fileName("pdf", "Attendance", "CLASS1", "March", "2026"))
	assert.Equal(t, "Student_Md_Rahim_1773230400000.pdf", fileName("pdf", "Student", "Md. Rahim/"))
}

func TestAttendanceGrid(t *testing.T) {
	rows := AttendanceGrid(sampleRecords())
	require.Len(t, rows, 2)

	assert.Equal(t, "Rahim", rows[0].StudentName)
	assert.Equal(t, "P", rows[0].Marks[0])
	assert.Equal(t, "A", rows[0].Marks[1])
	assert.Equal(t, "-", rows[0].Marks[2])

	assert.Equal(t, "Karim", rows[1].StudentName)
	assert.Equal(t, "A", rows[1].Marks[0])
	assert.Equal(t, "P", rows[1].Marks[30])

	assert.Empty(t, AttendanceGrid(nil))
}

func TestExporter_StudentsExcel(t *testing.T) {
	mockNow(t)
	conf := testutil.Config(t)
	exp := NewExporter(conf)

	students := []student.Student{
		{ID: 1, Name: "Rahim", RollNo: "1", ClassName: "CLASS1", Gender: "MALE", DateOfBirth: "01-01-2015", Image: []byte{1, 2}},
		{ID: 2, Name: "Ayesha", RollNo: "2", ClassName: "CLASS2", Gender: "FEMALE", Phone: "01711111111"},
	}
	path, err := exp.StudentsExcel(students)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(conf.DownloadsDir, conf.AppName, DirExports, "Student_List_1773230400000.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Students List")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Len(t, rows[0], len(studentColumns))
	assert.Equal(t, "Name", rows[0][0])
	assert.Equal(t, "Date Of Birth", rows[0][2])
	assert.Equal(t, "Rahim", rows[1][0])
	assert.Equal(t, "CLASS2", rows[2][6])
	assert.Equal(t, "01711111111", rows[2][9])
}

func TestExporter_AttendanceExcel(t *testing.T) {
	mockNow(t)
	conf := testutil.Config(t)
	exp := NewExporter(conf)

	path, err := exp.AttendanceExcel("CLASS1", time.March, 2026, sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, "Attendance_CLASS1_March_2026_1773230400000.xlsx", filepath.Base(path))
	assert.Equal(t, DirReports, filepath.Base(filepath.Dir(path)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Report-CLASS1")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Attendance CLASS1 March 2026", rows[0][0])
	assert.Equal(t, []string{"Roll", "Name", "1", "2"}, rows[1][:4])
	assert.Equal(t, []string{"1", "Rahim", "P", "A", "-"}, rows[2][:5])
	assert.Equal(t, "P", rows[3][gridDays+1])
}

func TestExporter_AttendanceCSV(t *testing.T) {
	mockNow(t)
	exp := NewExporter(testutil.Config(t))

	path, err := exp.AttendanceCSV("CLASS1", time.March, 2026, sampleRecords())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".csv"))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	lines, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"Attendance CLASS1 March 2026"}, lines[0])
	assert.Len(t, lines[1], gridDays+2)
	assert.Equal(t, []string{"2", "Karim", "A", "-"}, lines[3][:4])
}

func TestExporter_PDFs(t *testing.T) {
	mockNow(t)
	conf := testutil.Config(t)
	exp := NewExporter(conf)

	logo := jpegBytes(t)
	sch := school.Profile{ID: school.ProfileID, Name: "Sunrise School", Address: "Dhaka", Logo: logo, Banner: logo}
	noLogo := school.Profile{ID: school.ProfileID, Name: "Sunrise School", Logo: []byte("not an image")}

	reports := attendance.BuildMonthlyReports(sampleRecords())

	tests := []struct {
		name   string
		dir    string
		prefix string
		export func() (string, error)
	}{
		{"attendance", DirReports, "Attendance_CLASS1_March_2026", func() (string, error) {
			return exp.AttendancePDF(sch, "CLASS1", time.March, 2026, sampleRecords())
		}},
		{"attendance without logo", DirReports, "Attendance_CLASS1_March_2026", func() (string, error) {
			return exp.AttendancePDF(noLogo, "CLASS1", time.March, 2026, nil)
		}},
		{"monthly report", DirReports, "Monthly_Report_March_2026", func() (string, error) {
			return exp.MonthlyReportPDF(sch, time.March, 2026, reports)
		}},
		{"empty monthly report", DirReports, "Monthly_Report_March_2026", func() (string, error) {
			return exp.MonthlyReportPDF(sch, time.March, 2026, nil)
		}},
		{"student", DirProfiles, "Student_Rahim_CLASS1_1", func() (string, error) {
			return exp.StudentPDF(sch, student.Student{Name: "Rahim", RollNo: "1", ClassName: "CLASS1", Image: logo})
		}},
		{"teacher", DirProfiles, "Teacher_Nasrin", func() (string, error) {
			return exp.UserProfilePDF(sch, user.Profile{Name: "Nasrin", Email: "nasrin@school.test", Image: logo})
		}},
		{"school", DirProfiles, "School_Sunrise_School", func() (string, error) {
			return exp.SchoolProfilePDF(sch)
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path, err := tc.export()
			require.NoError(t, err)
			assert.Equal(t, tc.dir, filepath.Base(filepath.Dir(path)))
			assert.Equal(t, tc.prefix+"_1773230400000.pdf", filepath.Base(path))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
		})
	}
}

func TestRunner(t *testing.T) {
	conf := testutil.Config(t)
	runner := NewRunner(testutil.Logger(conf))

	ok := runner.Go("students", func() (string, error) { return "/tmp/out.xlsx", nil })
	failed := runner.Go("report", func() (string, error) { return "", errors.New("disk full") })
	panicked := runner.Go("pdf", func() (string, error) { panic("boom") })

	res := <-ok
	assert.NotEmpty(t, res.JobID)
	assert.Equal(t, "/tmp/out.xlsx", res.Path)
	assert.Equal(t, "Saved: /tmp/out.xlsx", res.Message)
	assert.NoError(t, res.Err)

	res2 := <-failed
	assert.NotEqual(t, res.JobID, res2.JobID)
	assert.EqualError(t, res2.Err, "disk full")
	assert.Empty(t, res2.Path)

	res3 := <-panicked
	assert.Error(t, res3.Err)

	runner.Wait()
	_, open := <-ok
	assert.False(t, open)
}
