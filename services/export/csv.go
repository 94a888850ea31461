package exportsvc

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/attendance/core/attendance"
)

// AttendanceCSV writes the monthly grid of a class, preceded by a title line,
// to "Reports/Attendance_<class>_<month>_<year>_<millis>.csv".
func (e *Exporter) AttendanceCSV(className string, month time.Month, year int, records []attendance.Record) (string, error) {
	name := fileName("csv", "Attendance", className, month.String(), strconv.Itoa(year))
	path, err := e.path(DirReports, name)
	if err != nil {
		return "", err
	}
	file, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "creating csv")
	}
	defer func() { _ = file.Close() }()

	w := csv.NewWriter(file)
	lines := [][]string{{"Attendance " + className + " " + monthTitle(month, year)}}

	header := make([]string, 0, gridDays+2)
	header = append(header, "Roll", "Name")
	for d := 1; d <= gridDays; d++ {
		header = append(header, strconv.Itoa(d))
	}
	lines = append(lines, header)
	for _, row := range AttendanceGrid(records) {
		line := make([]string, 0, gridDays+2)
		line = append(line, row.RollNo, row.StudentName)
		line = append(line, row.Marks[:]...)
		lines = append(lines, line)
	}

	if err := w.WriteAll(lines); err != nil {
		return "", errors.Wrap(err, "writing csv")
	}
	if err := file.Close(); err != nil {
		return "", errors.Wrap(err, "closing csv")
	}
	return path, nil
}
