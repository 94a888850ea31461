package exportsvc

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/attendance/core/attendance"
	"github.com/trezcool/attendance/core/student"
)

const (
	defaultSheet = "Sheet1"
	columnWidth  = 20
	dayWidth     = 4
)

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// StudentsExcel writes every student to "Exports/Student_List_<millis>.xlsx".
func (e *Exporter) StudentsExcel(students []student.Student) (path string, err error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := "Students List"
	if err = f.SetSheetName(defaultSheet, sheet); err != nil {
		return "", errors.Wrap(err, "naming sheet")
	}

	header := make([]interface{}, len(studentColumns))
	for i, col := range studentColumns {
		header[i] = HeaderName(col.field)
	}
	if err = setRow(f, sheet, 1, header); err != nil {
		return "", errors.Wrap(err, "writing header")
	}
	for i, s := range students {
		values := make([]interface{}, len(studentColumns))
		for j, col := range studentColumns {
			values[j] = col.value(s)
		}
		if err = setRow(f, sheet, i+2, values); err != nil {
			return "", errors.Wrapf(err, "writing student %d", s.ID)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(studentColumns))
	if err = f.SetColWidth(sheet, "A", lastCol, columnWidth); err != nil {
		return "", errors.Wrap(err, "sizing columns")
	}
	if style, err := headerStyle(f); err == nil {
		_ = f.SetRowStyle(sheet, 1, 1, style)
	}

	if path, err = e.path(DirExports, fileName("xlsx", "Student_List")); err != nil {
		return "", err
	}
	if err = f.SaveAs(path); err != nil {
		return "", errors.Wrap(err, "saving spreadsheet")
	}
	return path, nil
}

// AttendanceExcel writes the monthly grid of a class to "Reports/Attendance_<class>_<month>_<year>_<millis>.xlsx".
func (e *Exporter) AttendanceExcel(className string, month time.Month, year int, records []attendance.Record) (path string, err error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := "Report-" + className
	if err = f.SetSheetName(defaultSheet, sheet); err != nil {
		return "", errors.Wrap(err, "naming sheet")
	}

	if err = f.SetCellValue(sheet, "A1", "Attendance "+className+" "+monthTitle(month, year)); err != nil {
		return "", errors.Wrap(err, "writing title")
	}
	header := make([]interface{}, 0, gridDays+2)
	header = append(header, "Roll", "Name")
	for d := 1; d <= gridDays; d++ {
		header = append(header, strconv.Itoa(d))
	}
	if err = setRow(f, sheet, 2, header); err != nil {
		return "", errors.Wrap(err, "writing header")
	}

	for i, row := range AttendanceGrid(records) {
		values := make([]interface{}, 0, gridDays+2)
		values = append(values, row.RollNo, row.StudentName)
		for _, mark := range row.Marks {
			values = append(values, mark)
		}
		if err = setRow(f, sheet, i+3, values); err != nil {
			return "", errors.Wrapf(err, "writing student %d", row.StudentID)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(gridDays + 2)
	if err = f.SetColWidth(sheet, "B", "B", columnWidth); err != nil {
		return "", errors.Wrap(err, "sizing columns")
	}
	if err = f.SetColWidth(sheet, "C", lastCol, dayWidth); err != nil {
		return "", errors.Wrap(err, "sizing columns")
	}
	if style, err := headerStyle(f); err == nil {
		_ = f.SetRowStyle(sheet, 2, 2, style)
	}

	name := fileName("xlsx", "Attendance", className, month.String(), strconv.Itoa(year))
	if path, err = e.path(DirReports, name); err != nil {
		return "", err
	}
	if err = f.SaveAs(path); err != nil {
		return "", errors.Wrap(err, "saving spreadsheet")
	}
	return path, nil
}
