package exportsvc

import (
	"regexp"
	"strings"

	"github.com/trezcool/attendance/core/attendance"
	"github.com/trezcool/attendance/core/student"
)

const gridDays = 31

var camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// GridRow is one student line of a monthly attendance grid.
// Marks[d-1] holds "P", "A" or "-" for day d.
type GridRow struct {
	StudentID   int
	StudentName string
	RollNo      string
	Marks       [gridDays]string
}

// AttendanceGrid lays records out as one row per student, in first-appearance order.
func AttendanceGrid(records []attendance.Record) []GridRow {
	index := make(map[int]int)
	rows := make([]GridRow, 0)
	for _, r := range records {
		idx, ok := index[r.StudentID]
		if !ok {
			row := GridRow{StudentID: r.StudentID, StudentName: r.StudentName, RollNo: r.RollNo}
			for d := range row.Marks {
				row.Marks[d] = "-"
			}
			rows = append(rows, row)
			idx = len(rows) - 1
			index[r.StudentID] = idx
		}
		if r.Date.Day >= 1 && r.Date.Day <= gridDays {
			rows[idx].Marks[r.Date.Day-1] = r.Status.Short()
		}
	}
	return rows
}

// HeaderName turns a field name such as "dateOfBirth" into "Date Of Birth".
func HeaderName(field string) string {
	spaced := camelBoundary.ReplaceAllString(field, "$1 $2")
	if spaced == "" {
		return spaced
	}
	return strings.ToUpper(spaced[:1]) + spaced[1:]
}

type studentColumn struct {
	field string
	value func(s student.Student) string
}

// studentColumns lists every exported student field; the photo and the row id are left out.
var studentColumns = []studentColumn{
	{"name", func(s student.Student) string { return s.Name }},
	{"rollNo", func(s student.Student) string { return s.RollNo }},
	{"dateOfBirth", func(s student.Student) string { return s.DateOfBirth }},
	{"age", func(s student.Student) string { return s.CurrentAge() }},
	{"nidOrBirthReg", func(s student.Student) string { return s.NIDOrBirthReg }},
	{"idType", func(s student.Student) string { return s.IDType }},
	{"className", func(s student.Student) string { return s.ClassName }},
	{"fatherName", func(s student.Student) string { return s.FatherName }},
	{"motherName", func(s student.Student) string { return s.MotherName }},
	{"phone", func(s student.Student) string { return s.Phone }},
	{"religion", func(s student.Student) string { return s.Religion }},
	{"gender", func(s student.Student) string { return s.Gender }},
	{"bloodGroup", func(s student.Student) string { return s.BloodGroup }},
	{"address", func(s student.Student) string { return s.Address }},
	{"country", func(s student.Student) string { return s.Country }},
	{"admissionDate", func(s student.Student) string { return s.AdmissionDate }},
}
