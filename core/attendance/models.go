package attendance

import (
	"time"

	"github.com/trezcool/attendance/core"
)

// Status is the attendance mark of one student on one day.
type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
)

func (s Status) Valid() bool { return s == StatusPresent || s == StatusAbsent }

// Toggle flips Present and Absent.
func (s Status) Toggle() Status {
	if s == StatusPresent {
		return StatusAbsent
	}
	return StatusPresent
}

// Short returns the one-letter mark used in grids and exports.
func (s Status) Short() string {
	switch s {
	case StatusPresent:
		return "P"
	case StatusAbsent:
		return "A"
	default:
		return "-"
	}
}

// StatusFromString maps stored text to a Status; unknown values count as Absent.
func StatusFromString(s string) Status {
	if Status(s) == StatusPresent {
		return StatusPresent
	}
	return StatusAbsent
}

// Period selects the window used by the dashboard.
type Period int

const (
	PeriodDay Period = iota
	PeriodMonth
	PeriodYear
)

func (p Period) String() string {
	switch p {
	case PeriodMonth:
		return "month"
	case PeriodYear:
		return "year"
	default:
		return "day"
	}
}

// ParsePeriod accepts "day", "month" or "year".
func ParsePeriod(s string) (Period, bool) {
	switch core.CleanString(s, true /* lower */) {
	case "day", "":
		return PeriodDay, true
	case "month":
		return PeriodMonth, true
	case "year":
		return PeriodYear, true
	}
	return PeriodDay, false
}

// Record is one persisted attendance row. The student fields are a snapshot taken when
// the sheet was saved and are not refreshed when the student is edited or deleted.
type Record struct {
	ID          int       `json:"id"`
	StudentID   int       `json:"student_id"`
	StudentName string    `json:"student_name"`
	RollNo      string    `json:"roll_no"`
	Gender      string    `json:"gender"`
	ClassName   string    `json:"class_name"`
	Date        core.Date `json:"date"`
	Status      Status    `json:"status"`
}

// Entry is an editable line of an attendance sheet. Entries become Records only when the sheet is saved.
type Entry struct {
	StudentID   int    `json:"student_id"`
	StudentName string `json:"student_name"`
	RollNo      string `json:"roll_no"`
	Gender      string `json:"gender"`
	Status      Status `json:"status"`
}

// Sheet is the attendance of one class on one date.
// Persisted reports whether the entries were loaded from saved records.
type Sheet struct {
	ClassName string    `json:"class_name"`
	Date      core.Date `json:"date"`
	Entries   []Entry   `json:"entries"`
	Persisted bool      `json:"persisted"`
}

// Editable reports whether the sheet may still be changed on `today`.
// Saved sheets of past dates are read-only.
func (sh Sheet) Editable(today core.Date) bool {
	return !(sh.Persisted && sh.Date.Before(today))
}

func (sh Sheet) records() []Record {
	recs := make([]Record, len(sh.Entries))
	for i, e := range sh.Entries {
		recs[i] = Record{
			StudentID:   e.StudentID,
			StudentName: e.StudentName,
			RollNo:      e.RollNo,
			Gender:      e.Gender,
			ClassName:   sh.ClassName,
			Date:        sh.Date,
			Status:      e.Status,
		}
	}
	return recs
}

type ClassSummary struct {
	ClassName     string `json:"class_name"`
	TotalStudents int    `json:"total_students"`
	TotalPresent  int    `json:"total_present"`
	TotalAbsent   int    `json:"total_absent"`
}

// IsTaken reports whether attendance was saved for the class on that date.
func (cs ClassSummary) IsTaken() bool { return cs.TotalPresent+cs.TotalAbsent > 0 }

type DashboardData struct {
	TotalStudents int `json:"total_students"`
	TotalPresent  int `json:"total_present"`
	TotalAbsent   int `json:"total_absent"`
}

// MonthlyReport aggregates one class over one month. Counts are record counts, not distinct students.
// Students whose gender is neither male nor female are counted in the Others fields.
type MonthlyReport struct {
	ClassName       string  `json:"class_name"`
	TotalAttendance int     `json:"total_attendance"`
	PresentCount    int     `json:"present_count"`
	AbsentCount     int     `json:"absent_count"`
	BoysTotal       int     `json:"boys_total"`
	BoysPresent     int     `json:"boys_present"`
	BoysAbsent      int     `json:"boys_absent"`
	GirlsTotal      int     `json:"girls_total"`
	GirlsPresent    int     `json:"girls_present"`
	GirlsAbsent     int     `json:"girls_absent"`
	OthersTotal     int     `json:"others_total"`
	OthersPresent   int     `json:"others_present"`
	OthersAbsent    int     `json:"others_absent"`
	Percentage      float64 `json:"percentage"`
}

// RecordFilter selects attendance records; zero fields are ignored and set fields are ANDed.
type RecordFilter struct {
	ClassName string
	Date      core.Date
	Month     time.Month
	Year      int
	Status    Status
}

// PeriodFilter returns the filter selecting the records of the period containing `date`.
func PeriodFilter(period Period, date core.Date) RecordFilter {
	switch period {
	case PeriodMonth:
		return RecordFilter{Month: date.Month, Year: date.Year}
	case PeriodYear:
		return RecordFilter{Year: date.Year}
	default:
		return RecordFilter{Date: date}
	}
}

// Match reports whether rec is selected by the filter.
func (f RecordFilter) Match(rec Record) bool {
	if f.ClassName != "" && rec.ClassName != f.ClassName {
		return false
	}
	if !f.Date.IsZero() && rec.Date != f.Date {
		return false
	}
	if f.Year != 0 && rec.Date.Year != f.Year {
		return false
	}
	if f.Month != 0 && rec.Date.Month != f.Month {
		return false
	}
	if f.Status != "" && StatusFromString(string(rec.Status)) != f.Status {
		return false
	}
	return true
}
