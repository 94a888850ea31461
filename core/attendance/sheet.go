package attendance

import (
	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/student"
)

// DeriveDefaultSheet builds the sheet shown when nothing was saved yet: one Present entry
// per rostered student, in roster order.
func DeriveDefaultSheet(className string, date core.Date, roster []student.Student) Sheet {
	entries := make([]Entry, len(roster))
	for i, s := range roster {
		entries[i] = Entry{
			StudentID:   s.ID,
			StudentName: s.Name,
			RollNo:      s.RollNo,
			Gender:      s.Gender,
			Status:      StatusPresent,
		}
	}
	return Sheet{ClassName: className, Date: date, Entries: entries}
}

// SheetFromRecords rebuilds an editable sheet from saved records.
func SheetFromRecords(className string, date core.Date, records []Record) Sheet {
	entries := make([]Entry, len(records))
	for i, r := range records {
		entries[i] = Entry{
			StudentID:   r.StudentID,
			StudentName: r.StudentName,
			RollNo:      r.RollNo,
			Gender:      r.Gender,
			Status:      r.Status,
		}
	}
	return Sheet{ClassName: className, Date: date, Entries: entries, Persisted: true}
}

// Toggle flips the status of the student's entry. Other entries are untouched.
func (sh Sheet) Toggle(studentID int) Sheet {
	entries := make([]Entry, len(sh.Entries))
	copy(entries, sh.Entries)
	for i := range entries {
		if entries[i].StudentID == studentID {
			entries[i].Status = entries[i].Status.Toggle()
		}
	}
	sh.Entries = entries
	return sh
}

// MarkAll sets every entry to status.
func (sh Sheet) MarkAll(status Status) Sheet {
	entries := make([]Entry, len(sh.Entries))
	for i, e := range sh.Entries {
		e.Status = status
		entries[i] = e
	}
	sh.Entries = entries
	return sh
}

// Counts returns the number of present and absent entries.
func (sh Sheet) Counts() (present, absent int) {
	for _, e := range sh.Entries {
		if e.Status == StatusPresent {
			present++
		} else {
			absent++
		}
	}
	return present, absent
}
