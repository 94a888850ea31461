package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/student"
)

func roster() []student.Student {
	return []student.Student{
		{ID: 1, Name: "Amin", RollNo: "1", Gender: student.GenderMale, ClassName: student.Class1},
		{ID: 2, Name: "Bela", RollNo: "2", Gender: student.GenderFemale, ClassName: student.Class1},
		{ID: 3, Name: "Chand", RollNo: "3", Gender: student.GenderMale, ClassName: student.Class1},
	}
}

func statuses(sh Sheet) []Status {
	out := make([]Status, len(sh.Entries))
	for i, e := range sh.Entries {
		out[i] = e.Status
	}
	return out
}

func TestDeriveDefaultSheet(t *testing.T) {
	sh := DeriveDefaultSheet(student.Class1, testDate, roster())

	assert.False(t, sh.Persisted)
	assert.Equal(t, testDate, sh.Date)
	assert.Equal(t, []Status{StatusPresent, StatusPresent, StatusPresent}, statuses(sh))
	assert.Equal(t, "Bela", sh.Entries[1].StudentName)

	empty := DeriveDefaultSheet(student.Class2, testDate, nil)
	assert.Empty(t, empty.Entries)
}

func TestSheet_Toggle(t *testing.T) {
	sh := DeriveDefaultSheet(student.Class1, testDate, roster())

	toggled := sh.Toggle(2)
	assert.Equal(t, []Status{StatusPresent, StatusAbsent, StatusPresent}, statuses(toggled))
	assert.Equal(t, []Status{StatusPresent, StatusPresent, StatusPresent}, statuses(sh), "input was mutated")

	assert.Equal(t, statuses(sh), statuses(toggled.Toggle(2)), "toggle twice is identity")
	assert.Equal(t, statuses(sh), statuses(sh.Toggle(42)), "unknown student changes nothing")
}

func TestSheet_MarkAll(t *testing.T) {
	sh := DeriveDefaultSheet(student.Class1, testDate, roster()).Toggle(1)

	absent := sh.MarkAll(StatusAbsent)
	assert.Equal(t, []Status{StatusAbsent, StatusAbsent, StatusAbsent}, statuses(absent))
	assert.Equal(t, StatusAbsent, sh.Entries[0].Status)
	assert.Equal(t, StatusPresent, sh.Entries[1].Status, "input was mutated")

	p, a := absent.MarkAll(StatusPresent).Counts()
	assert.Equal(t, 3, p)
	assert.Zero(t, a)
}

func TestSheet_Editable(t *testing.T) {
	today := core.NewDate(2026, time.January, 6)
	past := DeriveDefaultSheet(student.Class1, testDate, roster())

	assert.True(t, past.Editable(today), "unsaved past sheets stay editable")
	past.Persisted = true
	assert.False(t, past.Editable(today))

	current := SheetFromRecords(student.Class1, today, nil)
	assert.True(t, current.Editable(today))
}

func TestSheet_records(t *testing.T) {
	sh := DeriveDefaultSheet(student.Class1, testDate, roster()).Toggle(3)
	recs := sh.records()

	assert.Len(t, recs, 3)
	for _, r := range recs {
		assert.Equal(t, student.Class1, r.ClassName)
		assert.Equal(t, testDate, r.Date)
	}
	assert.Equal(t, StatusAbsent, recs[2].Status)

	back := SheetFromRecords(student.Class1, testDate, recs)
	assert.True(t, back.Persisted)
	assert.Equal(t, sh.Entries, back.Entries)
}

func TestStatus(t *testing.T) {
	assert.Equal(t, StatusAbsent, StatusPresent.Toggle())
	assert.Equal(t, StatusPresent, StatusAbsent.Toggle())
	assert.Equal(t, "P", StatusPresent.Short())
	assert.Equal(t, "A", StatusAbsent.Short())
	assert.Equal(t, "-", Status("").Short())
	assert.Equal(t, StatusAbsent, StatusFromString("garbage"))
}
