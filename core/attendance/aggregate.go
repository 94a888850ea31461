package attendance

import (
	"sort"

	"github.com/trezcool/attendance/core/student"
)

// Rate returns present/total as a percentage, or 0 when there is nothing to count.
func Rate(present, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(present) / float64(total) * 100
}

// CountStatuses counts the present and absent records.
func CountStatuses(records []Record) (present, absent int) {
	for _, r := range records {
		if r.Status == StatusPresent {
			present++
		} else {
			absent++
		}
	}
	return present, absent
}

// SummarizeClass combines the roster size with the records saved for the class on one date.
// Records of other classes are ignored.
func SummarizeClass(className string, rosterSize int, records []Record) ClassSummary {
	sum := ClassSummary{ClassName: className, TotalStudents: rosterSize}
	for _, r := range records {
		if r.ClassName != className {
			continue
		}
		if r.Status == StatusPresent {
			sum.TotalPresent++
		} else {
			sum.TotalAbsent++
		}
	}
	return sum
}

// BuildMonthlyReports groups records by class. Reports are ordered by class rank.
func BuildMonthlyReports(records []Record) []MonthlyReport {
	byClass := make(map[string]*MonthlyReport)
	for _, r := range records {
		rep, ok := byClass[r.ClassName]
		if !ok {
			rep = &MonthlyReport{ClassName: r.ClassName}
			byClass[r.ClassName] = rep
		}
		present := r.Status == StatusPresent

		rep.TotalAttendance++
		if present {
			rep.PresentCount++
		}
		switch r.Gender {
		case student.GenderMale:
			rep.BoysTotal++
			if present {
				rep.BoysPresent++
			}
		case student.GenderFemale:
			rep.GirlsTotal++
			if present {
				rep.GirlsPresent++
			}
		default:
			rep.OthersTotal++
			if present {
				rep.OthersPresent++
			}
		}
	}

	reports := make([]MonthlyReport, 0, len(byClass))
	for _, rep := range byClass {
		rep.AbsentCount = rep.TotalAttendance - rep.PresentCount
		rep.BoysAbsent = rep.BoysTotal - rep.BoysPresent
		rep.GirlsAbsent = rep.GirlsTotal - rep.GirlsPresent
		rep.OthersAbsent = rep.OthersTotal - rep.OthersPresent
		rep.Percentage = Rate(rep.PresentCount, rep.TotalAttendance)
		reports = append(reports, *rep)
	}
	sort.Slice(reports, func(i, j int) bool {
		oi, oj := student.ClassOrder(reports[i].ClassName), student.ClassOrder(reports[j].ClassName)
		if oi != oj {
			return oi < oj
		}
		return reports[i].ClassName < reports[j].ClassName
	})
	return reports
}

// SortByStudentAndDate orders records by student then chronologically.
func SortByStudentAndDate(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].StudentID != records[j].StudentID {
			return records[i].StudentID < records[j].StudentID
		}
		return records[i].Date.Before(records[j].Date)
	})
}
