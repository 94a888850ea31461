package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/attendance"
	"github.com/trezcool/attendance/core/student"
	exportsvc "github.com/trezcool/attendance/services/export"
)

var errReadOnlySheet = errors.New("attendance of a past date can no longer be changed")

func (cli *commandLine) attendanceUsage() {
	cli.println("Usage:")
	cli.println("  attendance take -class CLASS [-date dd-MM-yyyy] [-all Present|Absent] [-absent ROLL,...] [-toggle ROLL,...]")
	cli.println("  attendance show -class CLASS [-date dd-MM-yyyy]")
	cli.println("  attendance summary [-date dd-MM-yyyy]")
	cli.println("  attendance dashboard [-period day|month|year] [-date dd-MM-yyyy]")
	cli.println("  attendance report [-month M] [-year YYYY]")
	cli.println("  attendance detail -class CLASS [-month M] [-year YYYY]")
	cli.println("  attendance export [-class CLASS] [-month M] [-year YYYY] [-format xlsx|csv|pdf]")
}

func (cli *commandLine) attendanceCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		cli.attendanceUsage()
		return errHelp
	}
	switch args[0] {
	case "take":
		return cli.takeAttendance(ctx, args[1:])
	case "show":
		return cli.showSheet(ctx, args[1:])
	case "summary":
		return cli.classSummaries(ctx, args[1:])
	case "dashboard":
		return cli.dashboard(ctx, args[1:])
	case "report":
		return cli.monthlyReport(ctx, args[1:])
	case "detail":
		return cli.detailedReport(ctx, args[1:])
	case "export":
		return cli.exportAttendance(ctx, args[1:])
	default:
		cli.attendanceUsage()
		return errHelp
	}
}

// className cleans a -class value; unknown codes are rejected.
func className(code string) (string, bool) {
	code = strings.ToUpper(core.CleanString(code))
	return code, student.ClassFromCode(code) == code
}

// entryIDs maps the roll numbers of rolls to the student ids of sheet entries.
func entryIDs(sheet attendance.Sheet, rolls []string) ([]int, error) {
	byRoll := make(map[string]int, len(sheet.Entries))
	for _, e := range sheet.Entries {
		byRoll[e.RollNo] = e.StudentID
	}
	ids := make([]int, 0, len(rolls))
	for _, roll := range rolls {
		id, ok := byRoll[roll]
		if !ok {
			return nil, errors.Errorf("roll %s is not on the %s sheet", roll, sheet.ClassName)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (cli *commandLine) takeAttendance(ctx context.Context, args []string) error {
	var date core.Date
	fs := cli.flagSet("attendance take")
	class := fs.String("class", "", "class code")
	fs.Var(newDateValue(&date), "date", "attendance date (dd-MM-yyyy), today by default")
	all := fs.String("all", "", "mark every student Present or Absent first")
	absent := fs.String("absent", "", "comma separated roll numbers to mark Absent")
	toggle := fs.String("toggle", "", "comma separated roll numbers to flip")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	code, ok := className(*class)
	if !ok {
		fs.Usage()
		return errHelp
	}

	sheet, err := cli.attSvc.Sheet(ctx, code, date)
	if err != nil {
		return err
	}
	if !sheet.Editable(core.Today()) {
		return errReadOnlySheet
	}
	if len(sheet.Entries) == 0 {
		cli.println("No students in " + code + ".")
		return nil
	}

	if *all != "" {
		var status attendance.Status
		switch core.CleanString(*all, true /* lower */) {
		case "present", "p":
			status = attendance.StatusPresent
		case "absent", "a":
			status = attendance.StatusAbsent
		default:
			fs.Usage()
			return errHelp
		}
		sheet = sheet.MarkAll(status)
	}
	absentIDs, err := entryIDs(sheet, splitList(*absent))
	if err != nil {
		return err
	}
	isAbsent := make(map[int]bool, len(absentIDs))
	for _, id := range absentIDs {
		isAbsent[id] = true
	}
	for _, e := range sheet.Entries {
		if isAbsent[e.StudentID] && e.Status != attendance.StatusAbsent {
			sheet = sheet.Toggle(e.StudentID)
		}
	}
	toggleIDs, err := entryIDs(sheet, splitList(*toggle))
	if err != nil {
		return err
	}
	for _, id := range toggleIDs {
		sheet = sheet.Toggle(id)
	}

	if err := cli.attSvc.Save(ctx, sheet); err != nil {
		return err
	}
	present, absentCount := sheet.Counts()
	cli.success(fmt.Sprintf("Attendance saved for %s on %s: %d present, %d absent", code, date, present, absentCount))
	return nil
}

func (cli *commandLine) showSheet(ctx context.Context, args []string) error {
	var date core.Date
	fs := cli.flagSet("attendance show")
	class := fs.String("class", "", "class code")
	fs.Var(newDateValue(&date), "date", "attendance date (dd-MM-yyyy), today by default")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	code, ok := className(*class)
	if !ok {
		fs.Usage()
		return errHelp
	}

	sheet, err := cli.attSvc.Sheet(ctx, code, date)
	if err != nil {
		return err
	}
	state := "not taken yet"
	if sheet.Persisted {
		state = "saved"
	}
	cli.printf("%s - %s (%s)\n", code, date.Display(), state)
	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	printRow(w, "ROLL", "NAME", "STATUS")
	for _, e := range sheet.Entries {
		printRow(w, e.RollNo, e.StudentName, string(e.Status))
	}
	_ = w.Flush()
	present, absent := sheet.Counts()
	cli.printf("present: %d, absent: %d\n", present, absent)
	return nil
}

func (cli *commandLine) classSummaries(ctx context.Context, args []string) error {
	var date core.Date
	fs := cli.flagSet("attendance summary")
	fs.Var(newDateValue(&date), "date", "date (dd-MM-yyyy), today by default")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	summaries, err := cli.attSvc.ClassSummaries(ctx, date)
	if err != nil {
		return err
	}
	cli.println(date.Display())
	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	printRow(w, "CLASS", "STUDENTS", "PRESENT", "ABSENT", "TAKEN")
	for _, cs := range summaries {
		taken := "no"
		if cs.IsTaken() {
			taken = "yes"
		}
		printRow(w, cs.ClassName, strconv.Itoa(cs.TotalStudents), strconv.Itoa(cs.TotalPresent),
			strconv.Itoa(cs.TotalAbsent), taken)
	}
	return w.Flush()
}

func (cli *commandLine) dashboard(ctx context.Context, args []string) error {
	var date core.Date
	fs := cli.flagSet("attendance dashboard")
	periodName := fs.String("period", "day", "day, month or year")
	fs.Var(newDateValue(&date), "date", "reference date (dd-MM-yyyy), today by default")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	period, ok := attendance.ParsePeriod(*periodName)
	if !ok {
		fs.Usage()
		return errHelp
	}

	data, err := cli.attSvc.Dashboard(ctx, period, date)
	if err != nil {
		return err
	}
	cli.field("Period", period.String()+" of "+date.String())
	cli.field("Students", strconv.Itoa(data.TotalStudents))
	cli.field("Present", strconv.Itoa(data.TotalPresent))
	cli.field("Absent", strconv.Itoa(data.TotalAbsent))
	cli.field("Rate", fmt.Sprintf("%.2f%%", attendance.Rate(data.TotalPresent, data.TotalPresent+data.TotalAbsent)))
	return nil
}

func (cli *commandLine) monthlyReport(ctx context.Context, args []string) error {
	fs := cli.flagSet("attendance report")
	monthNum, year := monthFlags(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	month, err := checkMonth(fs, *monthNum)
	if err != nil {
		return err
	}

	reports, err := cli.attSvc.MonthlyReport(ctx, month, *year)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		cli.println("No attendance was taken in " + month.String() + " " + strconv.Itoa(*year) + ".")
		return nil
	}
	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	printRow(w, "CLASS", "TOTAL", "PRESENT", "ABSENT", "BOYS P/A", "GIRLS P/A", "OTHERS P/A", "RATE")
	for _, r := range reports {
		printRow(w, r.ClassName, strconv.Itoa(r.TotalAttendance), strconv.Itoa(r.PresentCount),
			strconv.Itoa(r.AbsentCount),
			fmt.Sprintf("%d/%d", r.BoysPresent, r.BoysAbsent),
			fmt.Sprintf("%d/%d", r.GirlsPresent, r.GirlsAbsent),
			fmt.Sprintf("%d/%d", r.OthersPresent, r.OthersAbsent),
			fmt.Sprintf("%.2f%%", r.Percentage))
	}
	return w.Flush()
}

func (cli *commandLine) detailedReport(ctx context.Context, args []string) error {
	fs := cli.flagSet("attendance detail")
	class := fs.String("class", "", "class code")
	monthNum, year := monthFlags(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	code, ok := className(*class)
	if !ok {
		fs.Usage()
		return errHelp
	}
	month, err := checkMonth(fs, *monthNum)
	if err != nil {
		return err
	}

	records, err := cli.attSvc.DetailedReport(ctx, code, month, *year)
	if err != nil {
		return err
	}
	cli.printf("%s - %s %d\n", code, month, *year)
	w := tabwriter.NewWriter(cli.out, 0, 0, 1, ' ', 0)
	for _, row := range exportsvc.AttendanceGrid(records) {
		printRow(w, row.RollNo, row.StudentName, strings.Join(row.Marks[:], " "))
	}
	return w.Flush()
}

func (cli *commandLine) exportAttendance(ctx context.Context, args []string) error {
	fs := cli.flagSet("attendance export")
	class := fs.String("class", "", "class code; without it the monthly report of every class is exported as PDF")
	monthNum, year := monthFlags(fs)
	format := fs.String("format", "xlsx", "xlsx, csv or pdf")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	month, err := checkMonth(fs, *monthNum)
	if err != nil {
		return err
	}

	if *class == "" {
		reports, err := cli.attSvc.MonthlyReport(ctx, month, *year)
		if err != nil {
			return err
		}
		sch, err := cli.letterhead(ctx)
		if err != nil {
			return err
		}
		return cli.export("monthly report", func() (string, error) {
			return cli.exporter.MonthlyReportPDF(sch, month, *year, reports)
		})
	}

	code, ok := className(*class)
	if !ok {
		fs.Usage()
		return errHelp
	}
	records, err := cli.attSvc.DetailedReport(ctx, code, month, *year)
	if err != nil {
		return err
	}
	switch strings.ToLower(*format) {
	case "xlsx":
		return cli.export("attendance spreadsheet", func() (string, error) {
			return cli.exporter.AttendanceExcel(code, month, *year, records)
		})
	case "csv":
		return cli.export("attendance csv", func() (string, error) {
			return cli.exporter.AttendanceCSV(code, month, *year, records)
		})
	case "pdf":
		sch, err := cli.letterhead(ctx)
		if err != nil {
			return err
		}
		return cli.export("attendance pdf", func() (string, error) {
			return cli.exporter.AttendancePDF(sch, code, month, *year, records)
		})
	default:
		fs.Usage()
		return errHelp
	}
}
