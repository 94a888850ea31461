package exportsvc

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/attendance"
	"github.com/trezcool/attendance/core/school"
	"github.com/trezcool/attendance/core/student"
	"github.com/trezcool/attendance/core/user"
	"github.com/trezcool/attendance/services/images"
)

const (
	fontFamily = "Helvetica"
	lineHeight = 7.0
	logoSize   = 18.0
)

type pdfDoc struct {
	*fpdf.Fpdf
	tr     func(string) string
	images int
}

func newPDF(orientation string) *pdfDoc {
	pdf := fpdf.New(orientation, "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	doc := &pdfDoc{Fpdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	return doc
}

// image draws a JPEG at (x, y). Anything else is skipped.
// With flow set the cursor moves below the image.
func (d *pdfDoc) image(data []byte, x, y, w, h float64, flow bool) {
	if !imgsvc.IsJPEG(data) {
		return
	}
	d.images++
	name := "img" + strconv.Itoa(d.images)
	opts := fpdf.ImageOptions{ImageType: "JPG"}
	d.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	d.ImageOptions(name, x, y, w, h, flow, opts, 0, "")
}

// header prints the school letterhead followed by title.
func (d *pdfDoc) header(sch school.Profile, title string) {
	d.AddPage()
	left, top, _, _ := d.GetMargins()
	hasLogo := imgsvc.IsJPEG(sch.Logo)
	if hasLogo {
		d.image(sch.Logo, left, top, logoSize, logoSize, false)
		d.SetX(left + logoSize + 4)
	}
	d.SetFont(fontFamily, "B", 16)
	d.CellFormat(0, 8, d.tr(sch.Name), "", 1, "L", false, 0, "")
	if sch.Address != "" {
		if hasLogo {
			d.SetX(left + logoSize + 4)
		}
		d.SetFont(fontFamily, "", 10)
		d.CellFormat(0, 6, d.tr(sch.Address), "", 1, "L", false, 0, "")
	}
	if hasLogo && d.GetY() < top+logoSize {
		d.SetY(top + logoSize)
	}
	d.Ln(4)
	d.SetFont(fontFamily, "B", 13)
	d.CellFormat(0, 8, d.tr(title), "B", 1, "C", false, 0, "")
	d.Ln(3)
}

func (d *pdfDoc) field(label, value string) {
	d.SetFont(fontFamily, "B", 11)
	d.CellFormat(55, lineHeight, d.tr(label), "", 0, "L", false, 0, "")
	d.SetFont(fontFamily, "", 11)
	d.CellFormat(0, lineHeight, d.tr(value), "", 1, "L", false, 0, "")
}

func (d *pdfDoc) save(path string) error {
	if err := d.OutputFileAndClose(path); err != nil {
		return errors.Wrap(err, "writing pdf")
	}
	return nil
}

// AttendancePDF writes the monthly grid of a class with per-student totals.
func (e *Exporter) AttendancePDF(
	sch school.Profile,
	className string,
	month time.Month,
	year int,
	records []attendance.Record,
) (string, error) {
	d := newPDF("L")
	d.header(sch, "Attendance Report: "+className+" - "+monthTitle(month, year))

	const (
		rollW = 12.0
		nameW = 48.0
		dayW  = 6.3
		sumW  = 10.0
		cellH = 6.0
	)
	d.SetFont(fontFamily, "B", 8)
	d.SetFillColor(221, 235, 247)
	d.CellFormat(rollW, cellH, "Roll", "1", 0, "C", true, 0, "")
	d.CellFormat(nameW, cellH, "Name", "1", 0, "C", true, 0, "")
	for day := 1; day <= gridDays; day++ {
		d.CellFormat(dayW, cellH, strconv.Itoa(day), "1", 0, "C", true, 0, "")
	}
	d.CellFormat(sumW, cellH, "P", "1", 0, "C", true, 0, "")
	d.CellFormat(sumW, cellH, "A", "1", 1, "C", true, 0, "")

	d.SetFont(fontFamily, "", 8)
	for _, row := range AttendanceGrid(records) {
		var present, absent int
		d.CellFormat(rollW, cellH, d.tr(row.RollNo), "1", 0, "C", false, 0, "")
		d.CellFormat(nameW, cellH, d.tr(row.StudentName), "1", 0, "L", false, 0, "")
		for _, mark := range row.Marks {
			switch mark {
			case "P":
				present++
			case "A":
				absent++
			}
			d.CellFormat(dayW, cellH, mark, "1", 0, "C", false, 0, "")
		}
		d.CellFormat(sumW, cellH, strconv.Itoa(present), "1", 0, "C", false, 0, "")
		d.CellFormat(sumW, cellH, strconv.Itoa(absent), "1", 1, "C", false, 0, "")
	}

	name := fileName("pdf", "Attendance", className, month.String(), strconv.Itoa(year))
	path, err := e.path(DirReports, name)
	if err != nil {
		return "", err
	}
	return path, d.save(path)
}

// MonthlyReportPDF writes the per-class monthly summary table.
func (e *Exporter) MonthlyReportPDF(sch school.Profile, month time.Month, year int, reports []attendance.MonthlyReport) (string, error) {
	d := newPDF("L")
	d.header(sch, "Monthly Report - "+monthTitle(month, year))

	cols := []struct {
		title string
		width float64
		value func(r attendance.MonthlyReport) string
	}{
		{"Class", 30, func(r attendance.MonthlyReport) string { return r.ClassName }},
		{"Total", 20, func(r attendance.MonthlyReport) string { return strconv.Itoa(r.TotalAttendance) }},
		{"Present", 20, func(r attendance.MonthlyReport) string { return strconv.Itoa(r.PresentCount) }},
		{"Absent", 20, func(r attendance.MonthlyReport) string { return strconv.Itoa(r.AbsentCount) }},
		{"Boys P/A", 26, func(r attendance.MonthlyReport) string {
			return fmt.Sprintf("%d/%d", r.BoysPresent, r.BoysAbsent)
		}},
		{"Girls P/A", 26, func(r attendance.MonthlyReport) string {
			return fmt.Sprintf("%d/%d", r.GirlsPresent, r.GirlsAbsent)
		}},
		{"Others P/A", 26, func(r attendance.MonthlyReport) string {
			return fmt.Sprintf("%d/%d", r.OthersPresent, r.OthersAbsent)
		}},
		{"Rate", 22, func(r attendance.MonthlyReport) string { return fmt.Sprintf("%.2f%%", r.Percentage) }},
	}

	d.SetFont(fontFamily, "B", 10)
	d.SetFillColor(221, 235, 247)
	for i, col := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		d.CellFormat(col.width, lineHeight, col.title, "1", ln, "C", true, 0, "")
	}
	d.SetFont(fontFamily, "", 10)
	for _, r := range reports {
		for i, col := range cols {
			ln := 0
			if i == len(cols)-1 {
				ln = 1
			}
			d.CellFormat(col.width, lineHeight, d.tr(col.value(r)), "1", ln, "C", false, 0, "")
		}
	}
	if len(reports) == 0 {
		d.SetFont(fontFamily, "I", 10)
		d.CellFormat(0, lineHeight, "No attendance was taken this month.", "", 1, "L", false, 0, "")
	}

	path, err := e.path(DirReports, fileName("pdf", "Monthly_Report", month.String(), strconv.Itoa(year)))
	if err != nil {
		return "", err
	}
	return path, d.save(path)
}

// StudentPDF writes the profile sheet of a student.
func (e *Exporter) StudentPDF(sch school.Profile, s student.Student) (string, error) {
	d := newPDF("P")
	d.header(sch, "Student Profile")

	if s.HasImage() {
		pageW, _ := d.GetPageSize()
		_, _, right, _ := d.GetMargins()
		d.image(s.Image, pageW-right-35, d.GetY(), 35, 35, false)
	}
	d.field("Name", s.Name)
	d.field("Roll No", s.RollNo)
	d.field("Class", s.ClassName)
	d.field("Gender", s.Gender)
	d.field("Date Of Birth", s.DateOfBirth)
	d.field("Age", s.CurrentAge())
	d.field("ID Type", s.IDType)
	d.field("NID / Birth Reg.", s.NIDOrBirthReg)
	d.field("Father's Name", s.FatherName)
	d.field("Mother's Name", s.MotherName)
	d.field("Phone", s.Phone)
	d.field("Religion", s.Religion)
	d.field("Blood Group", s.BloodGroup)
	d.field("Address", s.Address)
	d.field("Country", s.Country)
	d.field("Admission Date", s.AdmissionDate)

	path, err := e.path(DirProfiles, fileName("pdf", "Student", s.Name, s.ClassName, s.RollNo))
	if err != nil {
		return "", err
	}
	return path, d.save(path)
}

// UserProfilePDF writes the teacher profile sheet.
func (e *Exporter) UserProfilePDF(sch school.Profile, p user.Profile) (string, error) {
	d := newPDF("P")
	d.header(sch, "Teacher Profile")

	if len(p.Image) > 0 {
		pageW, _ := d.GetPageSize()
		_, _, right, _ := d.GetMargins()
		d.image(p.Image, pageW-right-35, d.GetY(), 35, 35, false)
	}
	d.field("Name", p.Name)
	d.field("Designation", p.Designation)
	d.field("Qualification", p.Qualification)
	d.field("Teacher ID", p.TeacherID)
	d.field("Joining Date", p.JoiningDate)
	d.field("Job Duration", p.CurrentJobDuration())
	d.field("Assigned Classes", p.AssignedClasses)
	d.field("Subject Expert", p.SubjectExpert)
	d.field("Phone", p.Phone)
	d.field("Email", p.Email)

	path, err := e.path(DirProfiles, fileName("pdf", "Teacher", p.Name))
	if err != nil {
		return "", err
	}
	return path, d.save(path)
}

// SchoolProfilePDF writes the school letterhead with its banner.
func (e *Exporter) SchoolProfilePDF(sch school.Profile) (string, error) {
	d := newPDF("P")
	d.header(sch, "School Profile")

	if imgsvc.IsJPEG(sch.Banner) {
		left, _, right, _ := d.GetMargins()
		pageW, _ := d.GetPageSize()
		d.image(sch.Banner, left, d.GetY(), pageW-left-right, 0, true)
		d.Ln(4)
	}
	d.field("Name", sch.Name)
	d.field("Address", sch.Address)
	d.field("Printed On", core.Today().Display())

	path, err := e.path(DirProfiles, fileName("pdf", "School", sch.Name))
	if err != nil {
		return "", err
	}
	return path, d.save(path)
}
