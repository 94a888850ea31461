package attendance

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/stream"
	"github.com/trezcool/attendance/core/student"
)

var ErrInvalidSheet = errors.New("invalid attendance sheet")

type (
	Repository interface {
		// SaveRecords upserts all records in a single transaction: a record replaces the
		// existing one of the same student on the same date.
		SaveRecords(ctx context.Context, records []Record) error
		// FilterRecords returns matching records ordered by the numeric value of the roll number, then by date.
		FilterRecords(ctx context.Context, filter RecordFilter) ([]Record, error)
		CountRecords(ctx context.Context, filter RecordFilter) (int, error)
	}

	// Roster is the read side of the student registry attendance depends on.
	Roster interface {
		StudentsByClass(ctx context.Context, className string) ([]student.Student, error)
		CountStudents(ctx context.Context, className string) (int, error)
	}

	Service interface {
		ClassSummary(ctx context.Context, className string, date core.Date) (ClassSummary, error)
		// ClassSummaries returns one summary per class code, in class order.
		ClassSummaries(ctx context.Context, date core.Date) ([]ClassSummary, error)
		// Sheet returns the saved sheet or, when nothing was saved, the default all-present sheet.
		Sheet(ctx context.Context, className string, date core.Date) (Sheet, error)
		Save(ctx context.Context, sheet Sheet) error
		Dashboard(ctx context.Context, period Period, date core.Date) (DashboardData, error)
		MonthlyReport(ctx context.Context, month time.Month, year int) ([]MonthlyReport, error)
		// DetailedReport returns the month's records of a class ordered by student then date.
		DetailedReport(ctx context.Context, className string, month time.Month, year int) ([]Record, error)

		WatchClassSummary(ctx context.Context, className string, date core.Date) <-chan ClassSummary
		WatchClassSummaries(ctx context.Context, date core.Date) <-chan []ClassSummary
		WatchSheet(ctx context.Context, className string, date core.Date) <-chan Sheet
		WatchDashboard(ctx context.Context, period Period, date core.Date) <-chan DashboardData
		WatchMonthlyReport(ctx context.Context, month time.Month, year int) <-chan []MonthlyReport
	}

	service struct {
		repo   Repository
		roster Roster
		feed   core.ChangeFeed
		logger core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, roster Roster, feed core.ChangeFeed, logger core.Logger) Service {
	return &service{repo: repo, roster: roster, feed: feed, logger: logger}
}

func (svc *service) ClassSummary(ctx context.Context, className string, date core.Date) (ClassSummary, error) {
	total, err := svc.roster.CountStudents(ctx, className)
	if err != nil {
		return ClassSummary{}, errors.Wrap(err, "counting students")
	}
	recs, err := svc.repo.FilterRecords(ctx, RecordFilter{ClassName: className, Date: date})
	if err != nil {
		return ClassSummary{}, errors.Wrap(err, "querying attendance")
	}
	return SummarizeClass(className, total, recs), nil
}

func (svc *service) ClassSummaries(ctx context.Context, date core.Date) ([]ClassSummary, error) {
	sums := make([]ClassSummary, 0, len(student.Classes))
	for _, class := range student.Classes {
		sum, err := svc.ClassSummary(ctx, class, date)
		if err != nil {
			return nil, err
		}
		sums = append(sums, sum)
	}
	return sums, nil
}

func (svc *service) Sheet(ctx context.Context, className string, date core.Date) (Sheet, error) {
	recs, err := svc.repo.FilterRecords(ctx, RecordFilter{ClassName: className, Date: date})
	if err != nil {
		return Sheet{}, errors.Wrap(err, "querying attendance")
	}
	if len(recs) > 0 {
		return SheetFromRecords(className, date, recs), nil
	}
	roster, err := svc.roster.StudentsByClass(ctx, className)
	if err != nil {
		return Sheet{}, errors.Wrap(err, "querying roster")
	}
	return DeriveDefaultSheet(className, date, roster), nil
}

func validateSheet(sheet Sheet) error {
	var flds []core.FieldError
	if sheet.ClassName == "" {
		flds = append(flds, core.FieldError{Field: "class_name", Error: "select a valid class"})
	}
	if sheet.Date.IsZero() {
		flds = append(flds, core.FieldError{Field: "date", Error: "enter a valid date (dd-MM-yyyy)"})
	}
	for _, e := range sheet.Entries {
		if !e.Status.Valid() {
			flds = append(flds, core.FieldError{Field: "status", Error: "invalid status " + string(e.Status)})
			break
		}
	}
	if len(flds) > 0 {
		return core.NewValidationError(ErrInvalidSheet, flds...)
	}
	return nil
}

func (svc *service) Save(ctx context.Context, sheet Sheet) error {
	if err := validateSheet(sheet); err != nil {
		return err
	}
	if len(sheet.Entries) == 0 {
		return nil
	}
	if err := svc.repo.SaveRecords(ctx, sheet.records()); err != nil {
		return errors.Wrap(err, "saving attendance")
	}
	svc.feed.Publish(core.TableAttendance)
	return nil
}

func (svc *service) countStatus(period Period, date core.Date, status Status) func(context.Context) (int, error) {
	filter := PeriodFilter(period, date)
	filter.Status = status
	return func(ctx context.Context) (int, error) {
		return svc.repo.CountRecords(ctx, filter)
	}
}

func (svc *service) countStudents(ctx context.Context) (int, error) {
	return svc.roster.CountStudents(ctx, "")
}

func (svc *service) Dashboard(ctx context.Context, period Period, date core.Date) (DashboardData, error) {
	total, err := svc.countStudents(ctx)
	if err != nil {
		return DashboardData{}, errors.Wrap(err, "counting students")
	}
	present, err := svc.countStatus(period, date, StatusPresent)(ctx)
	if err != nil {
		return DashboardData{}, errors.Wrap(err, "counting present")
	}
	absent, err := svc.countStatus(period, date, StatusAbsent)(ctx)
	if err != nil {
		return DashboardData{}, errors.Wrap(err, "counting absent")
	}
	return DashboardData{TotalStudents: total, TotalPresent: present, TotalAbsent: absent}, nil
}

func (svc *service) monthRecords(ctx context.Context, month time.Month, year int) ([]Record, error) {
	return svc.repo.FilterRecords(ctx, RecordFilter{Month: month, Year: year})
}

func (svc *service) MonthlyReport(ctx context.Context, month time.Month, year int) ([]MonthlyReport, error) {
	recs, err := svc.monthRecords(ctx, month, year)
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}
	return BuildMonthlyReports(recs), nil
}

func (svc *service) DetailedReport(ctx context.Context, className string, month time.Month, year int) ([]Record, error) {
	recs, err := svc.repo.FilterRecords(ctx, RecordFilter{ClassName: className, Month: month, Year: year})
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}
	SortByStudentAndDate(recs)
	return recs, nil
}

func (svc *service) logFetchErr(what string) func(error) {
	return func(err error) {
		svc.logger.Error("watching "+what, err)
	}
}

func (svc *service) WatchClassSummary(ctx context.Context, className string, date core.Date) <-chan ClassSummary {
	return stream.Watch(ctx, svc.feed, []string{core.TableStudents, core.TableAttendance},
		func(ctx context.Context) (ClassSummary, error) { return svc.ClassSummary(ctx, className, date) },
		svc.logFetchErr("class summary"),
	)
}

func (svc *service) WatchClassSummaries(ctx context.Context, date core.Date) <-chan []ClassSummary {
	ins := make([]<-chan ClassSummary, len(student.Classes))
	for i, class := range student.Classes {
		ins[i] = svc.WatchClassSummary(ctx, class, date)
	}
	return stream.CombineLatest(ctx, ins)
}

func (svc *service) WatchSheet(ctx context.Context, className string, date core.Date) <-chan Sheet {
	return stream.Watch(ctx, svc.feed, []string{core.TableStudents, core.TableAttendance},
		func(ctx context.Context) (Sheet, error) { return svc.Sheet(ctx, className, date) },
		svc.logFetchErr("attendance sheet"),
	)
}

func (svc *service) WatchDashboard(ctx context.Context, period Period, date core.Date) <-chan DashboardData {
	total := stream.Watch(ctx, svc.feed, []string{core.TableStudents}, svc.countStudents, svc.logFetchErr("student count"))
	present := stream.Watch(ctx, svc.feed, []string{core.TableAttendance},
		svc.countStatus(period, date, StatusPresent), svc.logFetchErr("present count"))
	absent := stream.Watch(ctx, svc.feed, []string{core.TableAttendance},
		svc.countStatus(period, date, StatusAbsent), svc.logFetchErr("absent count"))

	return stream.CombineLatest3(ctx, total, present, absent, func(t, p, a int) DashboardData {
		return DashboardData{TotalStudents: t, TotalPresent: p, TotalAbsent: a}
	})
}

func (svc *service) WatchMonthlyReport(ctx context.Context, month time.Month, year int) <-chan []MonthlyReport {
	recs := stream.Watch(ctx, svc.feed, []string{core.TableAttendance},
		func(ctx context.Context) ([]Record, error) { return svc.monthRecords(ctx, month, year) },
		svc.logFetchErr("monthly report"),
	)
	return stream.Map(ctx, recs, BuildMonthlyReports)
}
