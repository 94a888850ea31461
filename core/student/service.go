package student

import (
	"bytes"
	"context"
	"errors"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/stream"
)

var (
	// errors
	ErrNotFound      = core.NewNotFoundError("student")
	ErrDuplicateRoll = errors.New("this roll number is already taken in this class")
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, s Student) (Student, error)
		// QueryAllStudents returns every student ordered by name.
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudent(ctx context.Context, id int) (Student, error)
		GetStudentByRollAndClass(ctx context.Context, rollNo, className string) (Student, error)
		// FilterStudents applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of Student.Name or Student.RollNo.
		// Results are ordered by the numeric value of the roll number.
		FilterStudents(ctx context.Context, filter QueryFilter) ([]Student, error)
		// StudentsByClass returns the class roster ordered by the numeric value of the roll number.
		StudentsByClass(ctx context.Context, className string) ([]Student, error)
		// CountStudents counts the students of the given class, or of the whole school if className is empty.
		CountStudents(ctx context.Context, className string) (int, error)
		UpdateStudent(ctx context.Context, s Student) (Student, error)
		DeleteStudentsByID(ctx context.Context, ids ...int) error
		DeleteAllStudents(ctx context.Context) error
	}

	Service interface {
		Create(ctx context.Context, ns NewStudent) (Student, error)
		QueryAll(ctx context.Context) ([]Student, error)
		Get(ctx context.Context, id int) (Student, error)
		GetByRollAndClass(ctx context.Context, rollNo, className string) (Student, error)
		Filter(ctx context.Context, filter QueryFilter) ([]Student, error)
		ByClass(ctx context.Context, className string) ([]Student, error)
		Count(ctx context.Context, className string) (int, error)
		Update(ctx context.Context, id int, us UpdateStudent) (Student, error)
		Delete(ctx context.Context, ids ...int) error
		DeleteAll(ctx context.Context) error

		// Watch emits the filtered student list now and after every change to the students table.
		Watch(ctx context.Context, filter QueryFilter) <-chan []Student
		// WatchCount emits the number of students of a class (or the whole school).
		WatchCount(ctx context.Context, className string) <-chan int
	}

	service struct {
		repo   Repository
		feed   core.ChangeFeed
		images core.ImageProcessor
		logger core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, feed core.ChangeFeed, images core.ImageProcessor, logger core.Logger) Service {
	return &service{repo: repo, feed: feed, images: images, logger: logger}
}

// checkRollUniqueness rejects a roll number already used in the class by another student.
func (svc *service) checkRollUniqueness(ctx context.Context, rollNo, className string, excludedIDs ...int) error {
	existing, err := svc.repo.GetStudentByRollAndClass(ctx, rollNo, className)
	if err != nil {
		if core.IsNotFound(err) {
			return nil
		}
		return err
	}
	for _, id := range excludedIDs {
		if existing.ID == id {
			return nil
		}
	}
	return core.NewValidationError(ErrDuplicateRoll, core.FieldError{Field: "roll_no", Error: ErrDuplicateRoll.Error()})
}

func (svc *service) normalizeImage(data []byte) ([]byte, error) {
	if len(data) == 0 || svc.images == nil {
		return data, nil
	}
	img, err := svc.images.Normalize(data)
	if err != nil {
		return nil, core.NewValidationError(err, core.FieldError{Field: "image", Error: "invalid image"})
	}
	return img, nil
}

func (svc *service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	if err := ns.Validate(); err != nil {
		return Student{}, err
	}
	if err := svc.checkRollUniqueness(ctx, ns.RollNo, ns.ClassName); err != nil {
		return Student{}, err
	}
	img, err := svc.normalizeImage(ns.Image)
	if err != nil {
		return Student{}, err
	}
	ns.Image = img

	s, err := svc.repo.CreateStudent(ctx, ns.student())
	if err != nil {
		return Student{}, err
	}
	svc.feed.Publish(core.TableStudents)
	return s, nil
}

func (svc *service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}

func (svc *service) Get(ctx context.Context, id int) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

func (svc *service) GetByRollAndClass(ctx context.Context, rollNo, className string) (Student, error) {
	return svc.repo.GetStudentByRollAndClass(ctx, core.CleanString(rollNo), ClassFromCode(className))
}

func (svc *service) Filter(ctx context.Context, filter QueryFilter) ([]Student, error) {
	filter.Clean()
	return svc.repo.FilterStudents(ctx, filter)
}

func (svc *service) ByClass(ctx context.Context, className string) ([]Student, error) {
	return svc.repo.StudentsByClass(ctx, className)
}

func (svc *service) Count(ctx context.Context, className string) (int, error) {
	return svc.repo.CountStudents(ctx, className)
}

func (svc *service) Update(ctx context.Context, id int, us UpdateStudent) (Student, error) {
	orig, err := svc.repo.GetStudent(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if err := us.Validate(orig); err != nil {
		return Student{}, err
	}
	if err := svc.checkRollUniqueness(ctx, us.RollNo, us.ClassName, id); err != nil {
		return Student{}, err
	}
	if us.Image != nil && !bytes.Equal(us.Image, orig.Image) {
		img, err := svc.normalizeImage(us.Image)
		if err != nil {
			return Student{}, err
		}
		us.Image = img
	}

	s := us.student()
	s.ID = id
	s, err = svc.repo.UpdateStudent(ctx, s)
	if err != nil {
		return Student{}, err
	}
	svc.feed.Publish(core.TableStudents)
	return s, nil
}

// Delete removes students; their attendance history is kept.
func (svc *service) Delete(ctx context.Context, ids ...int) error {
	if err := svc.repo.DeleteStudentsByID(ctx, ids...); err != nil {
		return err
	}
	svc.feed.Publish(core.TableStudents)
	return nil
}

func (svc *service) DeleteAll(ctx context.Context) error {
	if err := svc.repo.DeleteAllStudents(ctx); err != nil {
		return err
	}
	svc.feed.Publish(core.TableStudents)
	return nil
}

func (svc *service) logFetchErr(what string) func(error) {
	return func(err error) {
		svc.logger.Error("watching "+what, err)
	}
}

func (svc *service) Watch(ctx context.Context, filter QueryFilter) <-chan []Student {
	filter.Clean()
	return stream.Watch(ctx, svc.feed, []string{core.TableStudents},
		func(ctx context.Context) ([]Student, error) { return svc.repo.FilterStudents(ctx, filter) },
		svc.logFetchErr("students"),
	)
}

func (svc *service) WatchCount(ctx context.Context, className string) <-chan int {
	return stream.Watch(ctx, svc.feed, []string{core.TableStudents},
		func(ctx context.Context) (int, error) { return svc.repo.CountStudents(ctx, className) },
		svc.logFetchErr("student count"),
	)
}
