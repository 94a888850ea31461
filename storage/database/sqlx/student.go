package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/student"
)

const (
	studentColumns = "name, rollNo, dateOfBirth, age, nidOrBirthReg, idType, className, fatherName, motherName, " +
		"phone, religion, gender, bloodGroup, address, country, admissionDate, image"
	studentRollOrder = " ORDER BY CAST(rollNo AS INTEGER) ASC, rollNo ASC, id ASC"
)

type studentRow struct {
	ID            int        `db:"id"`
	Name          string     `db:"name"`
	RollNo        string     `db:"rollNo"`
	DateOfBirth   string     `db:"dateOfBirth"`
	Age           string     `db:"age"`
	NIDOrBirthReg string     `db:"nidOrBirthReg"`
	IDType        string     `db:"idType"`
	ClassName     string     `db:"className"`
	FatherName    string     `db:"fatherName"`
	MotherName    string     `db:"motherName"`
	Phone         string     `db:"phone"`
	Religion      string     `db:"religion"`
	Gender        string     `db:"gender"`
	BloodGroup    string     `db:"bloodGroup"`
	Address       string     `db:"address"`
	Country       string     `db:"country"`
	AdmissionDate string     `db:"admissionDate"`
	Image         null.Bytes `db:"image"`
}

type studentRepository struct {
	exec core.DBExecutor
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(exec core.DBExecutor) student.Repository {
	return &studentRepository{exec: exec}
}

func (repo *studentRepository) toRow(s student.Student) studentRow {
	return studentRow{
		ID:            s.ID,
		Name:          s.Name,
		RollNo:        s.RollNo,
		DateOfBirth:   s.DateOfBirth,
		Age:           s.Age,
		NIDOrBirthReg: s.NIDOrBirthReg,
		IDType:        s.IDType,
		ClassName:     s.ClassName,
		FatherName:    s.FatherName,
		MotherName:    s.MotherName,
		Phone:         s.Phone,
		Religion:      s.Religion,
		Gender:        s.Gender,
		BloodGroup:    s.BloodGroup,
		Address:       s.Address,
		Country:       s.Country,
		AdmissionDate: s.AdmissionDate,
		Image:         null.NewBytes(s.Image, len(s.Image) > 0),
	}
}

func (repo *studentRepository) fromRow(row studentRow) student.Student {
	return student.Student{
		ID:            row.ID,
		Name:          row.Name,
		RollNo:        row.RollNo,
		DateOfBirth:   row.DateOfBirth,
		Age:           row.Age,
		NIDOrBirthReg: row.NIDOrBirthReg,
		IDType:        row.IDType,
		ClassName:     row.ClassName,
		FatherName:    row.FatherName,
		MotherName:    row.MotherName,
		Phone:         row.Phone,
		Religion:      row.Religion,
		Gender:        row.Gender,
		BloodGroup:    row.BloodGroup,
		Address:       row.Address,
		Country:       row.Country,
		AdmissionDate: row.AdmissionDate,
		Image:         row.Image.Bytes,
	}
}

func (repo *studentRepository) selectStudents(ctx context.Context, query string, args ...interface{}) ([]student.Student, error) {
	var rows []studentRow
	if err := repo.exec.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "selecting students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, repo.fromRow(row))
	}
	return students, nil
}

func (repo *studentRepository) getStudent(ctx context.Context, query string, args ...interface{}) (student.Student, error) {
	var row studentRow
	if err := repo.exec.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return repo.fromRow(row), nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	q := "INSERT INTO students (" + studentColumns + ") VALUES (" + namedParams(studentColumns) + ")"
	res, err := repo.exec.NamedExecContext(ctx, q, repo.toRow(s))
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	s.ID = int(id)
	return s, nil
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	return repo.selectStudents(ctx, "SELECT * FROM students ORDER BY name ASC, id ASC")
}

func (repo *studentRepository) GetStudent(ctx context.Context, id int) (student.Student, error) {
	return repo.getStudent(ctx, "SELECT * FROM students WHERE id = ?", id)
}

func (repo *studentRepository) GetStudentByRollAndClass(ctx context.Context, rollNo, className string) (student.Student, error) {
	return repo.getStudent(ctx, "SELECT * FROM students WHERE rollNo = ? AND className = ? LIMIT 1", rollNo, className)
}

func (repo *studentRepository) FilterStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Search != "" {
		conds = append(conds, "(name LIKE ? OR rollNo LIKE ?)")
		like := "%" + filter.Search + "%"
		args = append(args, like, like)
	}
	if filter.ClassName != "" {
		conds = append(conds, "className = ?")
		args = append(args, filter.ClassName)
	}
	if filter.Gender != "" {
		conds = append(conds, "gender = ?")
		args = append(args, filter.Gender)
	}
	return repo.selectStudents(ctx, "SELECT * FROM students"+where(conds)+studentRollOrder, args...)
}

func (repo *studentRepository) StudentsByClass(ctx context.Context, className string) ([]student.Student, error) {
	return repo.selectStudents(ctx, "SELECT * FROM students WHERE className = ?"+studentRollOrder, className)
}

func (repo *studentRepository) CountStudents(ctx context.Context, className string) (int, error) {
	var (
		count int
		err   error
	)
	if className == "" {
		err = repo.exec.GetContext(ctx, &count, "SELECT COUNT(*) FROM students")
	} else {
		err = repo.exec.GetContext(ctx, &count, "SELECT COUNT(*) FROM students WHERE className = ?", className)
	}
	return count, errors.Wrap(err, "counting students")
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	cols := strings.Split(studentColumns, ", ")
	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = col + " = :" + col
	}
	q := "UPDATE students SET " + strings.Join(sets, ", ") + " WHERE id = :id"
	res, err := repo.exec.NamedExecContext(ctx, q, repo.toRow(s))
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return s, nil
}

func (repo *studentRepository) DeleteStudentsByID(ctx context.Context, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := inClause("DELETE FROM students WHERE id IN (?)", ids)
	if err != nil {
		return err
	}
	_, err = repo.exec.ExecContext(ctx, q, args...)
	return errors.Wrap(err, "deleting students")
}

func (repo *studentRepository) DeleteAllStudents(ctx context.Context) error {
	_, err := repo.exec.ExecContext(ctx, "DELETE FROM students")
	return errors.Wrap(err, "deleting students")
}
