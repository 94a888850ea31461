package dummydb

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/trezcool/attendance/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		students = append(students, *s)
	}
	return students
}

// rollKey mimics CAST(rollNo AS INTEGER): the leading digits, 0 when there are none.
func rollKey(rollNo string) int {
	end := 0
	for end < len(rollNo) && rollNo[end] >= '0' && rollNo[end] <= '9' {
		end++
	}
	n, _ := strconv.Atoi(rollNo[:end])
	return n
}

func sortByRoll(students []student.Student) {
	sort.Slice(students, func(i, j int) bool {
		ki, kj := rollKey(students[i].RollNo), rollKey(students[j].RollNo)
		if ki != kj {
			return ki < kj
		}
		if students[i].RollNo != students[j].RollNo {
			return students[i].RollNo < students[j].RollNo
		}
		return students[i].ID < students[j].ID
	})
}

func (repo *studentRepository) CreateStudent(_ context.Context, s student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	s.ID = repo.db.pkCount
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *studentRepository) QueryAllStudents(_ context.Context) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := repo.query()
	sort.Slice(students, func(i, j int) bool {
		if students[i].Name != students[j].Name {
			return students[i].Name < students[j].Name
		}
		return students[i].ID < students[j].ID
	})
	return students, nil
}

func (repo *studentRepository) GetStudent(_ context.Context, id int) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return *s, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByRollAndClass(_ context.Context, rollNo, className string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, s := range repo.query() {
		if s.RollNo == rollNo && s.ClassName == className {
			return s, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) FilterStudents(_ context.Context, filter student.QueryFilter) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	search := strings.ToLower(filter.Search)
	students := make([]student.Student, 0)
	for _, s := range repo.query() {
		if search != "" &&
			!strings.Contains(strings.ToLower(s.Name), search) &&
			!strings.Contains(strings.ToLower(s.RollNo), search) {
			continue
		}
		if filter.ClassName != "" && s.ClassName != filter.ClassName {
			continue
		}
		if filter.Gender != "" && s.Gender != filter.Gender {
			continue
		}
		students = append(students, s)
	}
	sortByRoll(students)
	return students, nil
}

func (repo *studentRepository) StudentsByClass(ctx context.Context, className string) ([]student.Student, error) {
	return repo.FilterStudents(ctx, student.QueryFilter{ClassName: className})
}

func (repo *studentRepository) CountStudents(_ context.Context, className string) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if className == "" {
		return len(repo.db.table), nil
	}
	var count int
	for _, s := range repo.db.table {
		if s.ClassName == className {
			count++
		}
	}
	return count, nil
}

func (repo *studentRepository) UpdateStudent(_ context.Context, s student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[s.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *studentRepository) DeleteStudentsByID(_ context.Context, ids ...int) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func (repo *studentRepository) DeleteAllStudents(_ context.Context) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table = make(map[int]*student.Student)
	return nil
}
