package dummydb

import (
	"sync"

	"github.com/trezcool/attendance/core/attendance"
	"github.com/trezcool/attendance/core/school"
	"github.com/trezcool/attendance/core/student"
	"github.com/trezcool/attendance/core/user"
)

type (
	// DB is an in-memory stand-in for the sqlite database, used by tests.
	DB struct {
		student    *studentTable
		attendance *attendanceTable
		school     *schoolTable
		user       *userTable
	}

	studentTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*student.Student
	}

	attendanceTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*attendance.Record
	}

	schoolTable struct {
		sync.RWMutex
		profile *school.Profile
	}

	userTable struct {
		sync.RWMutex
		profile *user.Profile
	}
)

func Open() (*DB, error) {
	db := &DB{
		student:    &studentTable{table: make(map[int]*student.Student)},
		attendance: &attendanceTable{table: make(map[int]*attendance.Record)},
		school:     &schoolTable{},
		user:       &userTable{},
	}
	return db, nil
}
