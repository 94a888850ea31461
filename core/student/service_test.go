package student_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/stream"
	"github.com/trezcool/attendance/core/student"
	"github.com/trezcool/attendance/storage/database/dummy"
	"github.com/trezcool/attendance/tests"
)

func setup(t *testing.T) (student.Service, student.Repository) {
	t.Helper()
	db, err := dummydb.Open()
	require.NoError(t, err)
	repo := dummydb.NewStudentRepository(db)
	svc := student.NewService(repo, stream.NewBroker(), nil, testutil.Logger(testutil.Config(t)))
	return svc, repo
}

func newStudent(name, roll, class, gender string) student.NewStudent {
	return student.NewStudent{
		Name:        name,
		RollNo:      roll,
		ClassName:   class,
		Gender:      gender,
		DateOfBirth: "1-3-2016",
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	core.NowFunc = func() time.Time { return time.Date(2026, time.March, 11, 9, 0, 0, 0, time.UTC) }
	defer func() { core.NowFunc = time.Now }()

	created, err := svc.Create(ctx, newStudent("  Rahim  ", "1", "class1", "male"))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Rahim", created.Name)
	assert.Equal(t, student.Class1, created.ClassName)
	assert.Equal(t, student.GenderMale, created.Gender)
	assert.Equal(t, "01-03-2016", created.DateOfBirth)
	assert.Equal(t, "10 Year 0 Month 10 Day", created.Age)
	assert.Equal(t, student.IDTypeNone, created.IDType)

	tests := []struct {
		name      string
		ns        student.NewStudent
		wantField string
	}{
		{"blank name", newStudent("  ", "2", student.Class1, student.GenderMale), "name"},
		{"blank roll", newStudent("Karim", "", student.Class1, student.GenderMale), "roll_no"},
		{"unknown class", newStudent("Karim", "2", "CLASS12", student.GenderMale), "class_name"},
		{"unknown gender", newStudent("Karim", "2", student.Class1, "X"), "gender"},
		{"bad birth date", func() student.NewStudent {
			ns := newStudent("Karim", "2", student.Class1, student.GenderMale)
			ns.DateOfBirth = "31-02-2016"
			return ns
		}(), "date_of_birth"},
		{"bad phone", func() student.NewStudent {
			ns := newStudent("Karim", "2", student.Class1, student.GenderMale)
			ns.Phone = "call me"
			return ns
		}(), "phone"},
		{"duplicate roll in class", newStudent("Karim", "1", student.Class1, student.GenderMale), "roll_no"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.ns)
			require.Error(t, err)
			assert.True(t, core.IsValidation(err))
			assert.Contains(t, core.FieldErrors(err), tc.wantField)
		})
	}

	t.Run("duplicate roll wraps ErrDuplicateRoll", func(t *testing.T) {
		_, err := svc.Create(ctx, newStudent("Karim", "1", student.Class1, student.GenderMale))
		assert.ErrorIs(t, err, student.ErrDuplicateRoll)
		n, err := svc.Count(ctx, student.Class1)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "duplicate was inserted")
	})

	t.Run("same roll in another class", func(t *testing.T) {
		_, err := svc.Create(ctx, newStudent("Karim", "1", student.Class2, student.GenderMale))
		assert.NoError(t, err)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc, repo := setup(t)

	rahim := testutil.CreateStudent(t, repo, "Rahim", "1", student.Class1, student.GenderMale)
	karim := testutil.CreateStudent(t, repo, "Karim", "2", student.Class1, student.GenderMale)

	t.Run("blank fields keep their value", func(t *testing.T) {
		upd, err := svc.Update(ctx, rahim.ID, student.UpdateStudent{NewStudent: student.NewStudent{Name: "Rahim Uddin"}})
		require.NoError(t, err)
		assert.Equal(t, "Rahim Uddin", upd.Name)
		assert.Equal(t, rahim.RollNo, upd.RollNo)
		assert.Equal(t, rahim.ClassName, upd.ClassName)
	})

	t.Run("own roll is not a duplicate", func(t *testing.T) {
		_, err := svc.Update(ctx, rahim.ID, student.UpdateStudent{NewStudent: student.NewStudent{RollNo: "1"}})
		assert.NoError(t, err)
	})

	t.Run("roll of a classmate is a duplicate", func(t *testing.T) {
		_, err := svc.Update(ctx, karim.ID, student.UpdateStudent{NewStudent: student.NewStudent{RollNo: "1"}})
		assert.ErrorIs(t, err, student.ErrDuplicateRoll)
	})

	t.Run("unknown student", func(t *testing.T) {
		_, err := svc.Update(ctx, 999, student.UpdateStudent{})
		assert.True(t, core.IsNotFound(err))
	})
}

func TestService_Queries(t *testing.T) {
	ctx := context.Background()
	svc, repo := setup(t)

	s10 := testutil.CreateStudent(t, repo, "Zara", "10", student.Class1, student.GenderFemale)
	s9 := testutil.CreateStudent(t, repo, "Amin", "9", student.Class1, student.GenderMale)
	s1 := testutil.CreateStudent(t, repo, "Bela", "1", student.Class3, student.GenderFemale)

	roster, err := svc.ByClass(ctx, student.Class1)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, s9.ID, roster[0].ID)
	assert.Equal(t, s10.ID, roster[1].ID)

	all, err := svc.QueryAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Amin", all[0].Name)

	found, err := svc.Filter(ctx, student.QueryFilter{Search: " BEL "})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, s1.ID, found[0].ID)

	got, err := svc.GetByRollAndClass(ctx, "10", "CLASS1")
	require.NoError(t, err)
	assert.Equal(t, s10.ID, got.ID)

	require.NoError(t, svc.Delete(ctx, s10.ID))
	n, err := svc.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, svc.DeleteAll(ctx))
	n, err = svc.Count(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestService_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc, _ := setup(t)

	students := svc.Watch(ctx, student.QueryFilter{ClassName: student.Class1})
	counts := svc.WatchCount(ctx, "")

	next := func(ch <-chan []student.Student) []student.Student {
		t.Helper()
		select {
		case v := <-ch:
			return v
		case <-time.After(2 * time.Second):
			t.Fatal("no emission")
		}
		return nil
	}

	assert.Empty(t, next(students))
	assert.Equal(t, 0, <-counts)

	_, err := svc.Create(ctx, newStudent("Rahim", "1", student.Class1, student.GenderMale))
	require.NoError(t, err)

	got := next(students)
	require.Len(t, got, 1)
	assert.Equal(t, "Rahim", got[0].Name)
	select {
	case n := <-counts:
		assert.Equal(t, 1, n)
	case <-time.After(2 * time.Second):
		t.Fatal("no count emission")
	}

	cancel()
	for range students {
	}
}
