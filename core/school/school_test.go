package school_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/school"
	"github.com/trezcool/attendance/core/stream"
	"github.com/trezcool/attendance/storage/database/dummy"
	"github.com/trezcool/attendance/tests"
)

type fakeImages struct {
	calls int
}

func (f *fakeImages) Normalize(data []byte) ([]byte, error) {
	f.calls++
	if string(data) == "bad" {
		return nil, errors.New("corrupt")
	}
	return append([]byte("jpeg:"), data...), nil
}

func TestService(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := dummydb.Open()
	require.NoError(t, err)
	images := &fakeImages{}
	svc := school.NewService(dummydb.NewSchoolRepository(db), stream.NewBroker(), images, testutil.Logger(testutil.Config(t)))

	_, err = svc.Get(ctx)
	assert.True(t, core.IsNotFound(err))

	profiles := svc.Watch(ctx)

	t.Run("name is required", func(t *testing.T) {
		_, err := svc.Save(ctx, school.SaveProfile{Name: "   "})
		assert.Contains(t, core.FieldErrors(err), "name")
	})

	t.Run("bad logo", func(t *testing.T) {
		_, err := svc.Save(ctx, school.SaveProfile{Name: "Green Valley", Logo: []byte("bad")})
		assert.Contains(t, core.FieldErrors(err), "logo")
	})

	saved, err := svc.Save(ctx, school.SaveProfile{Name: " Green Valley ", Address: "Dhaka", Logo: []byte("logo")})
	require.NoError(t, err)
	assert.Equal(t, school.Profile{ID: school.ProfileID, Name: "Green Valley", Address: "Dhaka", Logo: []byte("jpeg:logo")}, saved)

	select {
	case got := <-profiles:
		assert.Equal(t, saved, got)
	case <-time.After(2 * time.Second):
		t.Fatal("no profile emitted")
	}

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}
