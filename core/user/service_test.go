package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/stream"
	"github.com/trezcool/attendance/core/user"
	"github.com/trezcool/attendance/storage/database/dummy"
	"github.com/trezcool/attendance/storage/settings"
	"github.com/trezcool/attendance/tests"
)

func setup(t *testing.T) (user.Service, *settingstore.MemoryStore) {
	t.Helper()
	db, err := dummydb.Open()
	require.NoError(t, err)
	store := settingstore.NewMemoryStore()
	svc := user.NewService(dummydb.NewUserRepository(db), store, stream.NewBroker(), nil, testutil.Logger(testutil.Config(t)))
	return svc, store
}

func signUp() user.SignUp {
	return user.SignUp{
		Details: user.Details{
			Name:        "Rahim Uddin",
			Designation: "Assistant Teacher",
			JoiningDate: "1-1-2020",
			Phone:       "+880 1711-000000",
		},
		Email:            " Rahim@School.BD ",
		Password:         "kolkata42",
		PasswordConfirm:  "kolkata42",
		SecurityQuestion: "First pet?",
		SecurityAnswer:   "  Tommy ",
	}
}

func TestService_SignUpAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, store := setup(t)

	p, err := svc.SignUp(ctx, signUp())
	require.NoError(t, err)
	assert.Equal(t, user.ProfileID, p.ID)
	assert.Equal(t, "rahim@school.bd", p.Email)
	assert.Equal(t, "01-01-2020", p.JoiningDate)
	assert.Equal(t, "+8801711000000", p.Phone)
	assert.NotEqual(t, []byte("kolkata42"), p.PasswordHash)
	assert.True(t, store.Get().LoggedIn)
	assert.True(t, svc.IsLoggedIn())

	require.NoError(t, svc.Logout(ctx))
	assert.False(t, store.Get().LoggedIn)

	tests := []struct {
		name    string
		email   string
		pwd     string
		wantErr error
	}{
		{"wrong password", "rahim@school.bd", "kolkata43", user.ErrInvalidCredentials},
		{"unknown email", "karim@school.bd", "kolkata42", user.ErrInvalidCredentials},
		{"valid", " RAHIM@school.bd", "kolkata42", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tc.email, tc.pwd)
			assert.Equal(t, tc.wantErr, err)
			assert.Equal(t, tc.wantErr == nil, store.Get().LoggedIn)
		})
	}
}

func TestService_SignUpValidation(t *testing.T) {
	ctx := context.Background()
	svc, store := setup(t)

	tests := []struct {
		name      string
		modify    func(su *user.SignUp)
		wantField string
	}{
		{"blank name", func(su *user.SignUp) { su.Name = " " }, "name"},
		{"bad email", func(su *user.SignUp) { su.Email = "rahim" }, "email"},
		{"short password", func(su *user.SignUp) { su.Password, su.PasswordConfirm = "ab1", "ab1" }, "password"},
		{"password with space", func(su *user.SignUp) { su.Password, su.PasswordConfirm = "kolkata 42", "kolkata 42" }, "password"},
		{"password like name", func(su *user.SignUp) { su.Password, su.PasswordConfirm = "RahimUddin", "RahimUddin" }, "password"},
		{"password like email", func(su *user.SignUp) { su.Password, su.PasswordConfirm = "rahim@school", "rahim@school" }, "password"},
		{"confirmation mismatch", func(su *user.SignUp) { su.PasswordConfirm = "kolkata43" }, "password_confirm"},
		{"missing question", func(su *user.SignUp) { su.SecurityQuestion = " " }, "security_question"},
		{"missing answer", func(su *user.SignUp) { su.SecurityAnswer = "  " }, "security_answer"},
		{"bad joining date", func(su *user.SignUp) { su.JoiningDate = "2020-01-01" }, "joining_date"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			su := signUp()
			tc.modify(&su)
			_, err := svc.SignUp(ctx, su)
			require.Error(t, err)
			assert.Contains(t, core.FieldErrors(err), tc.wantField)
		})
	}
	assert.False(t, store.Get().LoggedIn)
	_, err := svc.Get(ctx)
	assert.True(t, core.IsNotFound(err))
}

func TestService_SignUpExistingAccount(t *testing.T) {
	ctx := context.Background()
	svc, store := setup(t)
	_, err := svc.SignUp(ctx, signUp())
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx))

	tests := []struct {
		name    string
		email   string
		wantErr error
	}{
		{"same email", "RAHIM@school.bd", user.ErrEmailExists},
		{"other email", "karim@school.bd", user.ErrAccountExists},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			su := signUp()
			su.Email = tc.email
			su.Password, su.PasswordConfirm = "intruder99", "intruder99"
			_, err := svc.SignUp(ctx, su)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Contains(t, core.FieldErrors(err), "email")
			assert.False(t, store.Get().LoggedIn)
		})
	}

	_, err = svc.Login(ctx, "rahim@school.bd", "intruder99")
	assert.Equal(t, user.ErrInvalidCredentials, err)
	_, err = svc.Login(ctx, "rahim@school.bd", "kolkata42")
	assert.NoError(t, err)
}

func TestService_Save(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	_, err := svc.Save(ctx, user.UpdateProfile{})
	assert.True(t, core.IsNotFound(err))

	orig, err := svc.SignUp(ctx, signUp())
	require.NoError(t, err)

	upd, err := svc.Save(ctx, user.UpdateProfile{Details: user.Details{Qualification: "MSc", Image: []byte{1}}})
	require.NoError(t, err)
	assert.Equal(t, "MSc", upd.Qualification)
	assert.Equal(t, orig.Name, upd.Name)
	assert.Equal(t, orig.PasswordHash, upd.PasswordHash, "credentials changed")
	assert.Equal(t, []byte{1}, upd.Image)

	upd, err = svc.Save(ctx, user.UpdateProfile{RemoveImage: true})
	require.NoError(t, err)
	assert.Nil(t, upd.Image)
}

func TestService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)
	_, err := svc.SignUp(ctx, signUp())
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ChangePassword{OldPassword: "nope", Password: "dhaka2026", PasswordConfirm: "dhaka2026"})
	assert.ErrorIs(t, err, user.ErrWrongPassword)

	err = svc.ChangePassword(ctx, user.ChangePassword{OldPassword: "kolkata42", Password: "x", PasswordConfirm: "x"})
	assert.Contains(t, core.FieldErrors(err), "password")

	require.NoError(t, svc.ChangePassword(ctx, user.ChangePassword{OldPassword: "kolkata42", Password: "dhaka2026", PasswordConfirm: "dhaka2026"}))
	_, err = svc.Login(ctx, "rahim@school.bd", "dhaka2026")
	assert.NoError(t, err)
}

func TestService_RecoverPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)
	_, err := svc.SignUp(ctx, signUp())
	require.NoError(t, err)

	q, err := svc.SecurityQuestion(ctx, "rahim@school.bd")
	require.NoError(t, err)
	assert.Equal(t, "First pet?", q)

	_, err = svc.SecurityQuestion(ctx, "karim@school.bd")
	assert.True(t, core.IsNotFound(err))

	err = svc.RecoverPassword(ctx, user.RecoverPassword{
		Email: "rahim@school.bd", SecurityAnswer: "Jimmy", Password: "dhaka2026", PasswordConfirm: "dhaka2026",
	})
	assert.ErrorIs(t, err, user.ErrWrongSecurityAnswer)

	require.NoError(t, svc.RecoverPassword(ctx, user.RecoverPassword{
		Email: "rahim@school.bd", SecurityAnswer: "TOMMY", Password: "dhaka2026", PasswordConfirm: "dhaka2026",
	}))
	_, err = svc.Login(ctx, "rahim@school.bd", "kolkata42")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "rahim@school.bd", "dhaka2026")
	assert.NoError(t, err)
}
