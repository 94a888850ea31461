package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/user"
)

const userColumns = "id, name, designation, qualification, teacherId, joiningDate, jobDuration, assignedClasses, " +
	"subjectExpert, phone, email, password, securityQuestion, securityAnswer, image"

type userRow struct {
	ID               int         `db:"id"`
	Name             string      `db:"name"`
	Designation      string      `db:"designation"`
	Qualification    string      `db:"qualification"`
	TeacherID        string      `db:"teacherId"`
	JoiningDate      string      `db:"joiningDate"`
	JobDuration      string      `db:"jobDuration"`
	AssignedClasses  string      `db:"assignedClasses"`
	SubjectExpert    string      `db:"subjectExpert"`
	Phone            string      `db:"phone"`
	Email            string      `db:"email"`
	Password         []byte      `db:"password"`
	SecurityQuestion null.String `db:"securityQuestion"`
	SecurityAnswer   null.Bytes  `db:"securityAnswer"`
	Image            null.Bytes  `db:"image"`
}

type userRepository struct {
	exec core.DBExecutor
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(exec core.DBExecutor) user.Repository {
	return &userRepository{exec: exec}
}

func (repo *userRepository) toRow(p user.Profile) userRow {
	return userRow{
		ID:               p.ID,
		Name:             p.Name,
		Designation:      p.Designation,
		Qualification:    p.Qualification,
		TeacherID:        p.TeacherID,
		JoiningDate:      p.JoiningDate,
		JobDuration:      p.JobDuration,
		AssignedClasses:  p.AssignedClasses,
		SubjectExpert:    p.SubjectExpert,
		Phone:            p.Phone,
		Email:            p.Email,
		Password:         p.PasswordHash,
		SecurityQuestion: null.NewString(p.SecurityQuestion, p.SecurityQuestion != ""),
		SecurityAnswer:   null.NewBytes(p.SecurityAnswerHash, len(p.SecurityAnswerHash) > 0),
		Image:            null.NewBytes(p.Image, len(p.Image) > 0),
	}
}

func (repo *userRepository) fromRow(row userRow) user.Profile {
	return user.Profile{
		ID:                 row.ID,
		Name:               row.Name,
		Designation:        row.Designation,
		Qualification:      row.Qualification,
		TeacherID:          row.TeacherID,
		JoiningDate:        row.JoiningDate,
		JobDuration:        row.JobDuration,
		AssignedClasses:    row.AssignedClasses,
		SubjectExpert:      row.SubjectExpert,
		Phone:              row.Phone,
		Email:              row.Email,
		PasswordHash:       row.Password,
		SecurityQuestion:   row.SecurityQuestion.String,
		SecurityAnswerHash: row.SecurityAnswer.Bytes,
		Image:              row.Image.Bytes,
	}
}

func (repo *userRepository) get(ctx context.Context, query string, args ...interface{}) (user.Profile, error) {
	var row userRow
	if err := repo.exec.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.Profile{}, user.ErrNotFound
		}
		return user.Profile{}, errors.Wrap(err, "getting user profile")
	}
	return repo.fromRow(row), nil
}

func (repo *userRepository) GetUserProfile(ctx context.Context) (user.Profile, error) {
	return repo.get(ctx, "SELECT * FROM user_profile WHERE id = ?", user.ProfileID)
}

func (repo *userRepository) GetUserProfileByEmail(ctx context.Context, email string) (user.Profile, error) {
	return repo.get(ctx, "SELECT * FROM user_profile WHERE email = ? LIMIT 1", email)
}

func (repo *userRepository) SaveUserProfile(ctx context.Context, p user.Profile) (user.Profile, error) {
	p.ID = user.ProfileID
	q := "INSERT OR REPLACE INTO user_profile (" + userColumns + ") VALUES (" + namedParams(userColumns) + ")"
	if _, err := repo.exec.NamedExecContext(ctx, q, repo.toRow(p)); err != nil {
		return user.Profile{}, errors.Wrap(err, "saving user profile")
	}
	return p, nil
}

func (repo *userRepository) UpdatePassword(ctx context.Context, email string, pwdHash []byte) error {
	res, err := repo.exec.ExecContext(ctx, "UPDATE user_profile SET password = ? WHERE email = ?", pwdHash, email)
	if err != nil {
		return errors.Wrap(err, "updating password")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.ErrNotFound
	}
	return nil
}
