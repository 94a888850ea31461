package dummydb

import (
	"context"

	"github.com/trezcool/attendance/core/school"
	"github.com/trezcool/attendance/core/user"
)

type schoolRepository struct {
	db *schoolTable
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *DB) school.Repository {
	return &schoolRepository{db: db.school}
}

func (repo *schoolRepository) GetSchoolProfile(_ context.Context) (school.Profile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if repo.db.profile == nil {
		return school.Profile{}, school.ErrNotFound
	}
	return *repo.db.profile, nil
}

func (repo *schoolRepository) SaveSchoolProfile(_ context.Context, p school.Profile) (school.Profile, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	p.ID = school.ProfileID
	repo.db.profile = &p
	return p, nil
}

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) GetUserProfile(_ context.Context) (user.Profile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if repo.db.profile == nil {
		return user.Profile{}, user.ErrNotFound
	}
	return *repo.db.profile, nil
}

func (repo *userRepository) GetUserProfileByEmail(_ context.Context, email string) (user.Profile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if repo.db.profile == nil || repo.db.profile.Email != email {
		return user.Profile{}, user.ErrNotFound
	}
	return *repo.db.profile, nil
}

func (repo *userRepository) SaveUserProfile(_ context.Context, p user.Profile) (user.Profile, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	p.ID = user.ProfileID
	repo.db.profile = &p
	return p, nil
}

func (repo *userRepository) UpdatePassword(_ context.Context, email string, pwdHash []byte) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.db.profile == nil || repo.db.profile.Email != email {
		return user.ErrNotFound
	}
	repo.db.profile.PasswordHash = pwdHash
	return nil
}
