package user

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/settings"
	"github.com/trezcool/attendance/core/stream"
)

var (
	// errors
	ErrNotFound            = core.NewNotFoundError("user profile")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrWrongPassword       = errors.New("wrong password")
	ErrWrongSecurityAnswer = errors.New("wrong security answer")
	ErrNoSecurityQuestion  = errors.New("no security question was set")
	ErrEmailExists         = errors.New("an account with this email already exists")
	ErrAccountExists       = errors.New("an account is already registered on this device")
)

type (
	Repository interface {
		GetUserProfile(ctx context.Context) (Profile, error)
		GetUserProfileByEmail(ctx context.Context, email string) (Profile, error)
		// SaveUserProfile inserts or replaces the profile row.
		SaveUserProfile(ctx context.Context, p Profile) (Profile, error)
		UpdatePassword(ctx context.Context, email string, pwdHash []byte) error
	}

	Service interface {
		// SignUp registers the teacher and logs them in. Only one account may exist.
		SignUp(ctx context.Context, su SignUp) (Profile, error)
		Login(ctx context.Context, email, pwd string) (Profile, error)
		Logout(ctx context.Context) error
		IsLoggedIn() bool
		Get(ctx context.Context) (Profile, error)
		GetByEmail(ctx context.Context, email string) (Profile, error)
		Save(ctx context.Context, up UpdateProfile) (Profile, error)
		ChangePassword(ctx context.Context, cp ChangePassword) error
		SecurityQuestion(ctx context.Context, email string) (string, error)
		RecoverPassword(ctx context.Context, rp RecoverPassword) error
		Watch(ctx context.Context) <-chan Profile
	}

	service struct {
		repo     Repository
		settings settings.Store
		feed     core.ChangeFeed
		images   core.ImageProcessor
		logger   core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(
	repo Repository,
	settingsStore settings.Store,
	feed core.ChangeFeed,
	images core.ImageProcessor,
	logger core.Logger,
) Service {
	return &service{repo: repo, settings: settingsStore, feed: feed, images: images, logger: logger}
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

func (svc *service) checkNoAccount(ctx context.Context, email string) error {
	if _, err := svc.repo.GetUserProfileByEmail(ctx, email); err == nil {
		return core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
	} else if !core.IsNotFound(err) {
		return err
	}
	if _, err := svc.repo.GetUserProfile(ctx); err == nil {
		return core.NewValidationError(ErrAccountExists, core.FieldError{Field: "email", Error: ErrAccountExists.Error()})
	} else if !core.IsNotFound(err) {
		return err
	}
	return nil
}

func (svc *service) SignUp(ctx context.Context, su SignUp) (Profile, error) {
	if err := su.Validate(); err != nil {
		return Profile{}, err
	}
	if err := svc.checkNoAccount(ctx, su.Email); err != nil {
		return Profile{}, err
	}
	img, err := svc.normalizeImage(su.Image)
	if err != nil {
		return Profile{}, err
	}
	su.Image = img

	p := Profile{ID: ProfileID, Email: su.Email, SecurityQuestion: su.SecurityQuestion}
	su.Details.apply(&p)
	if err := p.SetPassword(su.Password); err != nil {
		return Profile{}, errors.Wrap(err, "hashing password")
	}
	if err := p.SetSecurityAnswer(su.SecurityAnswer); err != nil {
		return Profile{}, errors.Wrap(err, "hashing security answer")
	}

	if p, err = svc.repo.SaveUserProfile(ctx, p); err != nil {
		return Profile{}, err
	}
	svc.feed.Publish(core.TableUser)
	if err := svc.settings.SetLoggedIn(true); err != nil {
		return Profile{}, errors.Wrap(err, "saving session")
	}
	svc.logger.Info("signed up", p)
	return p, nil
}

func (svc *service) Login(ctx context.Context, email, pwd string) (Profile, error) {
	p, err := svc.GetByEmail(ctx, email)
	if err != nil {
		if core.IsNotFound(err) {
			return Profile{}, ErrInvalidCredentials
		}
		return Profile{}, err
	}
	if err := p.CheckPassword(pwd); err != nil {
		return Profile{}, ErrInvalidCredentials
	}
	if err := svc.settings.SetLoggedIn(true); err != nil {
		return Profile{}, errors.Wrap(err, "saving session")
	}
	return p, nil
}

func (svc *service) Logout(_ context.Context) error {
	return errors.Wrap(svc.settings.SetLoggedIn(false), "clearing session")
}

func (svc *service) IsLoggedIn() bool {
	return svc.settings.Get().LoggedIn
}

func (svc *service) Get(ctx context.Context) (Profile, error) {
	return svc.repo.GetUserProfile(ctx)
}

func (svc *service) GetByEmail(ctx context.Context, email string) (Profile, error) {
	return svc.repo.GetUserProfileByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *service) Save(ctx context.Context, up UpdateProfile) (Profile, error) {
	orig, err := svc.repo.GetUserProfile(ctx)
	if err != nil {
		return Profile{}, err
	}
	imgChanged := up.Image != nil
	if err := up.Validate(orig); err != nil {
		return Profile{}, err
	}
	if imgChanged {
		if up.Image, err = svc.normalizeImage(up.Image); err != nil {
			return Profile{}, err
		}
	}

	p := orig
	up.Details.apply(&p)
	if p, err = svc.repo.SaveUserProfile(ctx, p); err != nil {
		return Profile{}, err
	}
	svc.feed.Publish(core.TableUser)
	return p, nil
}

func (svc *service) ChangePassword(ctx context.Context, cp ChangePassword) error {
	p, err := svc.repo.GetUserProfile(ctx)
	if err != nil {
		return err
	}
	if err := cp.Validate(p); err != nil {
		return err
	}
	if err := p.CheckPassword(cp.OldPassword); err != nil {
		return core.NewValidationError(ErrWrongPassword, core.FieldError{Field: "old_password", Error: ErrWrongPassword.Error()})
	}
	return svc.updatePassword(ctx, p, cp.Password)
}

func (svc *service) SecurityQuestion(ctx context.Context, email string) (string, error) {
	p, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if p.SecurityQuestion == "" {
		return "", ErrNoSecurityQuestion
	}
	return p.SecurityQuestion, nil
}

func (svc *service) RecoverPassword(ctx context.Context, rp RecoverPassword) error {
	p, err := svc.GetByEmail(ctx, rp.Email)
	if err != nil {
		return err
	}
	if err := rp.Validate(p); err != nil {
		return err
	}
	if err := p.CheckSecurityAnswer(rp.SecurityAnswer); err != nil {
		return core.NewValidationError(ErrWrongSecurityAnswer, core.FieldError{Field: "security_answer", Error: ErrWrongSecurityAnswer.Error()})
	}
	return svc.updatePassword(ctx, p, rp.Password)
}

func (svc *service) updatePassword(ctx context.Context, p Profile, pwd string) error {
	if err := p.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	if err := svc.repo.UpdatePassword(ctx, p.Email, p.PasswordHash); err != nil {
		return err
	}
	svc.feed.Publish(core.TableUser)
	return nil
}

func (svc *service) Watch(ctx context.Context) <-chan Profile {
	return stream.Watch(ctx, svc.feed, []string{core.TableUser}, svc.repo.GetUserProfile, func(err error) {
		if !core.IsNotFound(err) {
			svc.logger.Error("watching user profile", err)
		}
	})
}
