package school

import (
	"context"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/stream"
)

// ProfileID is the key of the single school profile row.
const ProfileID = 1

var ErrNotFound = core.NewNotFoundError("school profile")

type Profile struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Logo    []byte `json:"-"`
	Banner  []byte `json:"-"`
}

// SaveProfile holds the school information to store. Nil images are removed.
type SaveProfile struct {
	Name    string `json:"name" validate:"notblank,max=150"`
	Address string `json:"address" validate:"omitempty,max=255"`
	Logo    []byte `json:"-"`
	Banner  []byte `json:"-"`
}

func (sp *SaveProfile) Validate() error {
	sp.Name = core.CleanString(sp.Name)
	sp.Address = core.CleanString(sp.Address)
	return core.Validate.Struct(sp)
}

type (
	Repository interface {
		GetSchoolProfile(ctx context.Context) (Profile, error)
		// SaveSchoolProfile inserts or replaces the profile row.
		SaveSchoolProfile(ctx context.Context, p Profile) (Profile, error)
	}

	Service interface {
		Get(ctx context.Context) (Profile, error)
		Save(ctx context.Context, sp SaveProfile) (Profile, error)
		// Watch emits the profile whenever it changes; nothing is emitted while none is saved.
		Watch(ctx context.Context) <-chan Profile
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

func (svc *service) Get(ctx context.Context) (Profile, error) {
	return svc.repo.GetSchoolProfile(ctx)
}

func (svc *service) normalize(field string, data []byte) ([]byte, error) {
	if len(data) == 0 || svc.images == nil {
		return data, nil
	}
	img, err := svc.images.Normalize(data)
	if err != nil {
		return nil, core.NewValidationError(err, core.FieldError{Field: field, Error: "invalid image"})
	}
	return img, nil
}

func (svc *service) Save(ctx context.Context, sp SaveProfile) (Profile, error) {
	if err := sp.Validate(); err != nil {
		return Profile{}, err
	}
	logo, err := svc.normalize("logo", sp.Logo)
	if err != nil {
		return Profile{}, err
	}
	banner, err := svc.normalize("banner", sp.Banner)
	if err != nil {
		return Profile{}, err
	}

	p, err := svc.repo.SaveSchoolProfile(ctx, Profile{
		ID:      ProfileID,
		Name:    sp.Name,
		Address: sp.Address,
		Logo:    logo,
		Banner:  banner,
	})
	if err != nil {
		return Profile{}, err
	}
	svc.feed.Publish(core.TableSchool)
	return p, nil
}

func (svc *service) Watch(ctx context.Context) <-chan Profile {
	profiles := stream.Watch(ctx, svc.feed, []string{core.TableSchool}, svc.repo.GetSchoolProfile, func(err error) {
		if !core.IsNotFound(err) {
			svc.logger.Error("watching school profile", err)
		}
	})
	return profiles
}
