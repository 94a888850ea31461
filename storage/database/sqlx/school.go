package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/school"
)

type schoolRow struct {
	ID      int        `db:"id"`
	Name    string     `db:"name"`
	Address string     `db:"address"`
	Logo    null.Bytes `db:"logo"`
	Banner  null.Bytes `db:"banner"`
}

type schoolRepository struct {
	exec core.DBExecutor
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(exec core.DBExecutor) school.Repository {
	return &schoolRepository{exec: exec}
}

func (repo *schoolRepository) GetSchoolProfile(ctx context.Context) (school.Profile, error) {
	var row schoolRow
	if err := repo.exec.GetContext(ctx, &row, "SELECT * FROM school_profile WHERE id = ?", school.ProfileID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return school.Profile{}, school.ErrNotFound
		}
		return school.Profile{}, errors.Wrap(err, "getting school profile")
	}
	return school.Profile{
		ID:      row.ID,
		Name:    row.Name,
		Address: row.Address,
		Logo:    row.Logo.Bytes,
		Banner:  row.Banner.Bytes,
	}, nil
}

func (repo *schoolRepository) SaveSchoolProfile(ctx context.Context, p school.Profile) (school.Profile, error) {
	p.ID = school.ProfileID
	row := schoolRow{
		ID:      p.ID,
		Name:    p.Name,
		Address: p.Address,
		Logo:    null.NewBytes(p.Logo, len(p.Logo) > 0),
		Banner:  null.NewBytes(p.Banner, len(p.Banner) > 0),
	}
	q := "INSERT OR REPLACE INTO school_profile (id, name, address, logo, banner) VALUES (:id, :name, :address, :logo, :banner)"
	if _, err := repo.exec.NamedExecContext(ctx, q, row); err != nil {
		return school.Profile{}, errors.Wrap(err, "saving school profile")
	}
	return p, nil
}
