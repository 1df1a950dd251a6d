package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/profile"
)

type dbProfile struct {
	ID         string    `db:"id"`
	IdentityID string    `db:"identity_id"`
	LoginKey   string    `db:"login_key"`
	Name       string    `db:"name"`
	Role       string    `db:"role"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type profileRepository struct {
	db *sqlx.DB
}

var _ profile.Repository = (*profileRepository)(nil) // interface compliance check

func NewProfileRepository(db *sqlx.DB) *profileRepository {
	return &profileRepository{db: db}
}

func (repo profileRepository) unrow(row dbProfile) profile.Profile {
	return profile.Profile{
		ID:         row.ID,
		IdentityID: row.IdentityID,
		LoginKey:   row.LoginKey,
		Name:       row.Name,
		Role:       row.Role,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

// trapNoRowsErr maps psql "no rows" err to profile.ErrNotFound
func (repo profileRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return profile.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

const profileColumns = "id, identity_id, login_key, name, role, created_at, updated_at"

func (repo profileRepository) GetProfileByID(ctx context.Context, id string) (profile.Profile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return profile.Profile{}, profile.ErrNotFound
	}
	var row dbProfile
	err := repo.db.GetContext(ctx, &row, "SELECT "+profileColumns+" FROM profile WHERE id = $1", id)
	if err != nil {
		return profile.Profile{}, repo.trapNoRowsErr(err, "finding profile by ID")
	}
	return repo.unrow(row), nil
}

func (repo profileRepository) GetProfileByLoginKey(ctx context.Context, key string) (profile.Profile, error) {
	var row dbProfile
	err := repo.db.GetContext(ctx, &row, "SELECT "+profileColumns+" FROM profile WHERE login_key = $1", key)
	if err != nil {
		return profile.Profile{}, repo.trapNoRowsErr(err, "finding profile by login key")
	}
	return repo.unrow(row), nil
}

func (repo profileRepository) GetProfileByIdentityID(ctx context.Context, identityID string) (profile.Profile, error) {
	var row dbProfile
	err := repo.db.GetContext(ctx, &row, "SELECT "+profileColumns+" FROM profile WHERE identity_id = $1", identityID)
	if err != nil {
		return profile.Profile{}, repo.trapNoRowsErr(err, "finding profile by identity ID")
	}
	return repo.unrow(row), nil
}

func (repo profileRepository) CreateProfile(ctx context.Context, prof profile.Profile) (profile.Profile, error) {
	prof.ID = uuid.New().String()
	now := time.Now().UTC()
	prof.CreatedAt = now
	prof.UpdatedAt = now

	_, err := repo.db.ExecContext(ctx,
		"INSERT INTO profile (id, identity_id, login_key, name, role, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		prof.ID, prof.IdentityID, prof.LoginKey, prof.Name, prof.Role, prof.CreatedAt, prof.UpdatedAt,
	)
	if err != nil {
		return profile.Profile{}, errors.Wrap(err, "inserting profile")
	}
	return prof, nil
}
