package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/profile"
)

type dbIdentity struct {
	ID           string `db:"id"`
	LoginKey     string `db:"login_key"`
	Name         string `db:"name"`
	Role         string `db:"role"`
	PasswordHash []byte `db:"password_hash"`
}

// identityRepository is the login-identity backend. A database trigger
// materializes the profile row from a new identity; resolvers poll for it.
type identityRepository struct {
	db *sqlx.DB
}

var _ profile.IdentityProvider = (*identityRepository)(nil) // interface compliance check

func NewIdentityRepository(db *sqlx.DB) *identityRepository {
	return &identityRepository{db: db}
}

func (repo identityRepository) CreateIdentity(ctx context.Context, ident profile.Identity) (profile.Identity, error) {
	ident.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		"INSERT INTO identity (id, login_key, name, role, password_hash) VALUES ($1, $2, $3, $4, $5)",
		ident.ID, ident.LoginKey, ident.Name, ident.Role, ident.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return profile.Identity{}, profile.ErrIdentityExists
		}
		return profile.Identity{}, errors.Wrap(err, "inserting identity")
	}
	return ident, nil
}

func (repo identityRepository) GetIdentityByLoginKey(ctx context.Context, key string) (profile.Identity, error) {
	var row dbIdentity
	err := repo.db.GetContext(ctx, &row,
		"SELECT id, login_key, name, role, password_hash FROM identity WHERE login_key = $1", key)
	if err != nil {
		if err == sql.ErrNoRows {
			return profile.Identity{}, profile.ErrIdentityNotFound
		}
		return profile.Identity{}, errors.Wrap(err, "finding identity by login key")
	}
	return profile.Identity{
		ID:           row.ID,
		LoginKey:     row.LoginKey,
		Name:         row.Name,
		Role:         row.Role,
		PasswordHash: row.PasswordHash,
	}, nil
}
