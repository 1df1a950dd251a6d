package inmemdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/profile"
)

// identityProvider is the in-memory login-identity backend. Unless manual
// materialization is requested, a profile row appears as soon as an identity
// is created, mimicking the backend-side provisioning trigger.
type identityProvider struct {
	db     *DB
	manual bool
}

var _ profile.IdentityProvider = (*identityProvider)(nil)

func NewIdentityProvider(db *DB) *identityProvider {
	return &identityProvider{db: db}
}

// NewManualIdentityProvider returns a provider whose profiles only
// materialize when Materialize is called, so tests can exercise the
// provisioning wait.
func NewManualIdentityProvider(db *DB) *identityProvider {
	return &identityProvider{db: db, manual: true}
}

func (p *identityProvider) CreateIdentity(_ context.Context, ident profile.Identity) (profile.Identity, error) {
	p.db.mu.Lock()
	defer p.db.mu.Unlock()

	if _, ok := p.db.identities[ident.LoginKey]; ok {
		return profile.Identity{}, profile.ErrIdentityExists
	}
	ident.ID = uuid.New().String()
	p.db.identities[ident.LoginKey] = &ident

	if !p.manual {
		p.materialize(&ident)
	}
	return ident, nil
}

func (p *identityProvider) GetIdentityByLoginKey(_ context.Context, key string) (profile.Identity, error) {
	p.db.mu.RLock()
	defer p.db.mu.RUnlock()

	if ident, ok := p.db.identities[key]; ok {
		return *ident, nil
	}
	return profile.Identity{}, profile.ErrIdentityNotFound
}

// Materialize creates the profile row for a previously created identity.
func (p *identityProvider) Materialize(identityID string) error {
	p.db.mu.Lock()
	defer p.db.mu.Unlock()

	for _, ident := range p.db.identities {
		if ident.ID == identityID {
			p.materialize(ident)
			return nil
		}
	}
	return errors.Errorf("identity %s not found", identityID)
}

func (p *identityProvider) materialize(ident *profile.Identity) {
	now := time.Now().UTC()
	prof := &profile.Profile{
		ID:         uuid.New().String(),
		IdentityID: ident.ID,
		LoginKey:   ident.LoginKey,
		Name:       ident.Name,
		Role:       ident.Role,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	p.db.profiles[prof.ID] = prof
}
