package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrNotFound         = errors.New("profile not found")
	ErrIdentityNotFound = errors.New("identity not found")
	ErrIdentityExists   = errors.New("an identity with this login key already exists")

	// resolution failure kinds
	ErrLookupFailed        = errors.New("profile lookup failed")
	ErrProvisioningFailed  = errors.New("identity provisioning rejected")
	ErrProvisioningTimeout = errors.New("profile was not provisioned in time")
)

type (
	Repository interface {
		GetProfileByID(ctx context.Context, id string) (Profile, error)
		GetProfileByLoginKey(ctx context.Context, key string) (Profile, error)
		GetProfileByIdentityID(ctx context.Context, identityID string) (Profile, error)
		CreateProfile(ctx context.Context, prof Profile) (Profile, error)
	}

	// IdentityProvider is the login-identity backend. Creating an identity
	// side-effects a Profile row some bounded but non-deterministic time
	// later; the store's unique constraint on the login key is the sole
	// arbiter of concurrent creations.
	IdentityProvider interface {
		CreateIdentity(ctx context.Context, ident Identity) (Identity, error)
		GetIdentityByLoginKey(ctx context.Context, key string) (Identity, error)
	}

	Service struct {
		conf   *core.Config
		repo   Repository
		idp    IdentityProvider
		logger core.Logger

		now   func() time.Time
		sleep func(ctx context.Context, d time.Duration) error
	}
)

func NewService(conf *core.Config, repo Repository, idp IdentityProvider, logger core.Logger) *Service {
	return &Service{
		conf:   conf,
		repo:   repo,
		idp:    idp,
		logger: logger,
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

// NewServiceMock returns a Service with an injected clock and sleeper so
// tests control the provisioning wait deterministically.
func NewServiceMock(
	conf *core.Config,
	repo Repository,
	idp IdentityProvider,
	logger core.Logger,
	now func() time.Time,
	sleep func(ctx context.Context, d time.Duration) error,
) *Service {
	svc := NewService(conf, repo, idp, logger)
	if now != nil {
		svc.now = now
	}
	if sleep != nil {
		svc.sleep = sleep
	}
	return svc
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// LoginKey derives the unique login key for a student's external ID.
func (svc *Service) LoginKey(externalID string) string {
	return core.CleanString(externalID, true /* lower */) + "@" + svc.conf.Attendance.StudentLoginDomain
}

func (svc *Service) GetByID(ctx context.Context, id string) (Profile, error) {
	return svc.repo.GetProfileByID(ctx, id)
}

func (svc *Service) GetByIdentityID(ctx context.Context, identityID string) (Profile, error) {
	return svc.repo.GetProfileByIdentityID(ctx, identityID)
}

// ResolveStudent maps a (displayName, externalID) pair to a durable profile
// ID, provisioning a new identity if none exists yet. The returned error is
// always one of ErrLookupFailed, ErrProvisioningFailed or
// ErrProvisioningTimeout (with the cause attached); it never resolves to an
// empty profile ID on success.
func (svc *Service) ResolveStudent(ctx context.Context, displayName, externalID string) (string, error) {
	key := svc.LoginKey(externalID)

	// fast path: returning student
	prof, err := svc.repo.GetProfileByLoginKey(ctx, key)
	if err == nil {
		return prof.ID, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", core.NewKindError(ErrLookupFailed, err)
	}

	ident := Identity{
		LoginKey: key,
		Name:     core.CleanString(displayName),
		Role:     RoleStudent,
	}
	if err := ident.SetPassword(uuid.New().String()); err != nil {
		return "", core.NewKindError(ErrProvisioningFailed, err)
	}

	ident, err = svc.idp.CreateIdentity(ctx, ident)
	if err != nil {
		if errors.Is(err, ErrIdentityExists) {
			// lost a creation race; the winner's profile may still be
			// materializing, so poll the login key instead of erroring.
			prof, err = svc.awaitProfile(ctx, func(ctx context.Context) (Profile, error) {
				return svc.repo.GetProfileByLoginKey(ctx, key)
			})
			if err != nil {
				return "", err
			}
			return prof.ID, nil
		}
		return "", core.NewKindError(ErrProvisioningFailed, err)
	}

	prof, err = svc.awaitProfile(ctx, func(ctx context.Context) (Profile, error) {
		return svc.repo.GetProfileByIdentityID(ctx, ident.ID)
	})
	if err != nil {
		return "", err
	}
	return prof.ID, nil
}

// ResolveRecorder maps the authenticated session, if any, to the profile ID
// used for attribution. Attribution is best-effort: a missing session or an
// inconsistent profile lookup degrades to an empty ID and never fails the
// surrounding operation.
func (svc *Service) ResolveRecorder(ctx context.Context) string {
	identityID, ok := IdentityFromContext(ctx)
	if !ok {
		return ""
	}
	prof, err := svc.repo.GetProfileByIdentityID(ctx, identityID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			svc.logger.Warn(fmt.Sprintf("resolving recorder profile: %v", err), err)
		}
		return ""
	}
	return prof.ID
}

// Provision creates a login identity and waits for its profile row to
// materialize. Shared by student check-in resolution and staff account
// creation.
func (svc *Service) Provision(ctx context.Context, ident Identity) (Profile, error) {
	ident, err := svc.idp.CreateIdentity(ctx, ident)
	if err != nil {
		if errors.Is(err, ErrIdentityExists) {
			return Profile{}, err
		}
		return Profile{}, core.NewKindError(ErrProvisioningFailed, err)
	}
	return svc.awaitProfile(ctx, func(ctx context.Context) (Profile, error) {
		return svc.repo.GetProfileByIdentityID(ctx, ident.ID)
	})
}

// Authenticate checks a login key and password against the identity backend.
func (svc *Service) Authenticate(ctx context.Context, loginKey, pwd string) (Identity, error) {
	ident, err := svc.idp.GetIdentityByLoginKey(ctx, core.CleanString(loginKey, true /* lower */))
	if err != nil {
		return Identity{}, err
	}
	if err := ident.CheckPassword(pwd); err != nil {
		return Identity{}, ErrIdentityNotFound
	}
	return ident, nil
}

// awaitProfile polls for a profile row within the configured wait budget,
// backing off a little longer between attempts. A context cancellation during
// the wait counts as a provisioning timeout so callers can re-check before
// re-creating.
func (svc *Service) awaitProfile(ctx context.Context, get func(context.Context) (Profile, error)) (Profile, error) {
	deadline := svc.now().Add(svc.conf.Attendance.ProvisionWaitBudget)
	for attempt := 1; ; attempt++ {
		prof, err := get(ctx)
		if err == nil {
			return prof, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Profile{}, core.NewKindError(ErrLookupFailed, err)
		}
		if !svc.now().Before(deadline) {
			return Profile{}, ErrProvisioningTimeout
		}
		if err := svc.sleep(ctx, time.Duration(attempt)*svc.conf.Attendance.ProvisionPollInterval); err != nil {
			return Profile{}, core.NewKindError(ErrProvisioningTimeout, err)
		}
	}
}
