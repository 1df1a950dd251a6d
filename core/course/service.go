package course

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/profile"
)

var (
	// errors
	ErrNotFound = errors.New("course not found")

	ErrNoActor     = errors.New("no authenticated actor to own the course")
	ErrWriteFailed = errors.New("course creation failed")
)

type (
	Repository interface {
		GetCourse(ctx context.Context, id string) (Course, error)
		CreateCourse(ctx context.Context, crs Course) (Course, error)
	}

	// ProfileGetter resolves the owning profile for a newly created course.
	ProfileGetter interface {
		GetByIdentityID(ctx context.Context, identityID string) (profile.Profile, error)
	}

	Service struct {
		conf     *core.Config
		repo     Repository
		profiles ProfileGetter
	}
)

func NewService(conf *core.Config, repo Repository, profiles ProfileGetter) *Service {
	return &Service{conf: conf, repo: repo, profiles: profiles}
}

func (svc *Service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourse(ctx, id)
}

// EnsureDefault guarantees the well-known default course exists and returns
// it. The first caller creates it, attributed to the authenticated actor's
// profile; every later call is a cheap read. Losing a concurrent creation
// race counts as success: the row is re-read instead of surfacing the insert
// failure.
func (svc *Service) EnsureDefault(ctx context.Context) (Course, error) {
	att := svc.conf.Attendance

	crs, err := svc.repo.GetCourse(ctx, att.DefaultCourseID)
	if err == nil {
		return crs, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Course{}, core.NewKindError(ErrWriteFailed, err)
	}

	identityID, ok := profile.IdentityFromContext(ctx)
	if !ok {
		return Course{}, ErrNoActor
	}
	owner, err := svc.profiles.GetByIdentityID(ctx, identityID)
	if err != nil {
		return Course{}, core.NewKindError(ErrNoActor, err)
	}

	crs = Course{
		ID:          att.DefaultCourseID,
		Name:        att.DefaultCourseName,
		Code:        att.DefaultCourseCode,
		Description: att.DefaultCourseDescription,
		OwnerID:     owner.ID,
		CreatedAt:   time.Now().UTC(),
	}
	created, err := svc.repo.CreateCourse(ctx, crs)
	if err != nil {
		// another caller may have inserted it first
		if existing, rerr := svc.repo.GetCourse(ctx, att.DefaultCourseID); rerr == nil {
			return existing, nil
		}
		return Course{}, core.NewKindError(ErrWriteFailed, err)
	}
	return created, nil
}
