package course_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/profile"
	inmemdb "github.com/trezcool/darasa/storage/database/inmem"
	testutil "github.com/trezcool/darasa/tests"
)

func setup(t *testing.T) (*course.Service, *profile.Service, *inmemdb.DB) {
	t.Helper()
	conf := testutil.NewConfig()
	db := inmemdb.Open()
	profileSvc := profile.NewService(
		conf,
		inmemdb.NewProfileRepository(db),
		inmemdb.NewIdentityProvider(db),
		testutil.Logger{},
	)
	svc := course.NewService(conf, inmemdb.NewCourseRepository(db), profileSvc)
	return svc, profileSvc, db
}

func teacherContext(t *testing.T, db *inmemdb.DB) context.Context {
	t.Helper()
	idp := inmemdb.NewIdentityProvider(db)
	ident := testutil.CreateIdentity(t, idp, "teacher@test.cd", "Teacher", profile.RoleTeacher, "")
	return profile.NewContext(context.Background(), ident.ID)
}

func TestService_EnsureDefault(t *testing.T) {
	svc, profileSvc, db := setup(t)
	ctx := teacherContext(t, db)

	crs, err := svc.EnsureDefault(ctx)
	if err != nil {
		t.Fatalf("EnsureDefault() error = %v", err)
	}
	if crs.ID != "00000000-0000-0000-0000-000000000001" {
		t.Errorf("EnsureDefault() ID = %v, want the well-known course ID", crs.ID)
	}
	if crs.Name != "Default Course" || crs.Code != "DEFAULT101" {
		t.Errorf("EnsureDefault() = %v %v, want Default Course DEFAULT101", crs.Name, crs.Code)
	}

	identityID, _ := profile.IdentityFromContext(ctx)
	owner, err := profileSvc.GetByIdentityID(ctx, identityID)
	if err != nil {
		t.Fatalf("GetByIdentityID() error = %v", err)
	}
	if crs.OwnerID != owner.ID {
		t.Errorf("EnsureDefault() OwnerID = %v, want %v", crs.OwnerID, owner.ID)
	}

	// idempotent; the existing row is returned untouched
	again, err := svc.EnsureDefault(ctx)
	if err != nil {
		t.Fatalf("EnsureDefault() error = %v", err)
	}
	if again != crs {
		t.Errorf("EnsureDefault() = %+v, want %+v", again, crs)
	}

	// once bootstrapped, no actor is needed to read it back
	anon, err := svc.EnsureDefault(context.Background())
	if err != nil {
		t.Fatalf("EnsureDefault() error = %v", err)
	}
	if anon.ID != crs.ID {
		t.Errorf("EnsureDefault() = %v, want %v", anon.ID, crs.ID)
	}
}

func TestService_EnsureDefault_noActor(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.EnsureDefault(context.Background())
	if !errors.Is(err, course.ErrNoActor) {
		t.Errorf("EnsureDefault() error = %v, want %v", err, course.ErrNoActor)
	}

	// nothing was created on the failed bootstrap
	_, err = svc.GetByID(context.Background(), "00000000-0000-0000-0000-000000000001")
	if !errors.Is(err, course.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want %v", err, course.ErrNotFound)
	}
}

func TestService_EnsureDefault_concurrent(t *testing.T) {
	svc, _, db := setup(t)
	ctx := teacherContext(t, db)

	n := 10
	courses := make([]course.Course, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			courses[i], errs[i] = svc.EnsureDefault(ctx)
		}(i)
	}
	wg.Wait()

	// losing the insert race still counts as success
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("EnsureDefault() error = %v", errs[i])
		}
		if courses[i].ID != courses[0].ID {
			t.Errorf("EnsureDefault() = %v, want %v", courses[i].ID, courses[0].ID)
		}
	}
}
