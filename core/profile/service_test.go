package profile_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/trezcool/darasa/core/profile"
	inmemdb "github.com/trezcool/darasa/storage/database/inmem"
	testutil "github.com/trezcool/darasa/tests"
)

func setup(t *testing.T) (*profile.Service, *inmemdb.DB) {
	t.Helper()
	db := inmemdb.Open()
	svc := profile.NewService(
		testutil.NewConfig(),
		inmemdb.NewProfileRepository(db),
		inmemdb.NewIdentityProvider(db),
		testutil.Logger{},
	)
	return svc, db
}

func TestService_LoginKey(t *testing.T) {
	svc, _ := setup(t)

	tests := []struct {
		name string
		id   string
		want string
	}{
		{name: "plain", id: "1234", want: "1234@edu.com"},
		{name: "lowercased", id: "AB12", want: "ab12@edu.com"},
		{name: "trimmed", id: "  5678  ", want: "5678@edu.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.LoginKey(tt.id); got != tt.want {
				t.Errorf("LoginKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestService_ResolveStudent(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	// first check-in provisions a new profile
	id1, err := svc.ResolveStudent(ctx, "Emma Brown", "1234")
	if err != nil {
		t.Fatalf("ResolveStudent() error = %v", err)
	}
	if id1 == "" {
		t.Fatal("ResolveStudent() returned an empty profile ID")
	}

	// returning student resolves to the same profile
	id2, err := svc.ResolveStudent(ctx, "Emma Brown", "1234")
	if err != nil {
		t.Fatalf("ResolveStudent() error = %v", err)
	}
	if id2 != id1 {
		t.Errorf("ResolveStudent() = %v, want %v", id2, id1)
	}

	// a different external ID gets its own profile
	id3, err := svc.ResolveStudent(ctx, "John Smith", "5678")
	if err != nil {
		t.Fatalf("ResolveStudent() error = %v", err)
	}
	if id3 == id1 {
		t.Error("ResolveStudent() reused a profile across external IDs")
	}

	// resolution keys on the external ID, not the display name
	id4, err := svc.ResolveStudent(ctx, "Emma B.", "1234")
	if err != nil {
		t.Fatalf("ResolveStudent() error = %v", err)
	}
	if id4 != id1 {
		t.Errorf("ResolveStudent() = %v, want %v", id4, id1)
	}
}

func TestService_ResolveStudent_concurrent(t *testing.T) {
	svc, _ := setup(t)

	n := 10
	ids := make([]string, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = svc.ResolveStudent(context.Background(), "Emma Brown", "1234")
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("ResolveStudent() error = %v", errs[i])
		}
		if ids[i] != ids[0] {
			t.Errorf("ResolveStudent() = %v, want %v", ids[i], ids[0])
		}
	}
}

func TestService_ResolveStudent_materializationWait(t *testing.T) {
	db := inmemdb.Open()
	conf := testutil.NewConfig()
	idp := inmemdb.NewManualIdentityProvider(db)

	// profile only appears after the first poll interval elapses
	materialized := false
	svc := profile.NewServiceMock(
		conf,
		inmemdb.NewProfileRepository(db),
		idp,
		testutil.Logger{},
		nil,
		func(ctx context.Context, d time.Duration) error {
			if !materialized {
				idents := db.Identities()
				if len(idents) != 1 {
					t.Fatalf("expected 1 identity, got %d", len(idents))
				}
				if err := idp.Materialize(idents[0].ID); err != nil {
					t.Fatalf("Materialize() error = %v", err)
				}
				materialized = true
			}
			return nil
		},
	)

	id, err := svc.ResolveStudent(context.Background(), "Emma Brown", "1234")
	if err != nil {
		t.Fatalf("ResolveStudent() error = %v", err)
	}
	if id == "" {
		t.Fatal("ResolveStudent() returned an empty profile ID")
	}
	if !materialized {
		t.Error("resolution succeeded without waiting for materialization")
	}
}

func TestService_ResolveStudent_provisioningTimeout(t *testing.T) {
	db := inmemdb.Open()
	conf := testutil.NewConfig()

	// fake clock; each sleep advances it past the wait budget eventually
	now := time.Now()
	svc := profile.NewServiceMock(
		conf,
		inmemdb.NewProfileRepository(db),
		inmemdb.NewManualIdentityProvider(db), // never materializes
		testutil.Logger{},
		func() time.Time { return now },
		func(ctx context.Context, d time.Duration) error {
			now = now.Add(d)
			return nil
		},
	)

	_, err := svc.ResolveStudent(context.Background(), "Emma Brown", "1234")
	if !errors.Is(err, profile.ErrProvisioningTimeout) {
		t.Errorf("ResolveStudent() error = %v, want %v", err, profile.ErrProvisioningTimeout)
	}
}

func TestService_ResolveStudent_lostCreationRace(t *testing.T) {
	db := inmemdb.Open()
	conf := testutil.NewConfig()
	idp := inmemdb.NewManualIdentityProvider(db)

	// the winner's identity exists but its profile is still materializing
	winner := testutil.CreateIdentity(t, idp, "1234@edu.com", "Emma Brown", profile.RoleStudent, "")

	svc := profile.NewServiceMock(
		conf,
		inmemdb.NewProfileRepository(db),
		idp,
		testutil.Logger{},
		nil,
		func(ctx context.Context, d time.Duration) error {
			_ = idp.Materialize(winner.ID)
			return nil
		},
	)

	id, err := svc.ResolveStudent(context.Background(), "Emma Brown", "1234")
	if err != nil {
		t.Fatalf("ResolveStudent() error = %v", err)
	}
	prof, err := svc.GetByIdentityID(context.Background(), winner.ID)
	if err != nil {
		t.Fatalf("GetByIdentityID() error = %v", err)
	}
	if id != prof.ID {
		t.Errorf("ResolveStudent() = %v, want the race winner's profile %v", id, prof.ID)
	}
}

func TestService_ResolveRecorder(t *testing.T) {
	svc, db := setup(t)
	idp := inmemdb.NewIdentityProvider(db)

	teacher := testutil.CreateIdentity(t, idp, "teacher@test.cd", "Teacher", profile.RoleTeacher, "")
	prof, err := svc.GetByIdentityID(context.Background(), teacher.ID)
	if err != nil {
		t.Fatalf("GetByIdentityID() error = %v", err)
	}

	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{name: "anonymous session", ctx: context.Background(), want: ""},
		{name: "authenticated session", ctx: profile.NewContext(context.Background(), teacher.ID), want: prof.ID},
		{name: "unknown identity degrades to empty", ctx: profile.NewContext(context.Background(), "ghost"), want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.ResolveRecorder(tt.ctx); got != tt.want {
				t.Errorf("ResolveRecorder() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	svc, db := setup(t)
	idp := inmemdb.NewIdentityProvider(db)
	testutil.CreateIdentity(t, idp, "teacher@test.cd", "Teacher", profile.RoleTeacher, "s3cr3t")

	tests := []struct {
		name    string
		key     string
		pwd     string
		wantErr error
	}{
		{name: "unknown login key", key: "lol@test.cd", pwd: "s3cr3t", wantErr: profile.ErrIdentityNotFound},
		{name: "wrong password", key: "teacher@test.cd", pwd: "lol", wantErr: profile.ErrIdentityNotFound},
		{name: "ok", key: "teacher@test.cd", pwd: "s3cr3t"},
		{name: "login key is case-insensitive", key: "Teacher@Test.CD", pwd: "s3cr3t"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ident, err := svc.Authenticate(context.Background(), tt.key, tt.pwd)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && ident.ID == "" {
				t.Error("Authenticate() returned an empty identity")
			}
		})
	}
}
