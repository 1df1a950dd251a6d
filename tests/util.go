package testutil

import (
	"context"
	"net/mail"
	"testing"
	"time"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/profile"
)

// NewConfig returns the configuration used by tests. Values mirror the
// defaults but with a tight provisioning budget so waits stay fast.
func NewConfig() *core.Config {
	return &core.Config{
		Env:                "TEST",
		TestMode:           true,
		AppName:            "Darasa",
		SecretKey:          "secret",
		JWTExpirationDelta: time.Hour,
		DefaultFromEmail:   mail.Address{Address: "noreply@test.cd"},
		Attendance: core.AttendanceConfig{
			DefaultCourseID:          "00000000-0000-0000-0000-000000000001",
			DefaultCourseName:        "Default Course",
			DefaultCourseCode:        "DEFAULT101",
			DefaultCourseDescription: "Default course for attendance tracking",
			StudentLoginDomain:       "edu.com",
			ProvisionWaitBudget:      200 * time.Millisecond,
			ProvisionPollInterval:    5 * time.Millisecond,
			DefaultRecentLimit:       5,
		},
	}
}

// Logger discards all messages.
type Logger struct{}

var _ core.Logger = (*Logger)(nil)

func (Logger) Debug(string, ...interface{}) {}
func (Logger) Info(string, ...interface{})  {}
func (Logger) Warn(string, ...interface{})  {}
func (Logger) Error(string, ...interface{}) {}
func (Logger) Fatal(string, ...interface{}) {}

// CreateIdentity creates a login identity (and, depending on the provider,
// its profile) and returns it.
func CreateIdentity(t *testing.T, idp profile.IdentityProvider, key, name, role, pwd string) profile.Identity {
	t.Helper()
	ident := profile.Identity{
		LoginKey: key,
		Name:     name,
		Role:     role,
	}
	if pwd != "" {
		if err := ident.SetPassword(pwd); err != nil {
			t.Fatalf("CreateIdentity() failed: %v", err)
		}
	}
	ident, err := idp.CreateIdentity(context.Background(), ident)
	if err != nil {
		t.Fatalf("CreateIdentity() failed: %v", err)
	}
	return ident
}

// CreateStudent provisions a student identity with its profile and returns
// the profile.
func CreateStudent(t *testing.T, idp profile.IdentityProvider, repo profile.Repository, name, loginKey string) profile.Profile {
	t.Helper()
	ident := CreateIdentity(t, idp, loginKey, name, profile.RoleStudent, "")
	prof, err := repo.GetProfileByIdentityID(context.Background(), ident.ID)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return prof
}
