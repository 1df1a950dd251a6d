package profile

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/darasa/core"
)

// Roles
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// Profile is the durable identity record for a student or staff member. It is
// materialized by the identity backend after the corresponding login identity
// is created; this package never creates profile rows for students directly.
type Profile struct {
	ID         string    `json:"id"`
	IdentityID string    `json:"-"`
	LoginKey   string    `json:"login_key"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

func (p *Profile) IsTeacher() bool { return p.Role == RoleTeacher }
func (p *Profile) IsStudent() bool { return p.Role == RoleStudent }

// Identity is a login identity held by the identity backend. A Profile row is
// derived from it asynchronously.
type Identity struct {
	ID           string `json:"id"`
	LoginKey     string `json:"login_key"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	PasswordHash []byte `json:"-"`
}

func (i *Identity) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	i.PasswordHash = hash
	return nil
}

func (i *Identity) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(i.PasswordHash, []byte(pwd))
}

// ExternalID derives the original external ID back from a login key.
func ExternalID(loginKey string) string {
	return strings.SplitN(loginKey, "@", 2)[0]
}

// NewTeacher contains information needed to provision a teacher account.
type NewTeacher struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nt *NewTeacher) Validate() error {
	nt.Name = core.CleanString(nt.Name)
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	return core.Validate.Struct(nt)
}
