package main

import (
	"context"

	"github.com/trezcool/darasa/core/profile"
)

// addTeacher provisions a teacher login and waits for its profile.
func (cli *commandLine) addTeacher(name, email, pwd, pwdConfirm string) error {
	nt := profile.NewTeacher{
		Name:            name,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwdConfirm,
	}
	if err := nt.Validate(); err != nil {
		return err
	}

	ident := profile.Identity{
		LoginKey: nt.Email,
		Name:     nt.Name,
		Role:     profile.RoleTeacher,
	}
	if err := ident.SetPassword(nt.Password); err != nil {
		return err
	}
	if _, err := cli.profileSvc.Provision(context.Background(), ident); err != nil {
		return err
	}
	return nil
}
