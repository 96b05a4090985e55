package entity

import "strings"

type Role string

const (
	RoleSetter Role = "SETTER"
	RoleCloser Role = "CLOSER"
	RoleAdmin  Role = "ADMIN"
)

type Actor struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

func (a *Actor) DisplayName() string {
	name := strings.TrimSpace(a.FirstName + " " + a.LastName)
	if name == "" {
		return a.Email
	}
	return name
}
