package domain

type Role string

const (
	RoleAdmin        Role = "admin"
	RoleProfessional Role = "professional"
	RoleUser         Role = "user"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleProfessional, RoleUser:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// RegistrableRoles are the roles a user may self-assign at registration.
// Admin accounts are provisioned out of band.
var RegistrableRoles = []Role{RoleProfessional, RoleUser}

func (r Role) IsRegistrable() bool {
	for _, role := range RegistrableRoles {
		if r == role {
			return true
		}
	}
	return false
}
