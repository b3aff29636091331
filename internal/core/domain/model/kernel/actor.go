package kernel

import (
	"errors"
	"fmt"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// Role is the authorization level of an actor.
type Role int

const (
	RoleUnknown Role = iota
	RoleAdmin
	RoleTeamLeader
	RoleMember
)

// SystemActorID identifies work started by the service itself (scheduled jobs).
const SystemActorID = "system"

var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor constructor")

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:    "Unknown",
		RoleAdmin:      "Admin",
		RoleTeamLeader: "TeamLeader",
		RoleMember:     "Member",
	}
}

// ParseRole maps the role claim carried by access tokens to a Role.
func ParseRole(value string) (Role, error) {
	for role, name := range getRoleStrings() {
		if role != RoleUnknown && name == value {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", value))
}

func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "Unknown"
}

// Validate rejects RoleUnknown and out of range values.
func (r Role) Validate() error {
	if r <= RoleUnknown || r > RoleMember {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// Actor is the authenticated caller of a use case.
type Actor struct {
	id    string
	role  Role
	guard guard.ConstructorGuard
}

func NewActor(id string, role Role) (Actor, error) {
	if id == "" {
		return Actor{}, errs.NewValueIsRequiredError("actorID")
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, role: role, guard: guard.NewConstructorGuard()}, nil
}

// NewSystemActor returns the Admin actor used by scheduled jobs.
func NewSystemActor() Actor {
	return Actor{id: SystemActorID, role: RoleAdmin, guard: guard.NewConstructorGuard()}
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

func (a Actor) ID() string {
	return a.id
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) IsAdmin() bool {
	return a.role == RoleAdmin
}

func (a Actor) IsTeamLeader() bool {
	return a.role == RoleTeamLeader
}
