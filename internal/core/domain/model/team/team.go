package team

import (
	"errors"
	"fmt"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	ErrTeamIsNotConstructed   = errors.New("Team must be created via NewTeam constructor")
	ErrMemberIsNotConstructed = errors.New("Member must be created via NewMember constructor")
)

// Member is a user that belongs to a team and can work on its orders.
type Member struct {
	userID string
	name   string
	guard  guard.ConstructorGuard
}

func NewMember(userID, name string) (Member, error) {
	if userID == "" {
		return Member{}, errs.NewValueIsRequiredError("member userID")
	}
	return Member{userID: userID, name: name, guard: guard.NewConstructorGuard()}, nil
}

func (m Member) Validate() error {
	return m.guard.Validate(ErrMemberIsNotConstructed)
}

func (m Member) UserID() string {
	return m.userID
}

func (m Member) Name() string {
	return m.name
}

// Team groups members under one leader.
//
// Team name is required for allocation: it is denormalized onto every order the team
// receives. A directory entry without a name is reported as a missing target.
type Team struct {
	id       string
	name     string
	leaderID string
	members  map[string]Member
	order    []string
	guard    guard.ConstructorGuard
}

// NewTeam builds a directory entry. Duplicate member ids are rejected.
func NewTeam(id, name, leaderID string, members []Member) (*Team, error) {
	if id == "" {
		return nil, errs.NewValueIsRequiredError("teamID")
	}

	t := &Team{
		id:       id,
		name:     name,
		leaderID: leaderID,
		members:  make(map[string]Member, len(members)),
		order:    make([]string, 0, len(members)),
		guard:    guard.NewConstructorGuard(),
	}

	for _, m := range members {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if _, ok := t.members[m.userID]; ok {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"members", fmt.Errorf("member %s is listed twice in team %s", m.userID, id))
		}
		t.members[m.userID] = m
		t.order = append(t.order, m.userID)
	}

	return t, nil
}

func (t *Team) Validate() error {
	if t == nil {
		return ErrTeamIsNotConstructed
	}
	return t.guard.Validate(ErrTeamIsNotConstructed)
}

func (t *Team) ID() string {
	return t.id
}

func (t *Team) Name() string {
	return t.name
}

func (t *Team) LeaderID() string {
	return t.leaderID
}

// HasName reports whether the team can be stamped onto orders.
func (t *Team) HasName() bool {
	return t.name != ""
}

// IsLedBy reports whether userID is the team's leader.
func (t *Team) IsLedBy(userID string) bool {
	return userID != "" && t.leaderID == userID
}

// Member looks up a member by user id.
func (t *Team) Member(userID string) (Member, bool) {
	m, ok := t.members[userID]
	return m, ok
}

// Members returns the members in directory order.
func (t *Team) Members() []Member {
	out := make([]Member, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.members[id])
	}
	return out
}
