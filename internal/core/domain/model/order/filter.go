package order

import (
	"slices"
	"time"
)

// Presence constrains whether an optional sub-record must exist.
type Presence int

const (
	PresenceAny Presence = iota
	PresenceAbsent
	PresencePresent
)

// Filter is a store-neutral selection predicate over orders. Store adapters translate it
// to their query language; Matches evaluates the same predicate in memory.
// Zero-valued fields do not constrain the selection.
type Filter struct {
	// Statuses restricts to the listed states.
	Statuses []Status

	// ExcludedStatuses rejects the listed states.
	ExcludedStatuses []Status

	// OrderType restricts to one order type when positive.
	OrderType int

	// Team constrains the team sub-record; TeamID implies PresencePresent.
	Team   Presence
	TeamID string

	// Member constrains the member sub-record.
	Member Presence

	// CreatedFrom is an inclusive lower bound on createdAt.
	CreatedFrom time.Time

	// CreatedTo is an inclusive upper bound on createdAt.
	CreatedTo *time.Time

	// LinkPresent requires a verification link.
	LinkPresent bool
}

// Matches reports whether o satisfies every constraint of the filter.
func (f Filter) Matches(o *Order) bool {
	if o == nil {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, o.status) {
		return false
	}
	if slices.Contains(f.ExcludedStatuses, o.status) {
		return false
	}
	if f.OrderType > 0 && o.orderType != f.OrderType {
		return false
	}
	if !presenceMatches(f.TeamPresence(), o.team != nil) {
		return false
	}
	if f.TeamID != "" && o.team.ID() != f.TeamID {
		return false
	}
	if !presenceMatches(f.Member, o.member != nil) {
		return false
	}
	if !f.CreatedFrom.IsZero() && o.createdAt.Before(f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && o.createdAt.After(*f.CreatedTo) {
		return false
	}
	if f.LinkPresent && o.details.Link == "" {
		return false
	}
	return true
}

// TeamPresence resolves the effective team constraint.
func (f Filter) TeamPresence() Presence {
	if f.TeamID != "" {
		return PresencePresent
	}
	return f.Team
}

func presenceMatches(p Presence, present bool) bool {
	switch p {
	case PresenceAbsent:
		return !present
	case PresencePresent:
		return present
	default:
		return true
	}
}
