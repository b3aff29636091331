// Package memstore is an in-memory implementation of the order, result and team ports
// used by use-case and HTTP tests. Writes apply immediately; Commit and Rollback only
// track the transaction state.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/result"
	"orderflow/internal/core/domain/model/team"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// Store holds orders, results and teams. The zero value is not usable; call New.
type Store struct {
	mu      sync.RWMutex
	orders  map[string]*order.Order
	results map[string]*result.Result
	teams   map[string]*team.Team

	// FailWith, when set, is returned by every repository call.
	FailWith error
}

func New() *Store {
	return &Store{
		orders:  make(map[string]*order.Order),
		results: make(map[string]*result.Result),
		teams:   make(map[string]*team.Team),
	}
}

// PutOrder stores a copy of o, replacing any order with the same id.
func (s *Store) PutOrder(o *order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID()] = cloneOrder(o)
}

// Order returns a copy of the stored order, or nil.
func (s *Store) Order(orderID string) *order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil
	}
	return cloneOrder(o)
}

// Result returns a copy of the stored result, or nil.
func (s *Store) Result(orderID string) *result.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[orderID]
	if !ok {
		return nil
	}
	return cloneResult(r)
}

func (s *Store) PutResult(r *result.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[r.OrderID()] = cloneResult(r)
}

func (s *Store) PutTeam(t *team.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[t.ID()] = t
}

// Create starts a unit of work over the store.
func (s *Store) Create() *UnitOfWork {
	return &UnitOfWork{store: s}
}

// UoWFactory adapts the store to commands.UoWFactory.
func (s *Store) UoWFactory() commands.UoWFactory {
	return uowFactory(func() commands.UoW { return s.Create() })
}

// AllocationUoWFactory adapts the store to commands.AllocationUoWFactory.
func (s *Store) AllocationUoWFactory() commands.AllocationUoWFactory {
	return allocationUoWFactory(func() commands.AllocationUoW { return s.Create() })
}

// OrderUoWFactory adapts the store to commands.OrderUoWFactory.
func (s *Store) OrderUoWFactory() commands.OrderUoWFactory {
	return orderUoWFactory(func() commands.OrderUoW { return s.Create() })
}

type uowFactory func() commands.UoW

func (f uowFactory) Create() commands.UoW { return f() }

type allocationUoWFactory func() commands.AllocationUoW

func (f allocationUoWFactory) Create() commands.AllocationUoW { return f() }

type orderUoWFactory func() commands.OrderUoW

func (f orderUoWFactory) Create() commands.OrderUoW { return f() }

// UnitOfWork implements ports.UnitOfWork over a Store.
type UnitOfWork struct {
	store  *Store
	active bool
}

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

func (u *UnitOfWork) Begin(_ context.Context) error {
	if u.store.FailWith != nil {
		return u.store.FailWith
	}
	u.active = true
	return nil
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	if !u.active {
		return fmt.Errorf("no active transaction")
	}
	u.active = false
	return nil
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if !u.active {
		return fmt.Errorf("no active transaction")
	}
	u.active = false
	return nil
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository   { return orderRepo{u.store} }
func (u *UnitOfWork) ResultRepository() ports.ResultRepository { return resultRepo{u.store} }
func (u *UnitOfWork) TeamDirectory() ports.TeamDirectory       { return teamDirectory{u.store} }

type orderRepo struct{ s *Store }

func (r orderRepo) AddMany(_ context.Context, orders []*order.Order) (ports.AddManyResult, error) {
	if r.s.FailWith != nil {
		return ports.AddManyResult{}, r.s.FailWith
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var res ports.AddManyResult
	for _, o := range orders {
		if _, ok := r.s.orders[o.ID()]; ok {
			res.Duplicates = append(res.Duplicates, o.ID())
			continue
		}
		r.s.orders[o.ID()] = cloneOrder(o)
		res.Inserted++
	}
	return res, nil
}

func (r orderRepo) Get(_ context.Context, orderID string) (*order.Order, error) {
	if r.s.FailWith != nil {
		return nil, r.s.FailWith
	}
	if o := r.s.Order(orderID); o != nil {
		return o, nil
	}
	return nil, errs.NewObjectNotFoundError("order", orderID)
}

func (r orderRepo) Find(_ context.Context, filter order.Filter, limit int) ([]*order.Order, error) {
	if r.s.FailWith != nil {
		return nil, r.s.FailWith
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	found := make([]*order.Order, 0)
	for _, o := range r.s.orders {
		if filter.Matches(o) {
			found = append(found, cloneOrder(o))
		}
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].CreatedAt().Equal(found[j].CreatedAt()) {
			return found[i].ID() < found[j].ID()
		}
		return found[i].CreatedAt().Before(found[j].CreatedAt())
	})
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

func (r orderRepo) UpdateMany(
	_ context.Context,
	ids []string,
	filter order.Filter,
	change order.BulkChange,
) ([]string, error) {
	if r.s.FailWith != nil {
		return nil, r.s.FailWith
	}
	if err := change.Validate(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	changed := make([]string, 0, len(ids))
	for _, id := range ids {
		stored, ok := r.s.orders[id]
		if !ok || !filter.Matches(stored) || slices.Contains(changed, id) {
			continue
		}
		next := cloneOrder(stored)
		if err := change.Apply(next); err != nil {
			continue
		}
		r.s.orders[id] = next
		changed = append(changed, id)
	}
	return changed, nil
}

func (r orderRepo) Update(_ context.Context, aggregate *order.Order, expected order.Status) error {
	if r.s.FailWith != nil {
		return r.s.FailWith
	}
	if err := aggregate.Validate(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.orders[aggregate.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("order", aggregate.ID())
	}
	if stored.Status() != expected {
		return errs.NewVersionIsInvalidErrorWithCause("order",
			fmt.Errorf("expected status %s, found %s", expected, stored.Status()))
	}
	r.s.orders[aggregate.ID()] = cloneOrder(aggregate)
	return nil
}

type resultRepo struct{ s *Store }

func (r resultRepo) Get(_ context.Context, orderID string) (*result.Result, error) {
	if r.s.FailWith != nil {
		return nil, r.s.FailWith
	}
	if res := r.s.Result(orderID); res != nil {
		return res, nil
	}
	return nil, errs.NewObjectNotFoundError("result", orderID)
}

func (r resultRepo) Upsert(_ context.Context, aggregate *result.Result) error {
	if r.s.FailWith != nil {
		return r.s.FailWith
	}
	if err := aggregate.Validate(); err != nil {
		return err
	}
	r.s.PutResult(aggregate)
	return nil
}

type teamDirectory struct{ s *Store }

func (d teamDirectory) GetTeam(_ context.Context, teamID string) (*team.Team, error) {
	if d.s.FailWith != nil {
		return nil, d.s.FailWith
	}
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()
	if t, ok := d.s.teams[teamID]; ok {
		return t, nil
	}
	return nil, errs.NewObjectNotFoundError("team", teamID)
}

func (d teamDirectory) GetTeamByLeader(_ context.Context, leaderID string) (*team.Team, error) {
	if d.s.FailWith != nil {
		return nil, d.s.FailWith
	}
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()
	for _, t := range d.s.teams {
		if t.IsLedBy(leaderID) {
			return t, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("team leader", leaderID)
}

func cloneOrder(o *order.Order) *order.Order {
	c, err := order.RestoreOrder(o.ID(), o.Type(), o.Status(), o.CreatedAt(), o.Team(), o.Member(), o.Profit(), o.Details())
	if err != nil {
		panic(fmt.Sprintf("memstore: stored order %s is invalid: %v", o.ID(), err))
	}
	return c
}

func cloneResult(r *result.Result) *result.Result {
	c, err := result.RestoreResult(
		r.OrderID(), r.TeamID(), r.MemberID(), r.Link(), r.PaymentStatus(),
		r.Commission(), r.ProfitBehindOrder(), r.MembersProfit(), r.UpdatedAt(),
	)
	if err != nil {
		panic(fmt.Sprintf("memstore: stored result %s is invalid: %v", r.OrderID(), err))
	}
	return c
}
