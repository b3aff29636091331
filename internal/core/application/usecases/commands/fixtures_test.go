package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/reconciliation"
	"orderflow/internal/core/domain/model/result"
	"orderflow/internal/core/domain/model/team"
	"orderflow/internal/core/ports"
	"orderflow/internal/testutil/memstore"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	day   = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	now   = time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC)
	clock = kernel.ClockFunc(func() time.Time { return now })
)

func actor(t *testing.T, id string, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(id, role)
	require.NoError(t, err)
	return a
}

func admin(t *testing.T) kernel.Actor  { return actor(t, "A1", kernel.RoleAdmin) }
func leader(t *testing.T) kernel.Actor { return actor(t, "L1", kernel.RoleTeamLeader) }

// newStore returns a store with team T1 (leader L1, members M1 and M2), team T2
// (leader L2) and the nameless team T3.
func newStore(t *testing.T) *memstore.Store {
	t.Helper()
	s := memstore.New()

	m1, err := team.NewMember("M1", "Asha")
	require.NoError(t, err)
	m2, err := team.NewMember("M2", "Ravi")
	require.NoError(t, err)
	m3, err := team.NewMember("M3", "")
	require.NoError(t, err)

	t1, err := team.NewTeam("T1", "Falcons", "L1", []team.Member{m1, m2, m3})
	require.NoError(t, err)
	t2, err := team.NewTeam("T2", "Hawks", "L2", nil)
	require.NoError(t, err)
	t3, err := team.NewTeam("T3", "", "L3", nil)
	require.NoError(t, err)

	s.PutTeam(t1)
	s.PutTeam(t2)
	s.PutTeam(t3)
	return s
}

func seedNew(t *testing.T, s *memstore.Store, id string, orderType int, createdAt time.Time) *order.Order {
	t.Helper()
	o, err := order.NewOrder(id, orderType, createdAt, order.Details{Link: "https://pay.example.com/" + id})
	require.NoError(t, err)
	s.PutOrder(o)
	return o
}

func seedAllocated(t *testing.T, s *memstore.Store, id string, orderType int, createdAt time.Time) *order.Order {
	t.Helper()
	o := seedNew(t, s, id, orderType, createdAt)
	tm, err := order.NewAssignment("T1", "Falcons", createdAt)
	require.NoError(t, err)
	require.NoError(t, o.AllocateToTeam(tm))
	s.PutOrder(o)
	return o
}

func seedAssigned(t *testing.T, s *memstore.Store, id string, orderType int, createdAt time.Time) *order.Order {
	t.Helper()
	o := seedAllocated(t, s, id, orderType, createdAt)
	m, err := order.NewAssignment("M1", "Asha", createdAt)
	require.NoError(t, err)
	require.NoError(t, o.AssignToMember(m))
	s.PutOrder(o)
	return o
}

func seedCompleted(t *testing.T, s *memstore.Store, id string, orderType int, createdAt time.Time) *order.Order {
	t.Helper()
	o := seedAssigned(t, s, id, orderType, createdAt)
	p, err := order.NewProfit(10, 30, 15)
	require.NoError(t, err)
	require.NoError(t, o.Complete(p, createdAt.Add(time.Hour)))
	s.PutOrder(o)

	r, err := result.NewResultForCompletion(o, createdAt.Add(time.Hour))
	require.NoError(t, err)
	s.PutResult(r)
	return o
}

func at(hour int) time.Time {
	return day.Add(time.Duration(hour) * time.Hour)
}

// Mock doubles for call-sequence tests.

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) AddMany(ctx context.Context, orders []*order.Order) (ports.AddManyResult, error) {
	args := m.Called(ctx, orders)
	return args.Get(0).(ports.AddManyResult), args.Error(1)
}

func (m *MockOrderRepository) Get(ctx context.Context, orderID string) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) Find(ctx context.Context, filter order.Filter, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, filter, limit)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) UpdateMany(
	ctx context.Context,
	ids []string,
	filter order.Filter,
	change order.BulkChange,
) ([]string, error) {
	args := m.Called(ctx, ids, filter, change)
	changed, _ := args.Get(0).([]string)
	return changed, args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order, expected order.Status) error {
	args := m.Called(ctx, o, expected)
	return args.Error(0)
}

type MockResultRepository struct{ mock.Mock }

func (m *MockResultRepository) Get(ctx context.Context, orderID string) (*result.Result, error) {
	args := m.Called(ctx, orderID)
	r, _ := args.Get(0).(*result.Result)
	return r, args.Error(1)
}

func (m *MockResultRepository) Upsert(ctx context.Context, r *result.Result) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

type MockTeamDirectory struct{ mock.Mock }

func (m *MockTeamDirectory) GetTeam(ctx context.Context, teamID string) (*team.Team, error) {
	args := m.Called(ctx, teamID)
	tm, _ := args.Get(0).(*team.Team)
	return tm, args.Error(1)
}

func (m *MockTeamDirectory) GetTeamByLeader(ctx context.Context, leaderID string) (*team.Team, error) {
	args := m.Called(ctx, leaderID)
	tm, _ := args.Get(0).(*team.Team)
	return tm, args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) ResultRepository() ports.ResultRepository {
	args := m.Called()
	return args.Get(0).(ports.ResultRepository)
}

func (m *MockUoW) TeamDirectory() ports.TeamDirectory {
	args := m.Called()
	return args.Get(0).(ports.TeamDirectory)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockAllocationUoWFactory struct{ mock.Mock }

func (m *MockAllocationUoWFactory) Create() commands.AllocationUoW {
	args := m.Called()
	return args.Get(0).(commands.AllocationUoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

// stubProbe answers from a per-link script; each call consumes one entry and the last
// entry repeats.
type stubProbe struct {
	mu      sync.Mutex
	answers map[string][]probeAnswer
	calls   map[string]int
}

type probeAnswer struct {
	completion reconciliation.Completion
	err        error
}

func newStubProbe() *stubProbe {
	return &stubProbe{
		answers: make(map[string][]probeAnswer),
		calls:   make(map[string]int),
	}
}

func (p *stubProbe) on(link string, answers ...probeAnswer) *stubProbe {
	p.answers[link] = answers
	return p
}

func (p *stubProbe) Probe(_ context.Context, link string) (reconciliation.Completion, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	script := p.answers[link]
	n := p.calls[link]
	p.calls[link] = n + 1
	if len(script) == 0 {
		return reconciliation.CompletionUnknown, ports.ErrProbeFailed
	}
	if n >= len(script) {
		n = len(script) - 1
	}
	return script[n].completion, script[n].err
}

func (p *stubProbe) callsFor(link string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[link]
}
