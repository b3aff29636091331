package ports

import (
	"context"

	"orderflow/internal/core/domain/model/team"
)

// TeamDirectory resolves allocation targets. It is read-only for the engines.
type TeamDirectory interface {
	// GetTeam returns the team with teamID or an errs.ObjectNotFoundError.
	GetTeam(ctx context.Context, teamID string) (*team.Team, error)

	// GetTeamByLeader returns the team led by leaderID or an errs.ObjectNotFoundError.
	GetTeamByLeader(ctx context.Context, leaderID string) (*team.Team, error)
}
