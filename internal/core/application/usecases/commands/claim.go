package commands

import (
	"context"
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/team"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// claim selects up to limit candidates and applies change to those that still match
// filter. It returns the ids actually changed.
func claim(
	ctx context.Context,
	repo ports.OrderRepository,
	filter order.Filter,
	limit int,
	change order.BulkChange,
) ([]string, error) {
	candidates, err := repo.Find(ctx, filter, limit)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	return repo.UpdateMany(ctx, orderIDs(candidates), filter, change)
}

// resolveTeam looks up an allocation target by id. Teams without a name cannot be
// stamped onto orders and count as missing.
func resolveTeam(ctx context.Context, directory ports.TeamDirectory, teamID string) (*team.Team, Outcome, error) {
	tm, err := directory.GetTeam(ctx, teamID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, OutcomeTargetNotFound, err
	}
	if err != nil {
		return nil, OutcomeStoreError, err
	}
	if !tm.HasName() {
		return nil, OutcomeTargetNotFound, errs.NewObjectNotFoundErrorWithCause(
			"team", teamID, errors.New("team has no name"))
	}
	return tm, OutcomeUnknown, nil
}

// resolveLedTeam returns the team the actor leads. A request naming any other team is
// unauthorized.
func resolveLedTeam(
	ctx context.Context,
	directory ports.TeamDirectory,
	actor kernel.Actor,
	requestedTeamID string,
) (*team.Team, Outcome, error) {
	tm, err := directory.GetTeamByLeader(ctx, actor.ID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, OutcomeUnauthorized, fmt.Errorf("%w: %s leads no team", ErrUnauthorized, actor.ID())
	}
	if err != nil {
		return nil, OutcomeStoreError, err
	}
	if requestedTeamID != "" && requestedTeamID != tm.ID() {
		return nil, OutcomeUnauthorized, fmt.Errorf(
			"%w: %s does not lead team %s", ErrUnauthorized, actor.ID(), requestedTeamID)
	}
	return tm, OutcomeUnknown, nil
}
