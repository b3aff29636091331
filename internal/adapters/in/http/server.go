package http

import (
	"net/http"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/generated/servers"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	defaultCandidateLookback = 7 * 24 * time.Hour
	defaultCandidateLimit    = 500
)

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	ImportOrders          commands.ImportOrdersCommandHandler
	AllocateOrders        commands.AllocateOrdersCommandHandler
	UnallocateOrders      commands.UnallocateOrdersCommandHandler
	CompleteOrder         commands.CompleteOrderCommandHandler
	RevertOrderCompletion commands.RevertOrderCompletionCommandHandler
	VerifyOrder           commands.VerifyOrderCommandHandler
	ReconcileOrders       commands.ReconcileOrdersCommandHandler
	Candidates            queries.GetReconciliationCandidatesQueryHandler
}

// Options carries the request decoding settings.
type Options struct {
	// Location is the time zone request dates are read in.
	Location *time.Location

	// CandidateLookback is used when a candidate query names no since date.
	CandidateLookback time.Duration

	// CandidateLimit is used when a candidate query names no limit.
	CandidateLimit int

	Clock kernel.Clock
}

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
	auth     *Authenticator
	options  Options
	logger   *zap.Logger
}

var _ servers.ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(handlers Handlers, auth *Authenticator, options Options, logger *zap.Logger) *Server {
	if options.Location == nil {
		options.Location = time.UTC
	}
	if options.CandidateLookback <= 0 {
		options.CandidateLookback = defaultCandidateLookback
	}
	if options.CandidateLimit <= 0 {
		options.CandidateLimit = defaultCandidateLimit
	}
	if options.Clock == nil {
		options.Clock = kernel.SystemClock{}
	}
	return &Server{
		handlers: handlers,
		auth:     auth,
		options:  options,
		logger:   logger.With(zap.String("component", "http")),
	}
}

// ImportOrders handles POST /api/v1/orders - stores a batch of New orders.
func (s *Server) ImportOrders(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.writeError(ctx, err)
	}

	var body servers.ImportOrdersJSONRequestBody
	if err = bindBody(ctx, &body); err != nil {
		return s.writeError(ctx, err)
	}

	cmd, err := commands.NewImportOrdersCommand(actor, importItems(body.Orders))
	if err != nil {
		return s.writeError(ctx, err)
	}

	report, err := s.handlers.ImportOrders.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toImportReport(report))
}

// AllocateOrders handles POST /api/v1/orders/allocate - hands orders to teams or members.
func (s *Server) AllocateOrders(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.writeError(ctx, err)
	}

	var body servers.AllocateOrdersJSONRequestBody
	if err = bindBody(ctx, &body); err != nil {
		return s.writeError(ctx, err)
	}

	requests, err := allocationRequests(body.Requests, s.options.Location)
	if err != nil {
		return s.writeError(ctx, err)
	}

	cmd, err := commands.NewAllocateOrdersCommand(actor, requests)
	if err != nil {
		return s.writeError(ctx, err)
	}

	report, err := s.handlers.AllocateOrders.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toBatchReport(report))
}

// UnallocateOrders handles POST /api/v1/orders/unallocate - releases orders from teams or members.
func (s *Server) UnallocateOrders(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.writeError(ctx, err)
	}

	var body servers.UnallocateOrdersJSONRequestBody
	if err = bindBody(ctx, &body); err != nil {
		return s.writeError(ctx, err)
	}

	requests, err := unallocationRequests(body.Requests, s.options.Location)
	if err != nil {
		return s.writeError(ctx, err)
	}

	cmd, err := commands.NewUnallocateOrdersCommand(actor, requests)
	if err != nil {
		return s.writeError(ctx, err)
	}

	report, err := s.handlers.UnallocateOrders.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toBatchReport(report))
}

// CompleteOrder handles POST /api/v1/orders/{orderId}/complete.
func (s *Server) CompleteOrder(ctx echo.Context, orderID servers.OrderId) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.writeError(ctx, err)
	}

	cmd, err := commands.NewCompleteOrderCommand(actor, orderID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	res, err := s.handlers.CompleteOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toLifecycleResult(res))
}

// RevertOrderCompletion handles POST /api/v1/orders/{orderId}/revert-completion.
func (s *Server) RevertOrderCompletion(ctx echo.Context, orderID servers.OrderId) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.writeError(ctx, err)
	}

	cmd, err := commands.NewRevertOrderCompletionCommand(actor, orderID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	res, err := s.handlers.RevertOrderCompletion.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toLifecycleResult(res))
}

// VerifyOrder handles POST /api/v1/orders/{orderId}/verify.
func (s *Server) VerifyOrder(ctx echo.Context, orderID servers.OrderId) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.writeError(ctx, err)
	}

	cmd, err := commands.NewVerifyOrderCommand(actor, orderID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	res, err := s.handlers.VerifyOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toLifecycleResult(res))
}

// ReconcileOrders handles POST /api/v1/reconciliations - probes and corrects the named orders.
func (s *Server) ReconcileOrders(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.writeError(ctx, err)
	}

	var body servers.ReconcileOrdersJSONRequestBody
	if err = bindBody(ctx, &body); err != nil {
		return s.writeError(ctx, err)
	}

	cmd, err := commands.NewReconcileOrdersCommand(actor, body.OrderIds)
	if err != nil {
		return s.writeError(ctx, err)
	}

	report, err := s.handlers.ReconcileOrders.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toReconciliationReport(report))
}

// GetReconciliationCandidates handles GET /api/v1/reconciliations/candidates.
func (s *Server) GetReconciliationCandidates(
	ctx echo.Context,
	params servers.GetReconciliationCandidatesParams,
) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.writeError(ctx, err)
	}
	if !actor.IsAdmin() {
		return s.writeError(ctx, commands.ErrUnauthorized)
	}

	since := s.options.Clock.Now().Add(-s.options.CandidateLookback)
	if params.Since != nil {
		if since, err = kernel.ParseDate(*params.Since, s.options.Location); err != nil {
			return s.writeError(ctx, err)
		}
	}
	limit := s.options.CandidateLimit
	if params.Limit != nil {
		limit = *params.Limit
	}

	query, err := queries.NewGetReconciliationCandidatesQuery(since, limit)
	if err != nil {
		return s.writeError(ctx, err)
	}

	ids, err := s.handlers.Candidates.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.ReconciliationCandidates{OrderIds: ids})
}

// Logout handles POST /api/v1/auth/logout - revokes the presented token.
func (s *Server) Logout(ctx echo.Context) error {
	token, err := tokenFrom(ctx)
	if err != nil {
		return s.writeError(ctx, err)
	}

	if err = s.auth.Revoke(ctx.Request().Context(), token); err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func bindBody(ctx echo.Context, body any) error {
	if err := ctx.Bind(body); err != nil {
		return newBadRequest("invalid request body", err)
	}
	if err := ctx.Validate(body); err != nil {
		return newBadRequest("invalid request body", err)
	}
	return nil
}
