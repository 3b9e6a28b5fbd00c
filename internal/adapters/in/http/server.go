package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// CommandHandlers are the write use cases exposed over HTTP.
type CommandHandlers struct {
	CreateOrder     commands.CreateOrderCommandHandler
	ChangeStatus    commands.ChangeStatusCommandHandler
	SetPriority     commands.SetPriorityCommandHandler
	AssignRider     commands.AssignRiderCommandHandler
	AdvanceByRider  commands.AdvanceByRiderCommandHandler
	ConfirmDelivery commands.ConfirmDeliveryCommandHandler
	BatchDispatch   commands.RunBatchDispatchCommandHandler
	FlowSweep       commands.RunFlowSweepCommandHandler
}

// QueryHandlers are the read use cases exposed over HTTP.
type QueryHandlers struct {
	GetOrder          queries.GetOrderQueryHandler
	ListOrders        queries.ListOrdersQueryHandler
	ListDispatchQueue queries.ListDispatchQueueQueryHandler
	PredictDispatch   queries.PredictDispatchQueryHandler
	ListRiders        queries.ListRidersQueryHandler
	ListProducts      queries.ListProductsQueryHandler
	GetFlowStatus     queries.GetFlowStatusQueryHandler
}

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
// Errors are returned to echo and rendered by the error handler.
type Server struct {
	commands CommandHandlers
	queries  QueryHandlers
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(commandHandlers CommandHandlers, queryHandlers QueryHandlers) *Server {
	return &Server{commands: commandHandlers, queries: queryHandlers}
}

// ListOrders handles GET /api/orders.
func (s *Server) ListOrders(ctx echo.Context) error {
	orders, err := s.queries.ListOrders.Handle(ctx.Request().Context(), queries.NewListOrdersQuery())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, orders)
}

// CreateOrder handles POST /api/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}

	channel := order.ChannelWeb
	if req.ChatID != "" {
		channel = order.ChannelTelegram
	}
	cmd, err := commands.NewCreateOrderCommand(
		customerRef(req.ChatID, req.CustomerRef),
		channel,
		req.lines(),
		req.Zone,
		req.Priority,
	)
	if err != nil {
		return err
	}

	created, err := s.commands.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, created)
}

// GetOrder handles GET /api/orders/{id}.
func (s *Server) GetOrder(ctx echo.Context, id string) error {
	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return err
	}

	view, err := s.queries.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, view)
}

// ChangeOrderStatus handles PATCH /api/orders/{id}/status.
func (s *Server) ChangeOrderStatus(ctx echo.Context, id string) error {
	var req StatusRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return err
	}
	cmd, err := commands.NewChangeStatusCommand(id, status)
	if err != nil {
		return err
	}

	updated, err := s.commands.ChangeStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, updated)
}

// SetOrderPriority handles PATCH /api/orders/{id}/priority.
func (s *Server) SetOrderPriority(ctx echo.Context, id string) error {
	var req PriorityRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}

	cmd, err := commands.NewSetPriorityCommand(id, req.Priority)
	if err != nil {
		return err
	}

	updated, err := s.commands.SetPriority.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, updated)
}

// AssignRider handles POST /api/orders/{id}/assign. An empty body asks for
// automatic matching.
func (s *Server) AssignRider(ctx echo.Context, id string) error {
	var req AssignRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}

	cmd, err := commands.NewAssignRiderCommand(id, req.RiderID)
	if err != nil {
		return err
	}

	result, err := s.commands.AssignRider.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, result)
}

// AdvanceByRider handles PATCH /api/orders/{id}/rider-status.
func (s *Server) AdvanceByRider(ctx echo.Context, id string) error {
	var req RiderStatusRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return err
	}
	cmd, err := commands.NewAdvanceByRiderCommand(id, req.RiderID, status)
	if err != nil {
		return err
	}

	updated, err := s.commands.AdvanceByRider.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, updated)
}

// ConfirmDelivery handles POST /api/orders/{id}/confirm-delivery.
func (s *Server) ConfirmDelivery(ctx echo.Context, id string) error {
	var req ConfirmDeliveryRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}

	cmd, err := commands.NewConfirmDeliveryCommand(id, req.Code, customerRef(req.ChatID, req.CustomerRef))
	if err != nil {
		return err
	}

	updated, err := s.commands.ConfirmDelivery.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, updated)
}

// PredictDispatch handles GET /api/orders/{id}/predict.
func (s *Server) PredictDispatch(ctx echo.Context, id string) error {
	query, err := queries.NewPredictDispatchQuery(id)
	if err != nil {
		return err
	}

	prediction, err := s.queries.PredictDispatch.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, prediction)
}

// ListDispatchQueue handles GET /api/dispatch/queue.
func (s *Server) ListDispatchQueue(ctx echo.Context, params ListDispatchQueueParams) error {
	query := queries.NewListDispatchQueueQuery(intOrZero(params.Limit))

	queue, err := s.queries.ListDispatchQueue.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, queue)
}

// RunDispatch handles POST /api/dispatch/run.
func (s *Server) RunDispatch(ctx echo.Context, params RunDispatchParams) error {
	cmd := commands.NewRunBatchDispatchCommand(intOrZero(params.Limit))

	result, err := s.commands.BatchDispatch.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, result)
}

// GetFlowStatus handles GET /api/flow/status.
func (s *Server) GetFlowStatus(ctx echo.Context) error {
	status, err := s.queries.GetFlowStatus.Handle(ctx.Request().Context(), queries.NewGetFlowStatusQuery())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, status)
}

// RunFlow handles POST /api/flow/run. force=true runs even while a
// scheduled sweep is in flight.
func (s *Server) RunFlow(ctx echo.Context, params RunFlowParams) error {
	force := params.Force != nil && *params.Force

	run, err := s.commands.FlowSweep.Handle(ctx.Request().Context(), commands.NewRunFlowSweepCommand(force))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, run)
}

// ListRiders handles GET /api/riders.
func (s *Server) ListRiders(ctx echo.Context) error {
	riders, err := s.queries.ListRiders.Handle(ctx.Request().Context(), queries.NewListRidersQuery())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, riders)
}

// ListProducts handles GET /api/products.
func (s *Server) ListProducts(ctx echo.Context) error {
	products, err := s.queries.ListProducts.Handle(ctx.Request().Context(), queries.NewListProductsQuery())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, products)
}

func bindAndValidate(ctx echo.Context, req any) error {
	if err := ctx.Bind(req); err != nil {
		return err
	}
	return ctx.Validate(req)
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
