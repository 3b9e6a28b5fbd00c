package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface is the set of operations in openapi.yaml.
type ServerInterface interface {
	// (GET /orders)
	ListOrders(ctx echo.Context) error
	// (POST /orders)
	CreateOrder(ctx echo.Context) error
	// (GET /orders/{id})
	GetOrder(ctx echo.Context, id string) error
	// (PATCH /orders/{id}/status)
	ChangeOrderStatus(ctx echo.Context, id string) error
	// (PATCH /orders/{id}/priority)
	SetOrderPriority(ctx echo.Context, id string) error
	// (POST /orders/{id}/assign)
	AssignRider(ctx echo.Context, id string) error
	// (PATCH /orders/{id}/rider-status)
	AdvanceByRider(ctx echo.Context, id string) error
	// (POST /orders/{id}/confirm-delivery)
	ConfirmDelivery(ctx echo.Context, id string) error
	// (GET /orders/{id}/predict)
	PredictDispatch(ctx echo.Context, id string) error
	// (GET /dispatch/queue)
	ListDispatchQueue(ctx echo.Context, params ListDispatchQueueParams) error
	// (POST /dispatch/run)
	RunDispatch(ctx echo.Context, params RunDispatchParams) error
	// (GET /flow/status)
	GetFlowStatus(ctx echo.Context) error
	// (POST /flow/run)
	RunFlow(ctx echo.Context, params RunFlowParams) error
	// (GET /riders)
	ListRiders(ctx echo.Context) error
	// (GET /products)
	ListProducts(ctx echo.Context) error
}

// ListDispatchQueueParams defines parameters for ListDispatchQueue.
type ListDispatchQueueParams struct {
	Limit *int `form:"limit,omitempty" json:"limit,omitempty"`
}

// RunDispatchParams defines parameters for RunDispatch.
type RunDispatchParams struct {
	Limit *int `form:"limit,omitempty" json:"limit,omitempty"`
}

// RunFlowParams defines parameters for RunFlow.
type RunFlowParams struct {
	Force *bool `form:"force,omitempty" json:"force,omitempty"`
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) ListOrders(ctx echo.Context) error {
	return w.Handler.ListOrders(ctx)
}

func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	id, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetOrder(ctx, id)
}

func (w *ServerInterfaceWrapper) ChangeOrderStatus(ctx echo.Context) error {
	id, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ChangeOrderStatus(ctx, id)
}

func (w *ServerInterfaceWrapper) SetOrderPriority(ctx echo.Context) error {
	id, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.SetOrderPriority(ctx, id)
}

func (w *ServerInterfaceWrapper) AssignRider(ctx echo.Context) error {
	id, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.AssignRider(ctx, id)
}

func (w *ServerInterfaceWrapper) AdvanceByRider(ctx echo.Context) error {
	id, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.AdvanceByRider(ctx, id)
}

func (w *ServerInterfaceWrapper) ConfirmDelivery(ctx echo.Context) error {
	id, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ConfirmDelivery(ctx, id)
}

func (w *ServerInterfaceWrapper) PredictDispatch(ctx echo.Context) error {
	id, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.PredictDispatch(ctx, id)
}

func (w *ServerInterfaceWrapper) ListDispatchQueue(ctx echo.Context) error {
	var params ListDispatchQueueParams
	err := runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}
	return w.Handler.ListDispatchQueue(ctx, params)
}

func (w *ServerInterfaceWrapper) RunDispatch(ctx echo.Context) error {
	var params RunDispatchParams
	err := runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}
	return w.Handler.RunDispatch(ctx, params)
}

func (w *ServerInterfaceWrapper) GetFlowStatus(ctx echo.Context) error {
	return w.Handler.GetFlowStatus(ctx)
}

func (w *ServerInterfaceWrapper) RunFlow(ctx echo.Context) error {
	var params RunFlowParams
	err := runtime.BindQueryParameter("form", true, false, "force", ctx.QueryParams(), &params.Force)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter force: %s", err))
	}
	return w.Handler.RunFlow(ctx, params)
}

func (w *ServerInterfaceWrapper) ListRiders(ctx echo.Context) error {
	return w.Handler.ListRiders(ctx)
}

func (w *ServerInterfaceWrapper) ListProducts(ctx echo.Context) error {
	return w.Handler.ListProducts(ctx)
}

func bindOrderID(ctx echo.Context) (string, error) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter id: %s", err))
	}
	return id, nil
}

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlersWithBaseURL mounts every operation under baseURL.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.GET(baseURL+"/orders", wrapper.ListOrders)
	router.POST(baseURL+"/orders", wrapper.CreateOrder)
	router.GET(baseURL+"/orders/:id", wrapper.GetOrder)
	router.PATCH(baseURL+"/orders/:id/status", wrapper.ChangeOrderStatus)
	router.PATCH(baseURL+"/orders/:id/priority", wrapper.SetOrderPriority)
	router.POST(baseURL+"/orders/:id/assign", wrapper.AssignRider)
	router.PATCH(baseURL+"/orders/:id/rider-status", wrapper.AdvanceByRider)
	router.POST(baseURL+"/orders/:id/confirm-delivery", wrapper.ConfirmDelivery)
	router.GET(baseURL+"/orders/:id/predict", wrapper.PredictDispatch)
	router.GET(baseURL+"/dispatch/queue", wrapper.ListDispatchQueue)
	router.POST(baseURL+"/dispatch/run", wrapper.RunDispatch)
	router.GET(baseURL+"/flow/status", wrapper.GetFlowStatus)
	router.POST(baseURL+"/flow/run", wrapper.RunFlow)
	router.GET(baseURL+"/riders", wrapper.ListRiders)
	router.GET(baseURL+"/products", wrapper.ListProducts)
}
