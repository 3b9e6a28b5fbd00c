package http_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/catalog"
	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/idgen"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var now = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

type uowFactory struct {
	inner *memory.UnitOfWorkFactory
}

func (f uowFactory) Create() commands.UoW {
	return f.inner.Create()
}

type ServerTestSuite struct {
	suite.Suite
	store *memory.Store
	hub   *httpadapter.Hub
	e     *echo.Echo
}

func (s *ServerTestSuite) SetupTest() {
	logger := slog.Default()
	shift, err := rider.NewShift(6, 22)
	s.Require().NoError(err)
	r1, err := rider.NewRider("r1", "Rider Alpha", "", kernel.ZoneCBD, shift, 32, 1, 0.96)
	s.Require().NoError(err)
	roster, err := memory.NewRiderDirectory(r1)
	s.Require().NoError(err)
	products, err := catalog.Default()
	s.Require().NoError(err)

	s.store = memory.NewStore()
	s.hub = httpadapter.NewHub(logger)
	uows := uowFactory{inner: memory.NewUnitOfWorkFactory(s.store, s.hub, logger)}

	cmdClock := commands.Clock(func() time.Time { return now })
	queryClock := queries.Clock(func() time.Time { return now })
	matcher := services.NewRiderMatcher()
	sla := services.NewSLAEvaluator(0, 0, services.DefaultScoreWeights())
	policy := services.DefaultFlowPolicy()
	runs := memory.NewFlowRunStore()
	redispatch := commands.NewRunRedispatchSweepCommandHandler(uows, commands.DefaultAssignmentTimeout, cmdClock, logger)

	server := httpadapter.NewServer(
		httpadapter.CommandHandlers{
			CreateOrder:     commands.NewCreateOrderCommandHandler(uows, products, idgen.NewOrderIDGenerator(cmdClock), cmdClock),
			ChangeStatus:    commands.NewChangeStatusCommandHandler(uows, cmdClock),
			SetPriority:     commands.NewSetPriorityCommandHandler(uows, cmdClock),
			AssignRider:     commands.NewAssignRiderCommandHandler(uows, roster, matcher, cmdClock),
			AdvanceByRider:  commands.NewAdvanceByRiderCommandHandler(uows, cmdClock),
			ConfirmDelivery: commands.NewConfirmDeliveryCommandHandler(uows, cmdClock),
			BatchDispatch: commands.NewRunBatchDispatchCommandHandler(
				uows, roster, matcher, sla, redispatch, cmdClock, logger),
			FlowSweep: commands.NewRunFlowSweepCommandHandler(uows, policy, runs, cmdClock, logger),
		},
		httpadapter.QueryHandlers{
			GetOrder:          queries.NewGetOrderQueryHandler(s.store.Reader(), sla, queryClock),
			ListOrders:        queries.NewListOrdersQueryHandler(s.store.Reader(), sla, queryClock),
			ListDispatchQueue: queries.NewListDispatchQueueQueryHandler(s.store.Reader(), sla, queryClock),
			PredictDispatch:   queries.NewPredictDispatchQueryHandler(s.store.Reader(), roster, matcher, queryClock),
			ListRiders:        queries.NewListRidersQueryHandler(s.store.Reader(), roster, queryClock),
			ListProducts:      queries.NewListProductsQueryHandler(products),
			GetFlowStatus:     queries.NewGetFlowStatusQueryHandler(policy, runs),
		},
	)

	s.e, err = httpadapter.NewRouter(server, s.hub, logger)
	s.Require().NoError(err)
}

func (s *ServerTestSuite) TearDownTest() {
	s.hub.Close()
}

func (s *ServerTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) decode(rec *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

// seed stores an order walked through statuses, assigning riderID on the way
// to Assigned when one is given.
func (s *ServerTestSuite) seed(id, riderID string, statuses ...order.Status) *order.Order {
	item, err := order.NewItem(1, "Burger Combo", order.CategoryFood, decimal.NewFromInt(850), 1)
	s.Require().NoError(err)
	o, err := order.NewOrder(id, "cust-1", order.ChannelWeb, []order.Item{item}, kernel.ZoneCBD, order.PriorityNormal, now.Add(-time.Minute))
	s.Require().NoError(err)
	for _, st := range statuses {
		if st == order.Assigned {
			s.Require().NoError(o.Assign(riderID, now))
			continue
		}
		s.Require().NoError(o.Transition(st, now))
	}
	s.Require().NoError(s.store.Reader().Add(context.Background(), o))
	return o
}

func (s *ServerTestSuite) TestHealth() {
	rec := s.do(http.MethodGet, "/health", "")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Healthy", rec.Body.String())
}

func (s *ServerTestSuite) TestCreateOrder() {
	rec := s.do(http.MethodPost, "/api/orders",
		`{"items":[{"productId":1,"qty":2}],"chatId":12345,"zone":"nyali","priority":"high"}`)

	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var created order.Snapshot
	s.decode(rec, &created)
	s.NotEmpty(created.ID)
	s.Equal(order.Created, created.Status)
	s.Equal(order.ChannelTelegram, created.Channel)
	s.Equal("12345", created.CustomerRef)
	s.Equal(kernel.ZoneNyali, created.Zone)
	s.Equal(order.PriorityHigh, created.Priority)
	s.True(decimal.NewFromInt(1700).Equal(created.Total))

	rec = s.do(http.MethodGet, "/api/orders/"+created.ID, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var view queries.OrderView
	s.decode(rec, &view)
	s.Equal(created.ID, view.ID)
	s.False(view.SLABreached)
}

func (s *ServerTestSuite) TestCreateOrder_RejectsBadInput() {
	tests := []struct {
		name string
		body string
	}{
		{name: "no items", body: `{"items":[]}`},
		{name: "zero quantity", body: `{"items":[{"productId":1,"qty":0}]}`},
		{name: "unknown zone", body: `{"items":[{"productId":1,"qty":1}],"zone":"MARS"}`},
		{name: "unknown product", body: `{"items":[{"productId":999,"qty":1}]}`},
		{name: "malformed json", body: `{"items":`},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := s.do(http.MethodPost, "/api/orders", tt.body)

			s.Equal(http.StatusBadRequest, rec.Code, rec.Body.String())
			var body httpadapter.Error
			s.decode(rec, &body)
			s.Equal(http.StatusBadRequest, body.Code)
			s.NotEmpty(body.Message)
		})
	}
}

func (s *ServerTestSuite) TestCreateOrder_ValidationDetails() {
	rec := s.do(http.MethodPost, "/api/orders", `{"items":[{"productId":1,"qty":0}]}`)

	s.Require().Equal(http.StatusBadRequest, rec.Code)
	var body httpadapter.Error
	s.decode(rec, &body)
	s.Equal("Validation failed", body.Message)
	s.Require().Len(body.Details, 1)
	s.Equal("items[0].qty", body.Details[0].Path)
}

func (s *ServerTestSuite) TestGetOrder_NotFound() {
	rec := s.do(http.MethodGet, "/api/orders/ORD-404", "")

	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ServerTestSuite) TestChangeOrderStatus() {
	s.seed("ORD-1", "")

	rec := s.do(http.MethodPatch, "/api/orders/ORD-1/status", `{"status":"confirmed"}`)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var updated order.Snapshot
	s.decode(rec, &updated)
	s.Equal(order.Confirmed, updated.Status)

	rec = s.do(http.MethodPatch, "/api/orders/ORD-1/status", `{"status":"DELIVERED"}`)
	s.Equal(http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPatch, "/api/orders/ORD-1/status", `{"status":"LOST"}`)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPatch, "/api/orders/ORD-1/status", `{}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerTestSuite) TestSetOrderPriority() {
	s.seed("ORD-1", "")

	rec := s.do(http.MethodPatch, "/api/orders/ORD-1/priority", `{"priority":"CRITICAL"}`)

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var updated order.Snapshot
	s.decode(rec, &updated)
	s.Equal(order.PriorityCritical, updated.Priority)
}

func (s *ServerTestSuite) TestAssignRider() {
	s.seed("ORD-1", "", order.Confirmed, order.Preparing, order.ReadyForPickup)
	s.seed("ORD-2", "", order.Confirmed, order.Preparing, order.ReadyForPickup)

	rec := s.do(http.MethodPost, "/api/orders/ORD-1/assign", "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var result commands.AssignRiderResult
	s.decode(rec, &result)
	s.Equal(order.Assigned, result.Order.Status)
	s.Equal("r1", result.Dispatch.RiderID)

	rec = s.do(http.MethodPost, "/api/orders/ORD-2/assign", `{}`)
	s.Equal(http.StatusConflict, rec.Code, "the only rider is at capacity")

	rec = s.do(http.MethodPost, "/api/orders/ORD-2/assign", `{"riderId":"r1"}`)
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *ServerTestSuite) TestAdvanceByRider() {
	s.seed("ORD-1", "r1", order.Confirmed, order.Preparing, order.ReadyForPickup, order.Assigned)

	rec := s.do(http.MethodPatch, "/api/orders/ORD-1/rider-status", `{"riderId":"r2","status":"PICKED_UP"}`)
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPatch, "/api/orders/ORD-1/rider-status", `{"riderId":"r1","status":"PICKED_UP"}`)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var updated order.Snapshot
	s.decode(rec, &updated)
	s.Equal(order.PickedUp, updated.Status)
}

func (s *ServerTestSuite) TestConfirmDelivery() {
	o := s.seed("ORD-1", "r1", order.Confirmed, order.Preparing, order.ReadyForPickup,
		order.Assigned, order.PickedUp, order.OnTheWay, order.Delivered)
	s.seed("ORD-2", "")

	rec := s.do(http.MethodPost, "/api/orders/ORD-1/confirm-delivery", `{"code":"0000000"}`)
	s.Equal(http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(http.MethodPost, "/api/orders/ORD-1/confirm-delivery",
		`{"code":"`+o.DeliveryCode()+`","customerRef":"someone-else"}`)
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/orders/ORD-2/confirm-delivery", `{"code":"1234"}`)
	s.Equal(http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/orders/ORD-1/confirm-delivery", `{"code":"`+o.DeliveryCode()+`"}`)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var updated order.Snapshot
	s.decode(rec, &updated)
	s.Equal(order.Completed, updated.Status)
	s.True(updated.CustomerConfirmed)
}

func (s *ServerTestSuite) TestDispatchEndpoints() {
	s.seed("ORD-1", "", order.Confirmed, order.Preparing, order.ReadyForPickup)

	rec := s.do(http.MethodGet, "/api/dispatch/queue?limit=5", "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var queue []queries.DispatchQueueEntry
	s.decode(rec, &queue)
	s.Require().Len(queue, 1)
	s.Equal("ORD-1", queue[0].OrderID)

	rec = s.do(http.MethodGet, "/api/orders/ORD-1/predict", "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var prediction queries.PredictDispatchResponse
	s.decode(rec, &prediction)
	s.Require().NotNil(prediction.Recommended)
	s.Equal("r1", prediction.Recommended.RiderID)

	rec = s.do(http.MethodPost, "/api/dispatch/run", "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var result commands.BatchDispatchResult
	s.decode(rec, &result)
	s.Equal(1, result.Processed)
	s.Len(result.Assigned, 1)

	rec = s.do(http.MethodGet, "/api/dispatch/queue?limit=abc", "")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerTestSuite) TestFlowEndpoints() {
	s.seed("ORD-1", "")

	rec := s.do(http.MethodPost, "/api/flow/run?force=true", "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/flow/status", "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var status queries.FlowStatusResponse
	s.decode(rec, &status)
	s.Require().NotNil(status.LastRun)
	s.True(status.LastRun.Forced)
	s.Positive(status.ReadyAfterSeconds)
}

func (s *ServerTestSuite) TestRidersAndProducts() {
	rec := s.do(http.MethodGet, "/api/riders", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var riders []queries.RiderView
	s.decode(rec, &riders)
	s.Require().Len(riders, 1)
	s.Equal(rider.Available, riders[0].Status)

	rec = s.do(http.MethodGet, "/api/products", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var products []map[string]any
	s.decode(rec, &products)
	s.Len(products, 16)
}

func (s *ServerTestSuite) TestOpenAPIDocument() {
	rec := s.do(http.MethodGet, "/openapi.json", "")

	s.Require().Equal(http.StatusOK, rec.Code)
	var doc map[string]any
	s.decode(rec, &doc)
	s.Equal("3.0.3", doc["openapi"])
	s.Contains(doc["paths"], "/orders/{id}/assign")
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusConflict, httpadapter.StatusFor(services.ErrNoRider))
	assert.Equal(t, http.StatusConflict, httpadapter.StatusFor(commands.ErrDispatchAlreadyRunning))
	assert.Equal(t, http.StatusUnprocessableEntity, httpadapter.StatusFor(order.ErrInvalidCode))
	assert.Equal(t, http.StatusBadRequest, httpadapter.StatusFor(order.ErrEmptyOrder))
	assert.Equal(t, http.StatusInternalServerError, httpadapter.StatusFor(context.DeadlineExceeded))
}

func TestGetSwagger(t *testing.T) {
	doc, err := httpadapter.GetSwagger()

	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/dispatch/run"))
}
