package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/catalog"
	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/adapters/out/notify"
	"dispatch/internal/adapters/out/sqlstore"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/pkg/idgen"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// StoreDriverMemory selects the in-process order store.
const StoreDriverMemory = "memory"

type CompositionRoot struct {
	config Config
	logger *slog.Logger
	clock  func() time.Time

	uowFactory ports.UnitOfWorkFactory
	orders     ports.OrderReader
	riders     ports.RiderDirectory
	catalog    ports.Catalog
	flowRuns   ports.FlowRunStore
	hub        *httpin.Hub

	matcher    services.RiderMatcher
	sla        services.SLAEvaluator
	flowPolicy services.FlowPolicy

	redispatch commands.RunRedispatchSweepCommandHandler
	closers    []func() error
}

// NewCompositionRoot connects the configured store and brokers and builds
// the shared domain services. Close releases every connection it opened.
func NewCompositionRoot(ctx context.Context, config Config, logger *slog.Logger) (*CompositionRoot, error) {
	loc, err := config.Location()
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		config:     config,
		logger:     logger,
		clock:      func() time.Time { return time.Now().In(loc) },
		flowRuns:   memory.NewFlowRunStore(),
		hub:        httpin.NewHub(logger),
		matcher:    services.NewRiderMatcher(),
		sla:        services.NewSLAEvaluator(config.SLACreatedThreshold, config.SLATransitThreshold, services.DefaultScoreWeights()),
		flowPolicy: services.NewFlowPolicy(config.FlowConfirmAfter, config.FlowPreparingAfter, config.FlowReadyAfter),
	}

	if c.riders, err = newRiderDirectory(config.Riders); err != nil {
		return nil, err
	}
	if c.catalog, err = catalog.Default(); err != nil {
		return nil, err
	}

	publisher, err := c.connectBrokers(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	if err = c.connectStore(publisher); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.redispatch = commands.NewRunRedispatchSweepCommandHandler(c.uows(), config.AssignmentTimeout, c.clock, logger)
	return c, nil
}

func newRiderDirectory(configs []RiderConfig) (*memory.RiderDirectory, error) {
	riders := make([]*rider.Rider, 0, len(configs))
	for _, rc := range configs {
		zone, err := kernel.ParseZone(rc.Zone)
		if err != nil {
			return nil, fmt.Errorf("rider %s: %w", rc.ID, err)
		}
		shift, err := rider.NewShift(rc.ShiftStart, rc.ShiftEnd)
		if err != nil {
			return nil, fmt.Errorf("rider %s: %w", rc.ID, err)
		}
		r, err := rider.NewRider(rc.ID, rc.Name, rc.ChatID, zone, shift, rc.SpeedKph, rc.MaxActiveOrders, rc.AcceptanceRate)
		if err != nil {
			return nil, fmt.Errorf("rider %s: %w", rc.ID, err)
		}
		riders = append(riders, r)
	}
	return memory.NewRiderDirectory(riders...)
}

// connectBrokers dials every broker in NOTIFY_BROKERS. The websocket hub
// always receives events.
func (c *CompositionRoot) connectBrokers(ctx context.Context) (ports.EventPublisher, error) {
	publishers := []ports.EventPublisher{c.hub}

	for _, broker := range c.config.NotifyBrokers {
		switch broker {
		case "redis":
			p, err := notify.DialRedis(ctx, c.config.RedisAddr, c.config.RedisPassword, c.config.RedisDB, c.config.RedisPrefix)
			if err != nil {
				return nil, err
			}
			publishers = append(publishers, p)
			c.closers = append(c.closers, p.Close)
		case "amqp":
			p, err := notify.DialAMQP(c.config.AMQPURL, c.config.AMQPExchange)
			if err != nil {
				return nil, err
			}
			publishers = append(publishers, p)
			c.closers = append(c.closers, p.Close)
		case "nats":
			p, err := notify.DialNATS(notify.NATSConfig{
				URL:            c.config.NATSURL,
				Name:           "dispatch",
				Prefix:         c.config.NATSPrefix,
				ReconnectWait:  2 * time.Second,
				MaxReconnects:  -1,
				ConnectTimeout: 5 * time.Second,
			})
			if err != nil {
				return nil, err
			}
			publishers = append(publishers, p)
			c.closers = append(c.closers, p.Close)
		default:
			return nil, fmt.Errorf("unsupported notify broker %q", broker)
		}
		c.logger.Info("connected event broker", "broker", broker)
	}

	return notify.NewFanout(publishers...), nil
}

func (c *CompositionRoot) connectStore(publisher ports.EventPublisher) error {
	var (
		db  *gorm.DB
		err error
	)
	switch c.config.StoreDriver {
	case StoreDriverMemory, "":
		store := memory.NewStore()
		c.uowFactory = memory.NewUnitOfWorkFactory(store, publisher, c.logger)
		c.orders = store.Reader()
		c.logger.Warn("using the in-memory order store; orders are lost on restart")
		return nil
	case sqlstore.DriverPostgres:
		db, err = sqlstore.Open(sqlstore.DriverPostgres, c.config.PostgresDSN())
	case sqlstore.DriverMySQL:
		db, err = sqlstore.Open(sqlstore.DriverMySQL, c.config.MySQLDSN)
	default:
		return fmt.Errorf("unsupported store driver %q", c.config.StoreDriver)
	}
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	c.closers = append(c.closers, sqlDB.Close)
	c.uowFactory = sqlstore.NewGormUnitOfWorkFactory(db, publisher, c.logger)
	c.orders = sqlstore.NewOrderReader(db)
	return nil
}

// Close disconnects the hub clients, brokers and database.
func (c *CompositionRoot) Close() error {
	c.hub.Close()
	var errList []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errList = append(errList, err)
		}
	}
	c.closers = nil
	return errors.Join(errList...)
}

func (c *CompositionRoot) uows() commands.UoWFactory {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return f
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.uows(), c.catalog, idgen.NewOrderIDGenerator(c.clock), c.clock)
}

func (c *CompositionRoot) CreateChangeStatusCommandHandler() commands.ChangeStatusCommandHandler {
	return commands.NewChangeStatusCommandHandler(c.uows(), c.clock)
}

func (c *CompositionRoot) CreateSetPriorityCommandHandler() commands.SetPriorityCommandHandler {
	return commands.NewSetPriorityCommandHandler(c.uows(), c.clock)
}

func (c *CompositionRoot) CreateAssignRiderCommandHandler() commands.AssignRiderCommandHandler {
	return commands.NewAssignRiderCommandHandler(c.uows(), c.riders, c.matcher, c.clock)
}

func (c *CompositionRoot) CreateAdvanceByRiderCommandHandler() commands.AdvanceByRiderCommandHandler {
	return commands.NewAdvanceByRiderCommandHandler(c.uows(), c.clock)
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	return commands.NewConfirmDeliveryCommandHandler(c.uows(), c.clock)
}

// CreateRunBatchDispatchCommandHandler returns a handler with its own
// in-flight guard. Entry points that must not overlap share one value.
func (c *CompositionRoot) CreateRunBatchDispatchCommandHandler() commands.RunBatchDispatchCommandHandler {
	return commands.NewRunBatchDispatchCommandHandler(
		c.uows(), c.riders, c.matcher, c.sla, c.redispatch, c.clock, c.logger)
}

func (c *CompositionRoot) CreateRunFlowSweepCommandHandler() commands.RunFlowSweepCommandHandler {
	return commands.NewRunFlowSweepCommandHandler(c.uows(), c.flowPolicy, c.flowRuns, c.clock, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.orders, c.sla, c.clock)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.orders, c.sla, c.clock)
}

func (c *CompositionRoot) CreateListDispatchQueueQueryHandler() queries.ListDispatchQueueQueryHandler {
	return queries.NewListDispatchQueueQueryHandler(c.orders, c.sla, c.clock)
}

func (c *CompositionRoot) CreatePredictDispatchQueryHandler() queries.PredictDispatchQueryHandler {
	return queries.NewPredictDispatchQueryHandler(c.orders, c.riders, c.matcher, c.clock)
}

func (c *CompositionRoot) CreateListRidersQueryHandler() queries.ListRidersQueryHandler {
	return queries.NewListRidersQueryHandler(c.orders, c.riders, c.clock)
}

func (c *CompositionRoot) CreateListProductsQueryHandler() queries.ListProductsQueryHandler {
	return queries.NewListProductsQueryHandler(c.catalog)
}

func (c *CompositionRoot) CreateGetFlowStatusQueryHandler() queries.GetFlowStatusQueryHandler {
	return queries.NewGetFlowStatusQueryHandler(c.flowPolicy, c.flowRuns)
}

// CreateApp builds the router and the job manager around the same batch
// and flow handlers, so their in-flight guards cover both entry points.
func (c *CompositionRoot) CreateApp() (*echo.Echo, *jobs.JobManager, error) {
	batch := c.CreateRunBatchDispatchCommandHandler()
	flow := c.CreateRunFlowSweepCommandHandler()

	server := httpin.NewServer(
		httpin.CommandHandlers{
			CreateOrder:     c.CreateCreateOrderCommandHandler(),
			ChangeStatus:    c.CreateChangeStatusCommandHandler(),
			SetPriority:     c.CreateSetPriorityCommandHandler(),
			AssignRider:     c.CreateAssignRiderCommandHandler(),
			AdvanceByRider:  c.CreateAdvanceByRiderCommandHandler(),
			ConfirmDelivery: c.CreateConfirmDeliveryCommandHandler(),
			BatchDispatch:   batch,
			FlowSweep:       flow,
		},
		httpin.QueryHandlers{
			GetOrder:          c.CreateGetOrderQueryHandler(),
			ListOrders:        c.CreateListOrdersQueryHandler(),
			ListDispatchQueue: c.CreateListDispatchQueueQueryHandler(),
			PredictDispatch:   c.CreatePredictDispatchQueryHandler(),
			ListRiders:        c.CreateListRidersQueryHandler(),
			ListProducts:      c.CreateListProductsQueryHandler(),
			GetFlowStatus:     c.CreateGetFlowStatusQueryHandler(),
		},
	)

	router, err := httpin.NewRouter(server, c.hub, c.logger)
	if err != nil {
		return nil, nil, err
	}

	jobManager := jobs.NewJobManager(batch, flow, jobs.Schedule{
		DispatchInterval: c.config.DispatchInterval,
		BatchLimit:       c.config.DispatchBatchLimit,
		FlowInterval:     c.config.FlowInterval,
	}, c.logger)

	return router, jobManager, nil
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
