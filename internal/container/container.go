package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/garyjia/lic-claimdesk/internal/application/dispatcher"
	"github.com/garyjia/lic-claimdesk/internal/application/port"
	"github.com/garyjia/lic-claimdesk/internal/application/service"
	"github.com/garyjia/lic-claimdesk/internal/application/state"
	"github.com/garyjia/lic-claimdesk/internal/domain/event"
	"github.com/garyjia/lic-claimdesk/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/lic-claimdesk/pkg/database"
)

// Container manages all application dependencies and lifecycle. Components
// start in dependency order and are torn down in reverse.
type Container struct {
	config *Config
	logger *zap.Logger

	// Infrastructure
	conn    *database.DB
	db      *sqlite.DB
	records port.RecordRepository
	storage *StorageBundle

	// Application
	dispatcher dispatcher.Dispatcher
	store      *state.Store
	services   *ServiceBundle

	mu     sync.Mutex
	ready  atomic.Bool
	closed atomic.Bool
}

// ServiceBundle groups all application services
type ServiceBundle struct {
	Claim       service.ClaimService
	SpecialCase service.SpecialCaseService
	FollowUp    service.FollowUpService
	Premium     service.PremiumService
	Export      service.ExportService
	Counters    *service.CountersService
}

// HealthStatus represents the health of all components
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components in dependency order:
// 1. Database and record repository
// 2. Export storage
// 3. Dispatcher and state store (loads and reconciles)
// 4. Application services (seeds plan tables)
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	if err := c.initDatabase(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Debug("Database initialized")

	if err := c.initStorage(); err != nil {
		c.closeDatabase()
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := c.initState(ctx); err != nil {
		c.closeDatabase()
		return fmt.Errorf("failed to initialize state: %w", err)
	}
	c.logger.Debug("State loaded")

	if err := c.initServices(ctx); err != nil {
		c.closeDatabase()
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	c.ready.Store(true)
	c.logger.Debug("Container started")
	return nil
}

// Close shuts down all components in reverse order
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	// services, store and storage hold no resources of their own
	if c.dispatcher != nil && c.services != nil && c.services.Counters != nil {
		c.dispatcher.Unsubscribe(event.TypeStoreSaved, service.CountersHandlerName)
		c.dispatcher.Unsubscribe(event.TypeStoreLoaded, service.CountersHandlerName)
	}

	err := c.closeDatabase()

	c.closed.Store(true)
	c.ready.Store(false)

	if err != nil {
		c.logger.Error("Container closed with errors", zap.Error(err))
		return err
	}
	c.logger.Debug("Container closed")
	return nil
}

func (c *Container) closeDatabase() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	if err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// Ready returns true when all components are initialized
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components
func (c *Container) Health() *HealthStatus {
	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	switch {
	case c.conn == nil:
		status.Components["database"] = ComponentHealth{Message: "not initialized"}
		status.Overall = false
	case c.conn.Ping() != nil:
		status.Components["database"] = ComponentHealth{Message: "ping failed"}
		status.Overall = false
	default:
		status.Components["database"] = ComponentHealth{Healthy: true}
	}

	if c.store != nil {
		status.Components["store"] = ComponentHealth{Healthy: true}
	} else {
		status.Components["store"] = ComponentHealth{Message: "not loaded"}
		status.Overall = false
	}

	return status
}

func (c *Container) initDatabase() error {
	bundle, err := ProvideDatabase(&c.config.Database, c.logger)
	if err != nil {
		return err
	}
	c.conn = bundle.Conn
	c.db = bundle.TransactionMgr

	records, err := ProvideRecords(c.conn.DB, c.logger)
	if err != nil {
		return err
	}
	c.records = records
	return nil
}

func (c *Container) initStorage() error {
	bundle, err := ProvideStorage(&c.config.Storage, c.logger)
	if err != nil {
		return err
	}
	c.storage = bundle
	return nil
}

func (c *Container) initState(ctx context.Context) error {
	disp, err := ProvideDispatcher(c.logger)
	if err != nil {
		return err
	}
	c.dispatcher = disp

	store, err := ProvideStore(ctx, c.records, c.db, c.dispatcher, c.logger)
	if err != nil {
		return err
	}
	c.store = store
	return nil
}

func (c *Container) initServices(ctx context.Context) error {
	services, err := ProvideServices(ctx, &ServiceDeps{
		Store:      c.store,
		Records:    c.records,
		Dispatcher: c.dispatcher,
		Storage:    c.storage,
		Premium:    &c.config.Premium,
		Logger:     c.logger,
	})
	if err != nil {
		return err
	}
	c.services = services
	return nil
}

// Services returns all application services
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// Store returns the state store
func (c *Container) Store() *state.Store {
	return c.store
}

// Dispatcher returns the event dispatcher
func (c *Container) Dispatcher() dispatcher.Dispatcher {
	return c.dispatcher
}

// Logger returns the container's logger
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container's configuration
func (c *Container) Config() *Config {
	return c.config
}
