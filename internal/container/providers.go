package container

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/garyjia/lic-claimdesk/internal/application/dispatcher"
	"github.com/garyjia/lic-claimdesk/internal/application/port"
	"github.com/garyjia/lic-claimdesk/internal/application/service"
	"github.com/garyjia/lic-claimdesk/internal/application/state"
	"github.com/garyjia/lic-claimdesk/internal/infrastructure/export"
	"github.com/garyjia/lic-claimdesk/internal/infrastructure/persistence/repository"
	"github.com/garyjia/lic-claimdesk/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/lic-claimdesk/internal/infrastructure/storage"
	"github.com/garyjia/lic-claimdesk/pkg/database"
	"github.com/garyjia/lic-claimdesk/pkg/utils"
)

// DatabaseBundle holds database-related components
type DatabaseBundle struct {
	Conn           *database.DB
	TransactionMgr *sqlite.DB
}

// StorageBundle holds storage-related components
type StorageBundle struct {
	FileStorage port.FileStorage
	Workbook    port.WorkbookWriter
}

// ServiceDeps holds the dependencies shared by every service
type ServiceDeps struct {
	Store      *state.Store
	Records    port.RecordRepository
	Dispatcher dispatcher.Dispatcher
	Storage    *StorageBundle
	Premium    *PremiumConfig
	Logger     *zap.Logger
}

// ProvideDatabase opens the database and applies the embedded migrations
func ProvideDatabase(cfg *DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	conn, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := database.NewMigrator(conn, logger).RunEmbedded(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DatabaseBundle{
		Conn:           conn,
		TransactionMgr: sqlite.NewDB(conn.DB, logger),
	}, nil
}

// ProvideRecords creates the record repository
func ProvideRecords(sqlDB *sql.DB, logger *zap.Logger) (port.RecordRepository, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	return repository.NewRecordRepository(sqlDB, logger), nil
}

// ProvideStorage creates the export file storage and workbook writer
func ProvideStorage(cfg *StorageConfig, logger *zap.Logger) (*StorageBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage config is required")
	}
	return &StorageBundle{
		FileStorage: storage.NewLocalFileStorage(cfg.ExportDir, logger),
		Workbook:    export.NewWorkbookWriter(logger),
	}, nil
}

// ProvideDispatcher creates the event dispatcher
func ProvideDispatcher(logger *zap.Logger) (dispatcher.Dispatcher, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return dispatcher.NewDispatcher(dispatcher.WithLogger(&zapLoggerAdapter{logger: logger})), nil
}

// ProvideStore creates the state store and loads it, reconciling legacy records
func ProvideStore(ctx context.Context, records port.RecordRepository, tx port.TransactionManager, d dispatcher.Dispatcher, logger *zap.Logger) (*state.Store, error) {
	store := state.NewStore(records, tx, d, &zapLoggerAdapter{logger: logger.Named("store")})
	if err := store.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return store, nil
}

// ProvideServices creates all application services and seeds the plan tables
func ProvideServices(ctx context.Context, deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil || deps.Store == nil || deps.Records == nil || deps.Storage == nil {
		return nil, fmt.Errorf("service dependencies are incomplete")
	}

	logger := &zapLoggerAdapter{logger: deps.Logger.Named("service")}
	validator := utils.NewValidator()

	premium := service.NewPremiumService(deps.Records, logger)
	var extra []byte
	if deps.Premium != nil && deps.Premium.RatesFile != "" {
		data, err := os.ReadFile(deps.Premium.RatesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read rates file: %w", err)
		}
		extra = data
	}
	if _, err := premium.Seed(ctx, extra); err != nil {
		return nil, fmt.Errorf("failed to seed plan tables: %w", err)
	}

	// counters subscribe before any service can save
	counters := service.NewCountersService(deps.Store, deps.Dispatcher, logger)

	return &ServiceBundle{
		Claim:       service.NewClaimService(deps.Store, deps.Dispatcher, validator, logger),
		SpecialCase: service.NewSpecialCaseService(deps.Store, deps.Dispatcher, validator, logger),
		FollowUp:    service.NewFollowUpService(deps.Store, deps.Dispatcher, logger),
		Premium:     premium,
		Export:      service.NewExportService(deps.Store, deps.Storage.Workbook, deps.Storage.FileStorage, logger),
		Counters:    counters,
	}, nil
}
