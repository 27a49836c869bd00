package client

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/rzpsarthak13/rowgate/internal/core"
	"github.com/rzpsarthak13/rowgate/internal/database"
	"github.com/rzpsarthak13/rowgate/internal/export"
	"github.com/rzpsarthak13/rowgate/internal/object"
	"github.com/rzpsarthak13/rowgate/internal/registry"
	"github.com/rzpsarthak13/rowgate/internal/resolver"
	"github.com/rzpsarthak13/rowgate/internal/sink"
)

// Setup describes the tables served by a gateway, without importing the public package.
type Setup struct {
	Namespace           string
	Tables              []registry.InternalTableConfig
	ForeignKeys         map[string][]string
	ValidateForeignKeys bool
	Constructors        map[string]core.Constructor
	Export              registry.InternalExportConfig
}

// ConfigProvider is an interface to provide configuration as YAML without importing the public package.
type ConfigProvider interface {
	GetYAML() ([]byte, error)
}

// GatewayImpl is the default implementation behind the public Gateway.
type GatewayImpl struct {
	mu            sync.RWMutex
	database      core.Database
	ownsDatabase  bool
	tableRegistry *registry.TableRegistry
	foreignKeys   *registry.ForeignKeyMap
	factory       *object.Factory
	resolver      *resolver.Resolver
	exportConfig  registry.InternalExportConfig
	closed        bool
}

// NewGatewayImplFromConfig loads the configuration, overrides it with the
// environment, opens the configured database and sets the gateway up.
// The database is closed with the gateway.
func NewGatewayImplFromConfig(ctx context.Context, configProvider ConfigProvider) (*GatewayImpl, error) {
	if configProvider == nil {
		return nil, fmt.Errorf("config provider cannot be nil")
	}

	configMgr := registry.NewConfigManager()
	yamlData, err := configProvider.GetYAML()
	if err != nil {
		return nil, fmt.Errorf("failed to get config YAML: %w", err)
	}
	if err := configMgr.LoadFromYAML(yamlData); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := configMgr.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}
	config := configMgr.GetConfig()

	db, err := OpenDatabase(config.Database)
	if err != nil {
		return nil, err
	}

	impl, err := NewGatewayImpl(ctx, db, Setup{
		Namespace:           config.Gateway.Namespace,
		Tables:              config.Gateway.Tables,
		ForeignKeys:         config.Gateway.ForeignKeys,
		ValidateForeignKeys: config.Gateway.ValidateForeignKeys,
		Export:              config.Export,
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	impl.ownsDatabase = true
	return impl, nil
}

// OpenDatabase opens the database described by the configuration.
func OpenDatabase(config registry.InternalDatabaseConfig) (*database.SQLDatabase, error) {
	switch config.Type {
	case "mysql":
		db, err := database.NewMySQLDatabase(database.MySQLOptions{
			Host:              config.Host,
			Port:              config.Port,
			Database:          config.Database,
			Username:          config.Username,
			Password:          config.Password,
			MaxOpenConns:      config.MaxOpenConns,
			MaxIdleConns:      config.MaxIdleConns,
			ConnMaxLifetime:   config.ConnMaxLifetime,
			ConnMaxIdleTime:   config.ConnMaxIdleTime,
			ConnectionTimeout: config.ConnectionTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create database: %w", err)
		}
		return db, nil
	case "sqlite3":
		db, err := database.NewSQLiteDatabase(config.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to create database: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", config.Type)
	}
}

// NewGatewayImpl registers every table of setup on db and builds the resolver.
// The caller keeps ownership of db.
func NewGatewayImpl(ctx context.Context, db core.Database, setup Setup) (*GatewayImpl, error) {
	if db == nil {
		return nil, fmt.Errorf("database cannot be nil")
	}

	tableRegistry := registry.NewTableRegistry(db)
	for _, table := range setup.Tables {
		if err := tableRegistry.Register(ctx, table.Name, table.PrimaryKey); err != nil {
			tableRegistry.Close()
			return nil, fmt.Errorf("failed to register table %q: %w", table.Name, err)
		}
	}

	foreignKeys := registry.NewForeignKeyMap(setup.ForeignKeys)
	if setup.ValidateForeignKeys {
		if err := foreignKeys.Validate(tableRegistry); err != nil {
			tableRegistry.Close()
			return nil, err
		}
	}

	factory := object.NewFactory(setup.Namespace)
	for table, ctor := range setup.Constructors {
		if err := factory.Register(table, ctor); err != nil {
			tableRegistry.Close()
			return nil, err
		}
	}

	log.Printf("[GATEWAY] Ready with %d tables (namespace: %q)", tableRegistry.Count(), setup.Namespace)

	return &GatewayImpl{
		database:      db,
		tableRegistry: tableRegistry,
		foreignKeys:   foreignKeys,
		factory:       factory,
		resolver:      resolver.New(db, tableRegistry, foreignKeys, factory),
		exportConfig:  setup.Export,
	}, nil
}

func (g *GatewayImpl) checkOpen() error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.closed {
		return fmt.Errorf("gateway is closed")
	}
	return nil
}

// Execute dispatches an operation.
func (g *GatewayImpl) Execute(ctx context.Context, op resolver.Operation) (*resolver.Result, error) {
	if err := g.checkOpen(); err != nil {
		return nil, err
	}
	return g.resolver.Execute(ctx, op)
}

// Get fetches a single object by primary key. A nil object means not found.
func (g *GatewayImpl) Get(ctx context.Context, table string, key interface{}) (core.Object, error) {
	if err := g.checkOpen(); err != nil {
		return nil, err
	}
	return g.resolver.Get(ctx, table, key)
}

// Select fetches the objects of a table matching all filters.
func (g *GatewayImpl) Select(ctx context.Context, table string, filters core.Filters) ([]core.Object, error) {
	if err := g.checkOpen(); err != nil {
		return nil, err
	}
	return g.resolver.Select(ctx, table, filters)
}

// Query runs a raw parameterized statement.
func (g *GatewayImpl) Query(ctx context.Context, query string, params ...interface{}) ([]core.Object, error) {
	if err := g.checkOpen(); err != nil {
		return nil, err
	}
	return g.resolver.Query(ctx, query, params...)
}

// Metadata returns the registration of a table.
func (g *GatewayImpl) Metadata(table string) (*registry.TableMetadata, error) {
	return g.tableRegistry.GetMetadata(table)
}

// Tables returns the registered table names in sorted order.
func (g *GatewayImpl) Tables() []string {
	return g.tableRegistry.List()
}

// ForeignKeys returns the tables referenced by table.
func (g *GatewayImpl) ForeignKeys(table string) []string {
	return g.foreignKeys.References(table)
}

// ExportConfig returns the export section the gateway was set up with.
func (g *GatewayImpl) ExportConfig() registry.InternalExportConfig {
	return g.exportConfig
}

// NewSink creates the sink described by the export configuration.
func (g *GatewayImpl) NewSink() (core.Sink, error) {
	return sink.Create(g.exportConfig)
}

// Export writes the resolved objects of table matching filters into s.
func (g *GatewayImpl) Export(ctx context.Context, s core.Sink, table string, filters core.Filters) (int, error) {
	if err := g.checkOpen(); err != nil {
		return 0, err
	}
	if s == nil {
		return 0, fmt.Errorf("sink cannot be nil")
	}
	exporter := export.NewExporter(g.resolver, g.tableRegistry, s, export.Config{
		Namespace: g.exportConfig.Namespace,
		Rate:      g.exportConfig.Rate,
		Burst:     g.exportConfig.Burst,
	})
	return exporter.ExportTable(ctx, table, filters)
}

// Close releases every compiled statement, and the database when the gateway opened it.
func (g *GatewayImpl) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil
	}
	g.closed = true

	var errs []error
	if err := g.tableRegistry.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close table registry: %w", err))
	}
	if g.ownsDatabase {
		if err := g.database.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}
	return nil
}
