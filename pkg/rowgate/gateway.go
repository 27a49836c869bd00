package rowgate

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/rzpsarthak13/rowgate/internal/client"
	"github.com/rzpsarthak13/rowgate/internal/registry"
)

// Options configures a gateway created with New.
type Options struct {
	// Namespace selects the user types registered with RegisterType.
	Namespace string

	// Tables lists the tables to register.
	Tables []TableSpec

	// ForeignKeys maps a table to the tables its rows reference, in inlining order.
	ForeignKeys map[string][]string

	// ValidateForeignKeys makes New fail when a table of ForeignKeys is not registered.
	ValidateForeignKeys bool

	// Constructors maps a table to the constructor of its objects.
	// They take precedence over namespace types.
	Constructors map[string]Constructor

	// Export configures NewSink and Export.
	Export ExportConfig
}

// Gateway resolves lookups on registered tables into objects, inlining the
// rows referenced by declared foreign keys under "<Table>__" prefixed names.
//
// Typical usage:
//
//	gw, _ := rowgate.New(ctx, rowgate.WrapDB(db, "mysql"), rowgate.Options{
//		Tables:      []rowgate.TableSpec{{Name: "Town"}, {Name: "Client"}},
//		ForeignKeys: map[string][]string{"Client": {"Town"}},
//	})
//	defer gw.Close()
//
//	client, _ := gw.Get(ctx, "Client", 1)
//	if client != nil {
//		town, _ := client.Get("Town__town")
//	}
//
// A Gateway is safe for concurrent use when its Database is.
type Gateway struct {
	impl   *client.GatewayImpl
	tables map[string]*Table
}

// configProvider implements client.ConfigProvider to provide config as YAML without import cycles.
type configProvider struct {
	config *Config
}

func (cp *configProvider) GetYAML() ([]byte, error) {
	return yaml.Marshal(cp.config)
}

// New registers the tables of opts on db. The caller keeps ownership of db.
func New(ctx context.Context, db Database, opts Options) (*Gateway, error) {
	tables := make([]registry.InternalTableConfig, 0, len(opts.Tables))
	for _, t := range opts.Tables {
		tables = append(tables, registry.InternalTableConfig{Name: t.Name, PrimaryKey: t.PrimaryKey})
	}

	impl, err := client.NewGatewayImpl(ctx, db, client.Setup{
		Namespace:           opts.Namespace,
		Tables:              tables,
		ForeignKeys:         opts.ForeignKeys,
		ValidateForeignKeys: opts.ValidateForeignKeys,
		Constructors:        opts.Constructors,
		Export:              toInternalExport(opts.Export),
	})
	if err != nil {
		return nil, err
	}
	return newGateway(impl)
}

// Open opens the database described by config, applies ROWGATE_* environment
// overrides and registers the configured tables. Closing the gateway closes the database.
func Open(ctx context.Context, config *Config) (*Gateway, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	impl, err := client.NewGatewayImplFromConfig(ctx, &configProvider{config: config})
	if err != nil {
		return nil, err
	}
	return newGateway(impl)
}

func newGateway(impl *client.GatewayImpl) (*Gateway, error) {
	gw := &Gateway{
		impl:   impl,
		tables: make(map[string]*Table),
	}
	for _, name := range impl.Tables() {
		metadata, err := impl.Metadata(name)
		if err != nil {
			impl.Close()
			return nil, err
		}
		gw.tables[name] = &Table{
			gw:         gw,
			name:       name,
			primaryKey: metadata.Schema.PrimaryKey,
		}
	}
	return gw, nil
}

func toInternalExport(e ExportConfig) registry.InternalExportConfig {
	return registry.InternalExportConfig{
		SinkType:  e.SinkType,
		Namespace: e.Namespace,
		Rate:      e.Rate,
		Burst:     e.Burst,
		TTL:       e.TTL,
		Redis: registry.InternalRedisConfig{
			Endpoints:    e.Redis.Endpoints,
			Password:     e.Redis.Password,
			DB:           e.Redis.DB,
			PoolSize:     e.Redis.PoolSize,
			MinIdleConns: e.Redis.MinIdleConns,
			DialTimeout:  e.Redis.DialTimeout,
			ReadTimeout:  e.Redis.ReadTimeout,
			WriteTimeout: e.Redis.WriteTimeout,
		},
		DynamoDB: registry.InternalDynamoDBConfig{
			Region:          e.DynamoDB.Region,
			TableName:       e.DynamoDB.TableName,
			Endpoint:        e.DynamoDB.Endpoint,
			AccessKeyID:     e.DynamoDB.AccessKeyID,
			SecretAccessKey: e.DynamoDB.SecretAccessKey,
		},
		Kafka: registry.InternalKafkaConfig{
			Brokers:         e.Kafka.Brokers,
			Topic:           e.Kafka.Topic,
			BatchSize:       e.Kafka.BatchSize,
			BatchTimeout:    e.Kafka.BatchTimeout,
			WriteTimeout:    e.Kafka.WriteTimeout,
			RequiredAcks:    e.Kafka.RequiredAcks,
			MaxMessageBytes: e.Kafka.MaxMessageBytes,
		},
	}
}

// Get fetches the object of table whose primary key equals key.
// Returns a nil Object and no error when no row matches.
func (gw *Gateway) Get(ctx context.Context, table string, key interface{}) (Object, error) {
	return gw.impl.Get(ctx, table, key)
}

// Select fetches the objects of table matching all filters, in result order.
// Nil or empty filters select every row.
func (gw *Gateway) Select(ctx context.Context, table string, filters Filters) ([]Object, error) {
	return gw.impl.Select(ctx, table, filters)
}

// Query runs a raw parameterized statement and wraps every row in a RowObject.
func (gw *Gateway) Query(ctx context.Context, query string, params ...interface{}) ([]Object, error) {
	return gw.impl.Query(ctx, query, params...)
}

// Execute dispatches an operation.
func (gw *Gateway) Execute(ctx context.Context, op Operation) (*Result, error) {
	return gw.impl.Execute(ctx, op)
}

// Call parses a conventional call such as "getClient" with textual arguments and executes it.
func (gw *Gateway) Call(ctx context.Context, name string, args ...string) (*Result, error) {
	op, err := ParseCall(name, args)
	if err != nil {
		return nil, err
	}
	return gw.Execute(ctx, op)
}

// Table returns the handle of a registered table.
func (gw *Gateway) Table(name string) (*Table, error) {
	t, ok := gw.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: table '%s'", ErrUnregisteredTable, name)
	}
	return t, nil
}

// Tables returns the registered table names in sorted order.
func (gw *Gateway) Tables() []string {
	return gw.impl.Tables()
}

// ForeignKeys returns the tables referenced by table, in inlining order.
func (gw *Gateway) ForeignKeys(table string) []string {
	return gw.impl.ForeignKeys(table)
}

// NewSink creates the sink described by the export configuration.
func (gw *Gateway) NewSink() (Sink, error) {
	return gw.impl.NewSink()
}

// Export writes the objects of table matching filters into sink, keyed
// "[namespace:]Table:<primary key>". Returns the number of objects written.
func (gw *Gateway) Export(ctx context.Context, sink Sink, table string, filters Filters) (int, error) {
	return gw.impl.Export(ctx, sink, table, filters)
}

// Close releases the compiled statements, and the database when the gateway was opened with Open.
func (gw *Gateway) Close() error {
	return gw.impl.Close()
}
