package export

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"

	"github.com/rzpsarthak13/rowgate/internal/core"
	"github.com/rzpsarthak13/rowgate/internal/registry"
	"github.com/rzpsarthak13/rowgate/internal/schema"
)

// Selector resolves the rows of a table into objects.
// It is implemented by resolver.Resolver.
type Selector interface {
	Select(ctx context.Context, table string, filters core.Filters) ([]core.Object, error)
}

// SchemaSource returns the registration of a table.
// It is implemented by registry.TableRegistry.
type SchemaSource interface {
	GetMetadata(tableName string) (*registry.TableMetadata, error)
}

// Config contains configuration for the exporter.
type Config struct {
	// Namespace prefixes every exported key when set.
	Namespace string

	// Rate is the maximum number of sink writes per second.
	Rate int

	// Burst is the number of writes allowed at once before the rate applies.
	Burst int
}

// DefaultConfig returns sensible defaults for the exporter.
func DefaultConfig() Config {
	return Config{
		Rate:  50, // 50 sink writes per second
		Burst: 1,
	}
}

// Exporter copies resolved objects into a sink as key-value pairs, at a
// controlled rate to protect the sink. The relational database is only read.
type Exporter struct {
	selector   Selector
	schemas    SchemaSource
	sink       core.Sink
	translator *schema.Translator
	config     Config
}

// NewExporter creates a new exporter.
func NewExporter(selector Selector, schemas SchemaSource, sink core.Sink, config Config) *Exporter {
	if config.Rate <= 0 {
		config.Rate = DefaultConfig().Rate
	}
	if config.Burst <= 0 {
		config.Burst = DefaultConfig().Burst
	}

	return &Exporter{
		selector:   selector,
		schemas:    schemas,
		sink:       sink,
		translator: schema.NewTranslator(),
		config:     config,
	}
}

// GetConfig returns the exporter configuration.
func (e *Exporter) GetConfig() Config {
	return e.config
}

// ExportTable selects the rows of table matching filters, resolves them and
// writes each one to the sink under "[namespace:]table:<primary key>".
// Returns the number of objects written before any error.
func (e *Exporter) ExportTable(ctx context.Context, table string, filters core.Filters) (int, error) {
	metadata, err := e.schemas.GetMetadata(table)
	if err != nil {
		return 0, err
	}

	objs, err := e.selector.Select(ctx, table, filters)
	if err != nil {
		return 0, err
	}

	// Rate tokens per second
	// Example: Rate=100 → 1 token every 10ms
	limiter := rate.NewLimiter(rate.Limit(e.config.Rate), e.config.Burst)

	log.Printf("[EXPORT:%s] Exporting %d objects - Rate: %d ops/sec", table, len(objs), e.config.Rate)

	startTime := time.Now()
	count := 0
	for _, obj := range objs {
		if err := limiter.Wait(ctx); err != nil {
			return count, fmt.Errorf("export of table '%s' interrupted: %w", table, err)
		}

		key, value, err := e.translator.ToKV(e.config.Namespace, &metadata.Schema, obj)
		if err != nil {
			return count, fmt.Errorf("failed to convert object of table '%s': %w", table, err)
		}
		if err := e.sink.Put(ctx, table, key, value); err != nil {
			log.Printf("[EXPORT:%s] ERROR: Failed to write key %s: %v", table, key, err)
			return count, fmt.Errorf("failed to export key %s: %w", key, err)
		}
		count++
	}

	log.Printf("[EXPORT:%s] Exported %d objects in %v", table, count, time.Since(startTime))
	return count, nil
}

// ExportTables exports every row of each table in order.
// Returns the total number of objects written before any error.
func (e *Exporter) ExportTables(ctx context.Context, tables []string) (int, error) {
	total := 0
	for _, table := range tables {
		n, err := e.ExportTable(ctx, table, nil)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
