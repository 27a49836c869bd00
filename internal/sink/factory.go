package sink

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rzpsarthak13/rowgate/internal/core"
	"github.com/rzpsarthak13/rowgate/internal/registry"
)

var (
	// ErrSinkClosed is returned when writing to a closed sink.
	ErrSinkClosed = errors.New("sink is closed")

	// ErrSinkNotConfigured is returned when creating a sink without a sink type.
	ErrSinkNotConfigured = errors.New("export sink is not configured")

	// ErrInvalidEntry is returned when a key or value is empty.
	ErrInvalidEntry = errors.New("invalid sink entry")
)

// SinkFactory is the Strategy interface for creating sink implementations.
// Each backend (memory, Redis, DynamoDB, Kafka) implements this interface to
// provide its own factory method.
type SinkFactory interface {
	// Create creates a new sink from the export configuration.
	Create(config registry.InternalExportConfig) (core.Sink, error)

	// Type returns the type identifier for this factory (e.g., "redis", "kafka").
	Type() string

	// Validate validates the configuration specific to this sink type.
	Validate(config registry.InternalExportConfig) error
}

var (
	// factoryRegistry stores all registered sink factories.
	factoryRegistry = make(map[string]SinkFactory)

	// registryMutex protects the factory registry from concurrent access.
	registryMutex sync.RWMutex
)

// RegisterFactory registers a sink factory.
// This is called automatically by each implementation's init() function.
func RegisterFactory(factory SinkFactory) {
	if factory == nil {
		panic("factory cannot be nil")
	}
	if factory.Type() == "" {
		panic("factory type cannot be empty")
	}

	registryMutex.Lock()
	defer registryMutex.Unlock()

	if _, exists := factoryRegistry[factory.Type()]; exists {
		panic(fmt.Sprintf("factory for type %q is already registered", factory.Type()))
	}

	factoryRegistry[factory.Type()] = factory
}

// Create creates a sink using the factory registered for config.SinkType.
func Create(config registry.InternalExportConfig) (core.Sink, error) {
	if config.SinkType == "" {
		return nil, ErrSinkNotConfigured
	}

	registryMutex.RLock()
	factory, exists := factoryRegistry[config.SinkType]
	registryMutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unsupported sink type: %s", config.SinkType)
	}

	if err := factory.Validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", config.SinkType, err)
	}

	return factory.Create(config)
}

// GetRegisteredTypes returns the registered sink types in sorted order.
func GetRegisteredTypes() []string {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	types := make([]string, 0, len(factoryRegistry))
	for t := range factoryRegistry {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// IsTypeRegistered checks if a sink type is registered.
func IsTypeRegistered(sinkType string) bool {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	_, exists := factoryRegistry[sinkType]
	return exists
}

// exportValidator adapts a factory to registry.ConfigValidator so that
// configuration loading checks the sink section with the same rules.
type exportValidator struct {
	factory SinkFactory
}

func (v *exportValidator) Type() string {
	return v.factory.Type()
}

func (v *exportValidator) Validate(config *registry.InternalConfig) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}
	return v.factory.Validate(config.Export)
}

// register registers a factory and its config validator.
func register(factory SinkFactory) {
	RegisterFactory(factory)
	registry.RegisterValidator(&exportValidator{factory: factory})
}

func checkEntry(key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("%w: key is required", ErrInvalidEntry)
	}
	if value == nil {
		return fmt.Errorf("%w: value is required for key %s", ErrInvalidEntry, key)
	}
	return nil
}
