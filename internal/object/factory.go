package object

import (
	"fmt"
	"sync"

	"github.com/rzpsarthak13/rowgate/internal/core"
)

var (
	// typeRegistry stores user constructors keyed by "<namespace>.<table>".
	typeRegistry = make(map[string]core.Constructor)

	// typeRegistryMutex protects the type registry from concurrent access.
	typeRegistryMutex sync.RWMutex
)

// RegisterType registers a user constructor for a table under a namespace.
// This is usually called from the init() function of the package declaring the type.
// Panics if the constructor is nil, a name is empty, or the pair is already registered.
func RegisterType(namespace, table string, ctor core.Constructor) {
	if ctor == nil {
		panic("constructor cannot be nil")
	}
	if namespace == "" || table == "" {
		panic("namespace and table cannot be empty")
	}

	typeRegistryMutex.Lock()
	defer typeRegistryMutex.Unlock()

	name := qualifiedName(namespace, table)
	if _, exists := typeRegistry[name]; exists {
		panic(fmt.Sprintf("type %q is already registered", name))
	}
	typeRegistry[name] = ctor
}

// LookupType returns the constructor registered for a table under a namespace.
func LookupType(namespace, table string) (core.Constructor, bool) {
	typeRegistryMutex.RLock()
	defer typeRegistryMutex.RUnlock()

	ctor, exists := typeRegistry[qualifiedName(namespace, table)]
	return ctor, exists
}

func qualifiedName(namespace, table string) string {
	return namespace + "." + table
}

// Factory decides, per table, which type wraps a fetched record.
// Lookup order: constructors given to the factory, then the namespace type
// registry, then RowObject.
type Factory struct {
	mu           sync.RWMutex
	namespace    string
	constructors map[string]core.Constructor
}

// NewFactory creates a factory. namespace may be empty to disable namespace lookups.
func NewFactory(namespace string) *Factory {
	return &Factory{
		namespace:    namespace,
		constructors: make(map[string]core.Constructor),
	}
}

// Register sets the constructor used for a table, replacing any previous one.
func (f *Factory) Register(table string, ctor core.Constructor) error {
	if table == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if ctor == nil {
		return fmt.Errorf("constructor for table %q cannot be nil", table)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.constructors[table] = ctor
	return nil
}

// Namespace returns the namespace used for type lookups.
func (f *Factory) Namespace() string {
	return f.namespace
}

// ConstructorFor returns the constructor that Wrap would use for table.
func (f *Factory) ConstructorFor(table string) core.Constructor {
	f.mu.RLock()
	ctor, exists := f.constructors[table]
	f.mu.RUnlock()
	if exists {
		return ctor
	}

	if f.namespace != "" {
		if ctor, exists := LookupType(f.namespace, table); exists {
			return ctor
		}
	}
	return NewObject
}

// Wrap builds the object for a record fetched from table.
// A nil record means "not found" and is returned unchanged as a nil object.
func (f *Factory) Wrap(table string, rec *core.Record) core.Object {
	if rec == nil {
		return nil
	}
	return f.ConstructorFor(table)(rec)
}

// WrapDefault builds a RowObject regardless of registrations.
func (f *Factory) WrapDefault(rec *core.Record) core.Object {
	if rec == nil {
		return nil
	}
	return New(rec)
}
