package core

// Object defines the interface for resolved row objects.
// The default implementation is object.RowObject; user types usually embed it
// so that only the behavior they add needs to be written.
type Object interface {
	// Get returns the value of a property.
	// Returns an error wrapping ErrUndeclaredProperty if the property does not exist.
	Get(name string) (interface{}, error)

	// Has reports whether a property exists.
	Has(name string) bool

	// Names returns the property names in insertion order.
	Names() []string

	// CopyFrom stores every column of rec as a property, each name prefixed with prefix.
	// Used to inline foreign-key rows; existing properties with the same name are overwritten.
	CopyFrom(rec *Record, prefix string)
}

// Constructor builds an Object from a fetched record.
// Any type constructible from a raw row can be substituted for the default object.
type Constructor func(rec *Record) Object
