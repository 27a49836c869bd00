package rowgate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration of a gateway opened with Open.
type Config struct {
	// Database contains configuration for the relational database.
	Database DatabaseConfig `yaml:"database" json:"database"`

	// Gateway lists the tables to register and their foreign keys.
	Gateway GatewayConfig `yaml:"gateway" json:"gateway"`

	// Export contains configuration for copying resolved objects to a sink.
	Export ExportConfig `yaml:"export" json:"export"`
}

// DatabaseConfig contains configuration for the relational database.
type DatabaseConfig struct {
	// Type specifies the database type: "mysql" or "sqlite3".
	Type string `yaml:"type" json:"type"`

	// Host is the database host address.
	Host string `yaml:"host" json:"host"`

	// Port is the database port number.
	Port int `yaml:"port" json:"port"`

	// Database is the database name.
	Database string `yaml:"database" json:"database"`

	// Username is the database username.
	Username string `yaml:"username" json:"username"`

	// Password is the database password.
	Password string `yaml:"password,omitempty" json:"password,omitempty"`

	// Path is the database file for sqlite3.
	Path string `yaml:"path,omitempty" json:"path,omitempty"`

	// MaxOpenConns is the maximum number of open connections to the database.
	MaxOpenConns int `yaml:"max_open_conns,omitempty" json:"max_open_conns,omitempty"`

	// MaxIdleConns is the maximum number of idle connections in the pool.
	MaxIdleConns int `yaml:"max_idle_conns,omitempty" json:"max_idle_conns,omitempty"`

	// ConnMaxLifetime is the maximum amount of time a connection may be reused.
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime,omitempty" json:"conn_max_lifetime,omitempty"`

	// ConnMaxIdleTime is the maximum amount of time a connection may be idle.
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time,omitempty" json:"conn_max_idle_time,omitempty"`

	// ConnectionTimeout is the timeout for establishing database connections.
	ConnectionTimeout time.Duration `yaml:"connection_timeout,omitempty" json:"connection_timeout,omitempty"`
}

// GatewayConfig describes the tables exposed by a gateway.
type GatewayConfig struct {
	// Namespace selects the user types registered with RegisterType.
	Namespace string `yaml:"namespace,omitempty" json:"namespace,omitempty"`

	// Tables lists the tables to register.
	Tables []TableSpec `yaml:"tables" json:"tables"`

	// ForeignKeys maps a table to the tables its rows reference, in inlining order.
	// The referencing column of table F is always "id" + F.
	ForeignKeys map[string][]string `yaml:"foreign_keys,omitempty" json:"foreign_keys,omitempty"`

	// ValidateForeignKeys makes setup fail when a table of ForeignKeys is not registered.
	// When false the failure is reported by the first lookup that needs the table.
	ValidateForeignKeys bool `yaml:"validate_foreign_keys,omitempty" json:"validate_foreign_keys,omitempty"`
}

// TableSpec is the registration of one table.
type TableSpec struct {
	// Name is the table name.
	Name string `yaml:"name" json:"name"`

	// PrimaryKey is the key column. Defaults to "id" + Name.
	PrimaryKey string `yaml:"primary_key,omitempty" json:"primary_key,omitempty"`
}

// ExportConfig contains configuration for exporting objects to a sink.
type ExportConfig struct {
	// SinkType is "memory", "redis", "dynamodb" or "kafka". Empty disables NewSink.
	SinkType string `yaml:"sink_type,omitempty" json:"sink_type,omitempty"`

	// Namespace is an optional prefix of exported keys.
	// Format: {namespace}:{table}:{primary_key_value}
	Namespace string `yaml:"namespace,omitempty" json:"namespace,omitempty"`

	// Rate is the maximum number of sink writes per second.
	Rate int `yaml:"rate,omitempty" json:"rate,omitempty"`

	// Burst is the number of writes allowed at once before Rate applies.
	Burst int `yaml:"burst,omitempty" json:"burst,omitempty"`

	// TTL is the expiration of exported keys, for sinks that support it.
	TTL time.Duration `yaml:"ttl,omitempty" json:"ttl,omitempty"`

	Redis    RedisConfig    `yaml:"redis,omitempty" json:"redis,omitempty"`
	DynamoDB DynamoDBConfig `yaml:"dynamodb,omitempty" json:"dynamodb,omitempty"`
	Kafka    KafkaConfig    `yaml:"kafka,omitempty" json:"kafka,omitempty"`
}

// RedisConfig contains Redis sink configuration.
type RedisConfig struct {
	Endpoints    []string      `yaml:"endpoints,omitempty" json:"endpoints,omitempty"`
	Password     string        `yaml:"password,omitempty" json:"password,omitempty"`
	DB           int           `yaml:"db,omitempty" json:"db,omitempty"`
	PoolSize     int           `yaml:"pool_size,omitempty" json:"pool_size,omitempty"`
	MinIdleConns int           `yaml:"min_idle_conns,omitempty" json:"min_idle_conns,omitempty"`
	DialTimeout  time.Duration `yaml:"dial_timeout,omitempty" json:"dial_timeout,omitempty"`
	ReadTimeout  time.Duration `yaml:"read_timeout,omitempty" json:"read_timeout,omitempty"`
	WriteTimeout time.Duration `yaml:"write_timeout,omitempty" json:"write_timeout,omitempty"`
}

// DynamoDBConfig contains DynamoDB sink configuration.
type DynamoDBConfig struct {
	Region          string `yaml:"region,omitempty" json:"region,omitempty"`
	TableName       string `yaml:"table_name,omitempty" json:"table_name,omitempty"`
	Endpoint        string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	AccessKeyID     string `yaml:"access_key_id,omitempty" json:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty" json:"secret_access_key,omitempty"`
}

// KafkaConfig contains Kafka sink configuration.
type KafkaConfig struct {
	Brokers         []string      `yaml:"brokers,omitempty" json:"brokers,omitempty"`
	Topic           string        `yaml:"topic,omitempty" json:"topic,omitempty"`
	BatchSize       int           `yaml:"batch_size,omitempty" json:"batch_size,omitempty"`
	BatchTimeout    time.Duration `yaml:"batch_timeout,omitempty" json:"batch_timeout,omitempty"`
	WriteTimeout    time.Duration `yaml:"write_timeout,omitempty" json:"write_timeout,omitempty"`
	RequiredAcks    int           `yaml:"required_acks,omitempty" json:"required_acks,omitempty"`
	MaxMessageBytes int           `yaml:"max_message_bytes,omitempty" json:"max_message_bytes,omitempty"`
}

// DefaultConfig returns a configuration with sensible defaults for a local MySQL.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Type:              "mysql",
			Host:              "localhost",
			Port:              3306,
			MaxOpenConns:      25,
			MaxIdleConns:      5,
			ConnMaxLifetime:   5 * time.Minute,
			ConnMaxIdleTime:   10 * time.Minute,
			ConnectionTimeout: 10 * time.Second,
		},
		Gateway: GatewayConfig{
			ForeignKeys: make(map[string][]string),
		},
		Export: ExportConfig{
			Rate:  50,
			Burst: 1,
			TTL:   1 * time.Hour,
		},
	}
}

// LoadConfig reads a YAML configuration file over DefaultConfig.
// Environment overrides (ROWGATE_*) are applied later, by Open.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" && ext != ".json" {
		return nil, fmt.Errorf("unsupported config file format: %s (supported: .yaml, .yml, .json)", ext)
	}

	// JSON is a subset of YAML
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}
