package registry

import (
	"time"
)

// InternalConfig represents the internal configuration structure.
// This is a copy of the public Config type to avoid import cycles.
type InternalConfig struct {
	Database InternalDatabaseConfig `yaml:"database" json:"database"`
	Gateway  InternalGatewayConfig  `yaml:"gateway" json:"gateway"`
	Export   InternalExportConfig   `yaml:"export" json:"export"`
}

// InternalDatabaseConfig contains configuration for the relational database.
type InternalDatabaseConfig struct {
	Type              string        `yaml:"type" json:"type"` // "mysql" or "sqlite3"
	Host              string        `yaml:"host" json:"host"`
	Port              int           `yaml:"port" json:"port"`
	Database          string        `yaml:"database" json:"database"`
	Username          string        `yaml:"username" json:"username"`
	Password          string        `yaml:"password" json:"password"`
	Path              string        `yaml:"path,omitempty" json:"path,omitempty"` // sqlite3 only
	MaxOpenConns      int           `yaml:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns      int           `yaml:"max_idle_conns" json:"max_idle_conns"`
	ConnMaxLifetime   time.Duration `yaml:"conn_max_lifetime" json:"conn_max_lifetime"`
	ConnMaxIdleTime   time.Duration `yaml:"conn_max_idle_time" json:"conn_max_idle_time"`
	ConnectionTimeout time.Duration `yaml:"connection_timeout" json:"connection_timeout"`
}

// InternalGatewayConfig describes the tables exposed by a gateway.
type InternalGatewayConfig struct {
	Namespace           string                `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	Tables              []InternalTableConfig `yaml:"tables" json:"tables"`
	ForeignKeys         map[string][]string   `yaml:"foreign_keys,omitempty" json:"foreign_keys,omitempty"`
	ValidateForeignKeys bool                  `yaml:"validate_foreign_keys" json:"validate_foreign_keys"`
}

// InternalTableConfig contains the registration of a single table.
type InternalTableConfig struct {
	Name       string `yaml:"name" json:"name"`
	PrimaryKey string `yaml:"primary_key,omitempty" json:"primary_key,omitempty"`
}

// InternalExportConfig contains configuration for exporting resolved objects to a sink.
// An empty SinkType disables export.
type InternalExportConfig struct {
	SinkType  string                 `yaml:"sink_type" json:"sink_type"`
	Namespace string                 `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	Rate      int                    `yaml:"rate" json:"rate"` // objects per second
	Burst     int                    `yaml:"burst" json:"burst"`
	TTL       time.Duration          `yaml:"ttl" json:"ttl"`
	Redis     InternalRedisConfig    `yaml:"redis,omitempty" json:"redis,omitempty"`
	DynamoDB  InternalDynamoDBConfig `yaml:"dynamodb,omitempty" json:"dynamodb,omitempty"`
	Kafka     InternalKafkaConfig    `yaml:"kafka,omitempty" json:"kafka,omitempty"`
}

// InternalRedisConfig contains Redis-specific configuration.
type InternalRedisConfig struct {
	Endpoints    []string      `yaml:"endpoints" json:"endpoints"`
	Password     string        `yaml:"password,omitempty" json:"password,omitempty"`
	DB           int           `yaml:"db" json:"db"`
	PoolSize     int           `yaml:"pool_size" json:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns" json:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout" json:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
}

// InternalDynamoDBConfig contains DynamoDB-specific configuration.
type InternalDynamoDBConfig struct {
	Region          string `yaml:"region" json:"region"`
	TableName       string `yaml:"table_name" json:"table_name"`
	Endpoint        string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	AccessKeyID     string `yaml:"access_key_id,omitempty" json:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty" json:"secret_access_key,omitempty"`
}

// InternalKafkaConfig contains Kafka-specific configuration.
type InternalKafkaConfig struct {
	Brokers         []string      `yaml:"brokers" json:"brokers"`
	Topic           string        `yaml:"topic" json:"topic"`
	BatchSize       int           `yaml:"batch_size" json:"batch_size"`
	BatchTimeout    time.Duration `yaml:"batch_timeout" json:"batch_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout"`
	RequiredAcks    int           `yaml:"required_acks" json:"required_acks"`
	MaxMessageBytes int           `yaml:"max_message_bytes" json:"max_message_bytes"`
}
