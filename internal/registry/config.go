package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rzpsarthak13/rowgate/internal/schema"
)

// EnvPrefix is the prefix of every environment variable read by LoadFromEnv.
const EnvPrefix = "ROWGATE_"

// ConfigValidator is the Strategy interface for validating configuration.
// Each export sink (Redis, DynamoDB, Kafka, memory) provides its own validator
// for its part of the export section.
type ConfigValidator interface {
	// Validate validates the sink-specific part of the configuration.
	Validate(config *InternalConfig) error

	// Type returns the sink type this validator handles (e.g., "redis", "kafka").
	Type() string
}

var (
	// validatorRegistry stores all registered config validators.
	validatorRegistry = make(map[string]ConfigValidator)

	// validatorRegistryMutex protects the validator registry from concurrent access.
	validatorRegistryMutex sync.RWMutex
)

// ValidationStrategyRegistry provides methods to register and retrieve config validators.
type ValidationStrategyRegistry struct{}

// Register registers a config validator.
// Panics if validator is nil, type is empty, or type is already registered.
func (r *ValidationStrategyRegistry) Register(validator ConfigValidator) {
	if validator == nil {
		panic("validator cannot be nil")
	}
	if validator.Type() == "" {
		panic("validator type cannot be empty")
	}

	validatorRegistryMutex.Lock()
	defer validatorRegistryMutex.Unlock()

	if _, exists := validatorRegistry[validator.Type()]; exists {
		panic(fmt.Sprintf("validator for type %q is already registered", validator.Type()))
	}

	validatorRegistry[validator.Type()] = validator
}

// Get retrieves a validator by type.
func (r *ValidationStrategyRegistry) Get(validatorType string) (ConfigValidator, bool) {
	validatorRegistryMutex.RLock()
	defer validatorRegistryMutex.RUnlock()

	validator, exists := validatorRegistry[validatorType]
	return validator, exists
}

// RegisterValidator registers a validator in the default registry.
// This is the preferred way to register validators from init() functions.
func RegisterValidator(validator ConfigValidator) {
	defaultValidationRegistry.Register(validator)
}

// GetValidator retrieves a validator by type from the default registry.
func GetValidator(validatorType string) (ConfigValidator, bool) {
	return defaultValidationRegistry.Get(validatorType)
}

var defaultValidationRegistry = &ValidationStrategyRegistry{}

// ConfigManager handles loading and managing configuration from various sources.
type ConfigManager struct {
	config *InternalConfig
}

// NewConfigManager creates a new configuration manager with default configuration.
func NewConfigManager() *ConfigManager {
	return &ConfigManager{
		config: DefaultInternalConfig(),
	}
}

// DefaultInternalConfig returns a configuration with sensible defaults.
func DefaultInternalConfig() *InternalConfig {
	return &InternalConfig{
		Database: InternalDatabaseConfig{
			Type:              "mysql",
			Host:              "localhost",
			Port:              3306,
			MaxOpenConns:      25,
			MaxIdleConns:      5,
			ConnMaxLifetime:   5 * time.Minute,
			ConnMaxIdleTime:   10 * time.Minute,
			ConnectionTimeout: 10 * time.Second,
		},
		Gateway: InternalGatewayConfig{
			ForeignKeys: make(map[string][]string),
		},
		Export: InternalExportConfig{
			Rate:  50,
			Burst: 1,
			TTL:   1 * time.Hour,
			Redis: InternalRedisConfig{
				Endpoints:    []string{"localhost:6379"},
				PoolSize:     10,
				MinIdleConns: 5,
				DialTimeout:  5 * time.Second,
				ReadTimeout:  3 * time.Second,
				WriteTimeout: 3 * time.Second,
			},
			Kafka: InternalKafkaConfig{
				Brokers:         []string{"localhost:9092"},
				Topic:           "rowgate-export",
				BatchSize:       100,
				BatchTimeout:    10 * time.Millisecond,
				WriteTimeout:    10 * time.Second,
				RequiredAcks:    -1,      // All replicas
				MaxMessageBytes: 1000000, // 1MB
			},
		},
	}
}

// LoadFromFile loads configuration from a YAML or JSON file.
// The file format is determined by the file extension (.yaml, .yml, or .json).
func (cm *ConfigManager) LoadFromFile(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".yaml", ".yml":
		return cm.LoadFromYAML(data)
	case ".json":
		return cm.LoadFromJSON(data)
	default:
		return fmt.Errorf("unsupported config file format: %s (supported: .yaml, .yml, .json)", ext)
	}
}

// LoadFromYAML loads configuration from YAML data.
func (cm *ConfigManager) LoadFromYAML(data []byte) error {
	config := DefaultInternalConfig()
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	if err := cm.validateConfig(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cm.config = config
	return nil
}

// LoadFromJSON loads configuration from JSON data.
func (cm *ConfigManager) LoadFromJSON(data []byte) error {
	config := DefaultInternalConfig()
	if len(data) > 0 {
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse JSON config: %w", err)
		}
	}

	if err := cm.validateConfig(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cm.config = config
	return nil
}

// LoadFromEnv overrides the current configuration with environment variables.
// Environment variables follow the pattern: ROWGATE_<SECTION>_<KEY>
// Examples:
//   - ROWGATE_DATABASE_TYPE=sqlite3
//   - ROWGATE_DATABASE_PATH=/var/lib/app.db
//   - ROWGATE_GATEWAY_TABLES=Town,Client:idClient
//   - ROWGATE_GATEWAY_FOREIGN_KEYS=Client=Town;Order=Client,Product
//   - ROWGATE_EXPORT_SINK_TYPE=redis
func (cm *ConfigManager) LoadFromEnv() error {
	config := *cm.config

	// Database configuration
	envString("DATABASE_TYPE", &config.Database.Type)
	envString("DATABASE_HOST", &config.Database.Host)
	envInt("DATABASE_PORT", &config.Database.Port)
	envString("DATABASE_DATABASE", &config.Database.Database)
	envString("DATABASE_USERNAME", &config.Database.Username)
	envString("DATABASE_PASSWORD", &config.Database.Password)
	envString("DATABASE_PATH", &config.Database.Path)
	envInt("DATABASE_MAX_OPEN_CONNS", &config.Database.MaxOpenConns)
	envInt("DATABASE_MAX_IDLE_CONNS", &config.Database.MaxIdleConns)
	envDuration("DATABASE_CONNECTION_TIMEOUT", &config.Database.ConnectionTimeout)

	// Gateway configuration
	envString("GATEWAY_NAMESPACE", &config.Gateway.Namespace)
	if val := os.Getenv(EnvPrefix + "GATEWAY_TABLES"); val != "" {
		config.Gateway.Tables = parseTableList(val)
	}
	if val := os.Getenv(EnvPrefix + "GATEWAY_FOREIGN_KEYS"); val != "" {
		config.Gateway.ForeignKeys = parseForeignKeys(val)
	}
	envBool("GATEWAY_VALIDATE_FOREIGN_KEYS", &config.Gateway.ValidateForeignKeys)

	// Export configuration
	envString("EXPORT_SINK_TYPE", &config.Export.SinkType)
	envString("EXPORT_NAMESPACE", &config.Export.Namespace)
	envInt("EXPORT_RATE", &config.Export.Rate)
	envInt("EXPORT_BURST", &config.Export.Burst)
	envDuration("EXPORT_TTL", &config.Export.TTL)
	if val := os.Getenv(EnvPrefix + "EXPORT_REDIS_ENDPOINTS"); val != "" {
		config.Export.Redis.Endpoints = strings.Split(val, ",")
	}
	envString("EXPORT_REDIS_PASSWORD", &config.Export.Redis.Password)
	envInt("EXPORT_REDIS_DB", &config.Export.Redis.DB)
	envString("EXPORT_DYNAMODB_REGION", &config.Export.DynamoDB.Region)
	envString("EXPORT_DYNAMODB_TABLE_NAME", &config.Export.DynamoDB.TableName)
	envString("EXPORT_DYNAMODB_ENDPOINT", &config.Export.DynamoDB.Endpoint)
	if val := os.Getenv(EnvPrefix + "EXPORT_KAFKA_BROKERS"); val != "" {
		config.Export.Kafka.Brokers = strings.Split(val, ",")
	}
	envString("EXPORT_KAFKA_TOPIC", &config.Export.Kafka.Topic)

	if err := cm.validateConfig(&config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cm.config = &config
	return nil
}

func envString(key string, dst *string) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		*dst = val
	}
}

func envInt(key string, dst *int) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		var n int
		if _, err := fmt.Sscanf(val, "%d", &n); err == nil {
			*dst = n
		}
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		*dst = (val == "true" || val == "1")
	}
}

func envDuration(key string, dst *time.Duration) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

// parseTableList parses "Town,Client:idClient" into table registrations.
func parseTableList(val string) []InternalTableConfig {
	var tables []InternalTableConfig
	for _, item := range strings.Split(val, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, key, _ := strings.Cut(item, ":")
		tables = append(tables, InternalTableConfig{Name: name, PrimaryKey: key})
	}
	return tables
}

// parseForeignKeys parses "Client=Town;Order=Client,Product" into a foreign key map.
func parseForeignKeys(val string) map[string][]string {
	fks := make(map[string][]string)
	for _, item := range strings.Split(val, ";") {
		table, refs, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok || table == "" {
			continue
		}
		for _, ref := range strings.Split(refs, ",") {
			if ref = strings.TrimSpace(ref); ref != "" {
				fks[table] = append(fks[table], ref)
			}
		}
	}
	return fks
}

// GetConfig returns the current internal configuration.
func (cm *ConfigManager) GetConfig() *InternalConfig {
	return cm.config
}

// validateConfig validates the configuration and returns an error if invalid.
// Sink validation uses the Strategy registry keyed by export.sink_type.
func (cm *ConfigManager) validateConfig(config *InternalConfig) error {
	// Validate Database configuration
	switch config.Database.Type {
	case "":
		return fmt.Errorf("database.type is required")
	case "mysql":
		if config.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if config.Database.Port <= 0 || config.Database.Port > 65535 {
			return fmt.Errorf("database.port must be between 1 and 65535")
		}
		if config.Database.Database == "" {
			return fmt.Errorf("database.database is required")
		}
		if config.Database.Username == "" {
			return fmt.Errorf("database.username is required")
		}
		if config.Database.MaxOpenConns <= 0 {
			return fmt.Errorf("database.max_open_conns must be greater than 0")
		}
	case "sqlite3":
		if config.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite3")
		}
	default:
		return fmt.Errorf("database.type must be 'mysql' or 'sqlite3'")
	}

	// Validate Gateway configuration
	validator := schema.NewSchemaValidator()
	seen := make(map[string]bool, len(config.Gateway.Tables))
	for i, table := range config.Gateway.Tables {
		if err := validator.ValidateIdentifier(table.Name); err != nil {
			return fmt.Errorf("gateway.tables[%d].name: %w", i, err)
		}
		if table.PrimaryKey != "" {
			if err := validator.ValidateIdentifier(table.PrimaryKey); err != nil {
				return fmt.Errorf("gateway.tables[%d].primary_key: %w", i, err)
			}
		}
		if seen[table.Name] {
			return fmt.Errorf("gateway.tables: table %q is listed twice", table.Name)
		}
		seen[table.Name] = true
	}
	for table, refs := range config.Gateway.ForeignKeys {
		if err := validator.ValidateIdentifier(table); err != nil {
			return fmt.Errorf("gateway.foreign_keys: %w", err)
		}
		for _, ref := range refs {
			if err := validator.ValidateIdentifier(ref); err != nil {
				return fmt.Errorf("gateway.foreign_keys[%s]: %w", table, err)
			}
		}
	}

	// Validate Export configuration
	if config.Export.SinkType == "" {
		return nil
	}
	if config.Export.Rate <= 0 {
		return fmt.Errorf("export.rate must be greater than 0")
	}
	if config.Export.Burst <= 0 {
		return fmt.Errorf("export.burst must be greater than 0")
	}
	if config.Export.TTL < 0 {
		return fmt.Errorf("export.ttl must be non-negative")
	}

	sinkValidator, exists := GetValidator(config.Export.SinkType)
	if !exists {
		return fmt.Errorf("unsupported sink type: %s", config.Export.SinkType)
	}
	if err := sinkValidator.Validate(config); err != nil {
		return fmt.Errorf("export validation failed: %w", err)
	}

	return nil
}
