package sink

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/rzpsarthak13/rowgate/internal/core"
	"github.com/rzpsarthak13/rowgate/internal/registry"
)

// DynamoDBAPI is the subset of the DynamoDB client used by DynamoDBSink.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoDBItem represents an exported object stored in DynamoDB.
type DynamoDBItem struct {
	Key       string `dynamodbav:"key"`
	Table     string `dynamodbav:"table"`
	Value     []byte `dynamodbav:"value"`
	TTL       *int64 `dynamodbav:"ttl,omitempty"`
	CreatedAt string `dynamodbav:"created_at"`
}

// DynamoDBSink implements core.Sink using AWS DynamoDB.
type DynamoDBSink struct {
	mu        sync.RWMutex
	client    DynamoDBAPI
	tableName string
	ttl       time.Duration
	now       func() time.Time
	closed    bool
}

// NewDynamoDBSink creates a DynamoDB client and checks that the target table exists.
func NewDynamoDBSink(cfg registry.InternalDynamoDBConfig, ttl time.Duration) (*DynamoDBSink, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("region is required")
	}
	if cfg.TableName == "" {
		return nil, fmt.Errorf("table name is required")
	}

	// Load AWS config
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Override credentials if provided
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	clientOptions := []func(*dynamodb.Options){}
	if cfg.Endpoint != "" {
		// Custom endpoint (e.g., for LocalStack)
		clientOptions = append(clientOptions, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}
	client := dynamodb.NewFromConfig(awsCfg, clientOptions...)

	// Test connection by describing the table
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(cfg.TableName),
	}); err != nil {
		return nil, fmt.Errorf("failed to connect to DynamoDB table %s: %w", cfg.TableName, err)
	}

	return NewDynamoDBSinkFromClient(client, cfg.TableName, ttl), nil
}

// NewDynamoDBSinkFromClient wraps an existing client.
func NewDynamoDBSinkFromClient(client DynamoDBAPI, tableName string, ttl time.Duration) *DynamoDBSink {
	return &DynamoDBSink{
		client:    client,
		tableName: tableName,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Put stores an item keyed by key. A positive TTL is written as the epoch
// seconds "ttl" attribute used by DynamoDB time-to-live.
func (d *DynamoDBSink) Put(ctx context.Context, table string, key string, value []byte) error {
	if err := checkEntry(key, value); err != nil {
		return err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrSinkClosed
	}

	log.Printf("[DYNAMODB] PUT operation - Key: %s, Value Size: %d bytes, TTL: %v", key, len(value), d.ttl)

	now := d.now()
	item := DynamoDBItem{
		Key:       key,
		Table:     table,
		Value:     value,
		CreatedAt: now.UTC().Format(time.RFC3339),
	}
	if d.ttl > 0 {
		expiresAt := now.Add(d.ttl).Unix()
		item.TTL = &expiresAt
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item for key %s: %w", key, err)
	}

	if _, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      av,
	}); err != nil {
		log.Printf("[DYNAMODB] ERROR: Failed to put key %s: %v", key, err)
		return fmt.Errorf("failed to put key %s: %w", key, err)
	}
	return nil
}

// Close marks the sink closed. The DynamoDB client needs no explicit closing.
func (d *DynamoDBSink) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// DynamoDBSinkFactory implements the SinkFactory interface for DynamoDB.
type DynamoDBSinkFactory struct{}

// Type returns the type identifier for this factory.
func (f *DynamoDBSinkFactory) Type() string {
	return "dynamodb"
}

// Validate validates the DynamoDB-specific configuration.
func (f *DynamoDBSinkFactory) Validate(config registry.InternalExportConfig) error {
	if config.SinkType != "dynamodb" {
		return fmt.Errorf("invalid type for DynamoDB factory: %s", config.SinkType)
	}
	if config.DynamoDB.Region == "" {
		return fmt.Errorf("region is required for DynamoDB")
	}
	if config.DynamoDB.TableName == "" {
		return fmt.Errorf("table_name is required for DynamoDB")
	}
	if (config.DynamoDB.AccessKeyID == "") != (config.DynamoDB.SecretAccessKey == "") {
		return fmt.Errorf("access_key_id and secret_access_key must be set together")
	}
	return nil
}

// Create creates a new DynamoDB sink.
func (f *DynamoDBSinkFactory) Create(config registry.InternalExportConfig) (core.Sink, error) {
	s, err := NewDynamoDBSink(config.DynamoDB, config.TTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB sink: %w", err)
	}
	return s, nil
}

func init() {
	register(&DynamoDBSinkFactory{})
}
