package storage

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Attribute names of the items we store. The "id" attribute is the table's
// hash key and must be of string type.
const (
	ddbKeyAttribute   = "id"
	ddbValueAttribute = "value"
)

type ddbItem struct {
	ID    string `dynamodbav:"id"`
	Value string `dynamodbav:"value"`
}

// DynamoDBStore implements Store. Tables of the store are DynamoDB tables,
// which must exist already.
type DynamoDBStore struct {
	opts options
	ddb  dynamodbiface.DynamoDBAPI

	// Per-table throttling on our side based on provisioned RCUs/WCUs, so the
	// SDK doesn't have to retry. Only populated if throttling is enabled.
	mu       sync.Mutex
	limiters map[string]*ddbLimiterEntry
}

type ddbLimiters struct {
	get *rate.Limiter
	put *rate.Limiter
}

// ddbLimiterEntry is a table's limiters, available once ready is closed.
type ddbLimiterEntry struct {
	ready    chan struct{}
	limiters *ddbLimiters
	err      error
}

// NewDynamoDBStore creates a store talking to DynamoDB in the given region. An
// empty profile means the default credential chain (environment, shared
// config, instance or task role) is used.
func NewDynamoDBStore(profile, region string, opts ...Option) (*DynamoDBStore, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	sess, err := newSession(profile, region, o.endpoint)
	if err != nil {
		return nil, err
	}
	return NewDynamoDBStoreWithClient(dynamodb.New(sess), opts...), nil
}

func NewDynamoDBStoreWithClient(client dynamodbiface.DynamoDBAPI, opts ...Option) *DynamoDBStore {
	s := &DynamoDBStore{
		ddb:      client,
		limiters: make(map[string]*ddbLimiterEntry),
	}
	for _, o := range opts {
		o(&s.opts)
	}
	return s
}

func newSession(profile, region, endpoint string) (*session.Session, error) {
	config := &aws.Config{
		Region: aws.String(region),
	}
	if profile != "" {
		config.Credentials = credentials.NewSharedCredentials("", profile)
	}
	if endpoint != "" {
		config.Endpoint = aws.String(endpoint)
	}
	return session.NewSession(config)
}

// limitersFor returns the limiters of the table, describing it on first use.
// Concurrent first uses of a table share one describe call, and no lock is
// held during it. A failed describe is not remembered, so that a later request
// tries again.
func (s *DynamoDBStore) limitersFor(ctx context.Context, table string) (*ddbLimiters, error) {
	s.mu.Lock()
	e, ok := s.limiters[table]
	if !ok {
		e = &ddbLimiterEntry{ready: make(chan struct{})}
		s.limiters[table] = e
	}
	s.mu.Unlock()
	if !ok {
		e.limiters, e.err = s.describeLimiters(ctx, table)
		if e.err != nil {
			s.mu.Lock()
			delete(s.limiters, table)
			s.mu.Unlock()
		}
		close(e.ready)
	}
	select {
	case <-e.ready:
		return e.limiters, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *DynamoDBStore) describeLimiters(ctx context.Context, table string) (*ddbLimiters, error) {
	result, err := s.ddb.DescribeTableWithContext(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(table),
	})
	if err != nil {
		return nil, err
	}
	// Assume our items, that we get/put individually, are <= 1 kB, so that
	// RCUs/WCUs translate to get/put requests per second. On-demand tables
	// report zero capacity and are not throttled.
	var rcus, wcus int64
	if pt := result.Table.ProvisionedThroughput; pt != nil {
		rcus = aws.Int64Value(pt.ReadCapacityUnits)
		wcus = aws.Int64Value(pt.WriteCapacityUnits)
	}
	log.WithFields(log.Fields{
		"table": table,
		"rcus":  rcus,
		"wcus":  wcus,
	}).Debug("Configured limiters")
	return &ddbLimiters{
		get: newCapacityLimiter(rcus),
		put: newCapacityLimiter(wcus),
	}, nil
}

func newCapacityLimiter(units int64) *rate.Limiter {
	if units <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(units), 1)
}

func (s *DynamoDBStore) wait(ctx context.Context, table string, put bool) error {
	if !s.opts.throttle {
		return nil
	}
	l, err := s.limitersFor(ctx, table)
	if err != nil {
		return err
	}
	if put {
		return l.put.Wait(ctx)
	}
	return l.get.Wait(ctx)
}

func (s *DynamoDBStore) Put(ctx context.Context, table, key, value string) error {
	item, err := dynamodbattribute.MarshalMap(ddbItem{ID: key, Value: value})
	if err != nil {
		return newError("put", table, key, err)
	}
	if err := s.wait(ctx, table, true); err != nil {
		return awsError("put", table, key, err)
	}
	_, err = s.ddb.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	})
	if err != nil {
		return awsError("put", table, key, err)
	}
	return nil
}

func (s *DynamoDBStore) Get(ctx context.Context, table, key string) (value string, err error) {
	if err := s.wait(ctx, table, false); err != nil {
		return "", awsError("get", table, key, err)
	}
	output, err := s.ddb.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key: map[string]*dynamodb.AttributeValue{
			ddbKeyAttribute: {S: aws.String(key)},
		},
	})
	if err != nil {
		return "", awsError("get", table, key, err)
	}
	if output.Item == nil {
		return "", notFound(table, key)
	}
	attr, ok := output.Item[ddbValueAttribute]
	if !ok || attr.S == nil {
		log.WithFields(log.Fields{
			"table": table,
			"key":   key,
		}).Warn("Item has no string value, returning empty value")
		return "", nil
	}
	return *attr.S, nil
}

func awsError(op, table, key string, err error) *Error {
	e := newError(op, table, key, err)
	e.Code = awsCode(err)
	return e
}

func awsCode(err error) string {
	if e, ok := err.(awserr.Error); ok {
		return e.Code()
	}
	return ""
}
