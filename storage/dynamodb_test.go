package storage_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/nicolagi/kvgate/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamoDB implements the few DynamoDB operations the store uses, keeping
// items in memory. Calling any other operation panics.
type fakeDynamoDB struct {
	dynamodbiface.DynamoDBAPI

	mu       sync.Mutex
	tables   map[string]*fakeTable
	describe int
	failWith error

	// When set, describing gatedTable waits for describeGate to be closed.
	gatedTable   string
	describeGate chan struct{}
}

type fakeTable struct {
	rcus, wcus int64
	items      map[string]map[string]*dynamodb.AttributeValue
}

func newFakeDynamoDB() *fakeDynamoDB {
	return &fakeDynamoDB{tables: make(map[string]*fakeTable)}
}

func (f *fakeDynamoDB) createTable(name string, rcus, wcus int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables[name] = &fakeTable{
		rcus:  rcus,
		wcus:  wcus,
		items: make(map[string]map[string]*dynamodb.AttributeValue),
	}
}

func (f *fakeDynamoDB) table(name *string) (*fakeTable, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	t, ok := f.tables[aws.StringValue(name)]
	if !ok {
		return nil, awserr.New(dynamodb.ErrCodeResourceNotFoundException, "Requested resource not found", nil)
	}
	return t, nil
}

func (f *fakeDynamoDB) GetItemWithContext(_ aws.Context, in *dynamodb.GetItemInput, _ ...request.Option) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, err := f.table(in.TableName)
	if err != nil {
		return nil, err
	}
	return &dynamodb.GetItemOutput{Item: t.items[aws.StringValue(in.Key["id"].S)]}, nil
}

func (f *fakeDynamoDB) PutItemWithContext(_ aws.Context, in *dynamodb.PutItemInput, _ ...request.Option) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, err := f.table(in.TableName)
	if err != nil {
		return nil, err
	}
	t.items[aws.StringValue(in.Item["id"].S)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamoDB) DescribeTableWithContext(ctx aws.Context, in *dynamodb.DescribeTableInput, _ ...request.Option) (*dynamodb.DescribeTableOutput, error) {
	if f.describeGate != nil && aws.StringValue(in.TableName) == f.gatedTable {
		select {
		case <-f.describeGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.describe++
	t, err := f.table(in.TableName)
	if err != nil {
		return nil, err
	}
	return &dynamodb.DescribeTableOutput{
		Table: &dynamodb.TableDescription{
			TableName: in.TableName,
			ProvisionedThroughput: &dynamodb.ProvisionedThroughputDescription{
				ReadCapacityUnits:  aws.Int64(t.rcus),
				WriteCapacityUnits: aws.Int64(t.wcus),
			},
		},
	}, nil
}

func (f *fakeDynamoDB) putRaw(table, key string, item map[string]*dynamodb.AttributeValue) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables[table].items[key] = item
}

func TestDynamoDBStore(t *testing.T) {
	ctx := context.Background()

	t.Run("what you put is what you get", func(t *testing.T) {
		fake := newFakeDynamoDB()
		fake.createTable("users", 0, 0)
		store := storage.NewDynamoDBStoreWithClient(fake)
		require.Nil(t, store.Put(ctx, "users", "alice", "hello"))
		value, err := store.Get(ctx, "users", "alice")
		require.Nil(t, err)
		assert.Equal(t, "hello", value)
	})
	t.Run("items are stored with id and value string attributes", func(t *testing.T) {
		fake := newFakeDynamoDB()
		fake.createTable("users", 0, 0)
		store := storage.NewDynamoDBStoreWithClient(fake)
		require.Nil(t, store.Put(ctx, "users", "alice", "hello"))
		item := fake.tables["users"].items["alice"]
		require.NotNil(t, item)
		assert.Len(t, item, 2)
		assert.Equal(t, "alice", aws.StringValue(item["id"].S))
		assert.Equal(t, "hello", aws.StringValue(item["value"].S))
	})
	t.Run("missing item is not found", func(t *testing.T) {
		fake := newFakeDynamoDB()
		fake.createTable("users", 0, 0)
		store := storage.NewDynamoDBStoreWithClient(fake)
		_, err := store.Get(ctx, "users", "nobody")
		assert.True(t, errors.Is(err, storage.ErrNotFound))
	})
	t.Run("item without value reads as empty", func(t *testing.T) {
		fake := newFakeDynamoDB()
		fake.createTable("users", 0, 0)
		fake.putRaw("users", "alice", map[string]*dynamodb.AttributeValue{
			"id": {S: aws.String("alice")},
		})
		fake.putRaw("users", "bob", map[string]*dynamodb.AttributeValue{
			"id":    {S: aws.String("bob")},
			"value": {N: aws.String("42")},
		})
		store := storage.NewDynamoDBStoreWithClient(fake)
		for _, key := range []string{"alice", "bob"} {
			value, err := store.Get(ctx, "users", key)
			assert.Nil(t, err, key)
			assert.Equal(t, "", value, key)
		}
	})
	t.Run("missing table is a store error", func(t *testing.T) {
		store := storage.NewDynamoDBStoreWithClient(newFakeDynamoDB())
		_, err := store.Get(ctx, "nope", "alice")
		assert.False(t, errors.Is(err, storage.ErrNotFound))
		var serr *storage.Error
		require.True(t, errors.As(err, &serr))
		assert.Equal(t, dynamodb.ErrCodeResourceNotFoundException, serr.Code)
		assert.Equal(t, "get", serr.Op)
		assert.Equal(t, "nope", serr.Table)

		err = store.Put(ctx, "nope", "alice", "hello")
		require.True(t, errors.As(err, &serr))
		assert.Equal(t, "put", serr.Op)
	})
	t.Run("service errors carry their code", func(t *testing.T) {
		fake := newFakeDynamoDB()
		fake.createTable("users", 0, 0)
		fake.failWith = awserr.New(dynamodb.ErrCodeProvisionedThroughputExceededException, "slow down", nil)
		store := storage.NewDynamoDBStoreWithClient(fake)
		_, err := store.Get(ctx, "users", "alice")
		var serr *storage.Error
		require.True(t, errors.As(err, &serr))
		assert.Equal(t, dynamodb.ErrCodeProvisionedThroughputExceededException, serr.Code)
	})
}

func TestDynamoDBStoreThrottling(t *testing.T) {
	ctx := context.Background()

	t.Run("describes each table once", func(t *testing.T) {
		fake := newFakeDynamoDB()
		fake.createTable("users", 1000, 1000)
		fake.createTable("groups", 0, 0)
		store := storage.NewDynamoDBStoreWithClient(fake, storage.WithThrottling(true))
		for i := 0; i < 3; i++ {
			require.Nil(t, store.Put(ctx, "users", "alice", "hello"))
			_, err := store.Get(ctx, "users", "alice")
			require.Nil(t, err)
			require.Nil(t, store.Put(ctx, "groups", "admins", "alice"))
		}
		assert.Equal(t, 2, fake.describe)
	})
	t.Run("no describe without throttling", func(t *testing.T) {
		fake := newFakeDynamoDB()
		fake.createTable("users", 1, 1)
		store := storage.NewDynamoDBStoreWithClient(fake)
		require.Nil(t, store.Put(ctx, "users", "alice", "hello"))
		assert.Equal(t, 0, fake.describe)
	})
	t.Run("describe failure is a store error", func(t *testing.T) {
		store := storage.NewDynamoDBStoreWithClient(newFakeDynamoDB(), storage.WithThrottling(true))
		_, err := store.Get(ctx, "nope", "alice")
		var serr *storage.Error
		require.True(t, errors.As(err, &serr))
		assert.Equal(t, dynamodb.ErrCodeResourceNotFoundException, serr.Code)
	})
	t.Run("failed describe is tried again", func(t *testing.T) {
		fake := newFakeDynamoDB()
		store := storage.NewDynamoDBStoreWithClient(fake, storage.WithThrottling(true))
		for i := 0; i < 2; i++ {
			_, err := store.Get(ctx, "users", "alice")
			var serr *storage.Error
			require.True(t, errors.As(err, &serr))
		}
		fake.createTable("users", 1000, 1000)
		_, err := store.Get(ctx, "users", "alice")
		assert.True(t, errors.Is(err, storage.ErrNotFound))
		assert.Equal(t, 3, fake.describe)
	})
	t.Run("slow describe holds up only its own table", func(t *testing.T) {
		fake := newFakeDynamoDB()
		fake.createTable("slow", 1000, 1000)
		fake.createTable("fast", 1000, 1000)
		fake.gatedTable = "slow"
		fake.describeGate = make(chan struct{})
		store := storage.NewDynamoDBStoreWithClient(fake, storage.WithThrottling(true))

		done := make(chan error, 1)
		go func() {
			done <- store.Put(ctx, "slow", "alice", "hello")
		}()

		fastCtx, cancelFast := context.WithTimeout(ctx, 5*time.Second)
		defer cancelFast()
		require.Nil(t, store.Put(fastCtx, "fast", "alice", "hello"))

		// Waiting on the describe still honors the request's own deadline.
		slowCtx, cancelSlow := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancelSlow()
		_, err := store.Get(slowCtx, "slow", "alice")
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
		var serr *storage.Error
		assert.True(t, errors.As(err, &serr))

		close(fake.describeGate)
		require.Nil(t, <-done)
		value, err := store.Get(ctx, "slow", "alice")
		require.Nil(t, err)
		assert.Equal(t, "hello", value)
	})
	t.Run("cancelled wait is a store error", func(t *testing.T) {
		fake := newFakeDynamoDB()
		fake.createTable("users", 1, 1)
		store := storage.NewDynamoDBStoreWithClient(fake, storage.WithThrottling(true))
		// Configure the limiters first.
		require.Nil(t, store.Put(ctx, "users", "alice", "hello"))
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := store.Get(cancelled, "users", "alice")
		assert.True(t, errors.Is(err, context.Canceled))
		var serr *storage.Error
		assert.True(t, errors.As(err, &serr))
	})
}
