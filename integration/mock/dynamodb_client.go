package mock

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBClient is a mock implementation of aws.DynamoDBClient for tables
// keyed by a string partition key and a numeric sort key.
type DynamoDBClient struct {
	// Partition and sort key attribute names
	PartitionKey string
	SortKey      string
	// PageSize limits the items per Query page; zero means unlimited
	PageSize int

	// tableName -> items
	tableData map[string][]map[string]types.AttributeValue
	queries   int
	mu        sync.RWMutex
}

// NewDynamoDBClient creates a new mock DynamoDB client for the given key schema
func NewDynamoDBClient(partitionKey, sortKey string) *DynamoDBClient {
	return &DynamoDBClient{
		PartitionKey: partitionKey,
		SortKey:      sortKey,
		tableData:    make(map[string][]map[string]types.AttributeValue),
	}
}

func stringAttr(av types.AttributeValue) string {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return v.Value
	}
	return ""
}

func (m *DynamoDBClient) sortValue(item map[string]types.AttributeValue) int64 {
	n, _ := strconv.ParseInt(stringAttr(item[m.SortKey]), 10, 64)
	return n
}

// PutItem stores the item, replacing any item with the same key
func (m *DynamoDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	table := aws.ToString(params.TableName)
	pk := stringAttr(params.Item[m.PartitionKey])
	sk := m.sortValue(params.Item)
	if pk == "" {
		return nil, fmt.Errorf("mock DynamoDB: item has no %s", m.PartitionKey)
	}

	items := m.tableData[table]
	for i, it := range items {
		if stringAttr(it[m.PartitionKey]) == pk && m.sortValue(it) == sk {
			items[i] = params.Item
			return &dynamodb.PutItemOutput{}, nil
		}
	}
	m.tableData[table] = append(items, params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

// Query returns the items whose partition key equals the ":s" expression value,
// ordered by sort key and paged by PageSize.
func (m *DynamoDBClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.mu.Lock()
	m.queries++
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	want := stringAttr(params.ExpressionAttributeValues[":s"])
	var matched []map[string]types.AttributeValue
	for _, it := range m.tableData[aws.ToString(params.TableName)] {
		if stringAttr(it[m.PartitionKey]) == want {
			matched = append(matched, it)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return m.sortValue(matched[i]) < m.sortValue(matched[j])
	})

	if params.ExclusiveStartKey != nil {
		after := m.sortValue(params.ExclusiveStartKey)
		start := len(matched)
		for i, it := range matched {
			if m.sortValue(it) > after {
				start = i
				break
			}
		}
		matched = matched[start:]
	}

	out := &dynamodb.QueryOutput{}
	if m.PageSize > 0 && len(matched) > m.PageSize {
		matched = matched[:m.PageSize]
		last := matched[len(matched)-1]
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			m.PartitionKey: last[m.PartitionKey],
			m.SortKey:      last[m.SortKey],
		}
	}
	out.Items = matched
	out.Count = int32(len(matched))
	return out, nil
}

// Queries returns the number of Query calls
func (m *DynamoDBClient) Queries() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.queries
}

// GetTableContents returns the items of a table for verification
func (m *DynamoDBClient) GetTableContents(tableName string) []map[string]types.AttributeValue {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]map[string]types.AttributeValue(nil), m.tableData[tableName]...)
}
