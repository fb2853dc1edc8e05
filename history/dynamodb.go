package history

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/gurre/awsbind/aws"
)

// DynamoDBStore keeps the history in a DynamoDB table with partition key
// "Session" (S) and sort key "Seq" (N). Each process writes under its own session.
type DynamoDBStore struct {
	client  aws.DynamoDBClient
	table   string
	session string

	mu      sync.Mutex
	lastSeq int64
}

// item is the table representation of an Entry. Request and output are kept
// as JSON strings so they stay readable in the console.
type item struct {
	Session    string    `dynamodbav:"Session"`
	Seq        int64     `dynamodbav:"Seq"`
	Service    string    `dynamodbav:"Service"`
	Operation  string    `dynamodbav:"Operation"`
	Time       time.Time `dynamodbav:"Time"`
	DurationMs int64     `dynamodbav:"DurationMs"`
	Request    string    `dynamodbav:"Request,omitempty"`
	Output     string    `dynamodbav:"Output,omitempty"`
	ErrorKind  string    `dynamodbav:"ErrorKind,omitempty"`
	Error      string    `dynamodbav:"Error,omitempty"`
}

// NewDynamoDBStore creates a store for the table named by a ddb://table URI.
// An empty session defaults to a timestamp-based identifier.
func NewDynamoDBStore(client aws.DynamoDBClient, uri, session string) (*DynamoDBStore, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid DynamoDB URI: %w", err)
	}
	if u.Scheme != "ddb" {
		return nil, fmt.Errorf("invalid DynamoDB URI scheme: %s", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("DynamoDB URI must name a table: %s", uri)
	}
	if session == "" {
		session = time.Now().UTC().Format("20060102T150405.000000000Z")
	}

	return &DynamoDBStore{
		client:  client,
		table:   u.Host,
		session: session,
	}, nil
}

// Session returns the partition the store writes to.
func (d *DynamoDBStore) Session() string {
	return d.session
}

// nextSeq returns a strictly increasing sort key derived from the entry time.
func (d *DynamoDBStore) nextSeq(t time.Time) int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	seq := t.UnixNano()
	if seq <= d.lastSeq {
		seq = d.lastSeq + 1
	}
	d.lastSeq = seq
	return seq
}

// Append writes e as a new item.
func (d *DynamoDBStore) Append(ctx context.Context, e Entry) error {
	it := item{
		Session:    d.session,
		Seq:        d.nextSeq(e.Time),
		Service:    e.Service,
		Operation:  e.Operation,
		Time:       e.Time,
		DurationMs: e.Duration.Milliseconds(),
		Request:    string(e.Request),
		Output:     string(e.Output),
		ErrorKind:  e.ErrorKind,
		Error:      e.Error,
	}
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return fmt.Errorf("failed to encode history item: %w", err)
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &d.table,
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put history item: %w", err)
	}
	return nil
}

// List returns the entries of the store's session in write order.
func (d *DynamoDBStore) List(ctx context.Context) ([]Entry, error) {
	keyCond := "#s = :s"
	input := &dynamodb.QueryInput{
		TableName:                 &d.table,
		KeyConditionExpression:    &keyCond,
		ExpressionAttributeNames:  map[string]string{"#s": "Session"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":s": &types.AttributeValueMemberS{Value: d.session}},
	}

	var entries []Entry
	for {
		out, err := d.client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query history: %w", err)
		}

		var items []item
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to decode history items: %w", err)
		}
		for _, it := range items {
			entries = append(entries, Entry{
				Service:   it.Service,
				Operation: it.Operation,
				Time:      it.Time,
				Duration:  time.Duration(it.DurationMs) * time.Millisecond,
				Request:   rawOrNil(it.Request),
				Output:    rawOrNil(it.Output),
				ErrorKind: it.ErrorKind,
				Error:     it.Error,
			})
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
	return entries, nil
}

func rawOrNil(s string) []byte {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return []byte(s)
}
