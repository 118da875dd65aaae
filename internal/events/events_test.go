package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_EncodesPayload(t *testing.T) {
	id := uuid.New()
	e, err := New(ProductCreated, id, map[string]string{"sku": "TR2X0001"})
	require.NoError(t, err)

	assert.Equal(t, ProductCreated, e.Type)
	assert.Equal(t, id.String(), e.AggregateID)
	assert.JSONEq(t, `{"sku":"TR2X0001"}`, string(e.Payload))
	assert.WithinDuration(t, time.Now(), e.OccurredAt, time.Minute)

	bare, err := New(BrandDeleted, id, nil)
	require.NoError(t, err)
	data, err := json.Marshal(bare)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "payload")
}

type fakeEventBridge struct {
	inputs []*eventbridge.PutEventsInput
	output *eventbridge.PutEventsOutput
	err    error
}

func (f *fakeEventBridge) PutEvents(ctx context.Context, in *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	if f.output != nil {
		return f.output, nil
	}
	return &eventbridge.PutEventsOutput{}, nil
}

func TestEventBridgePublisher_Publish(t *testing.T) {
	client := &fakeEventBridge{}
	p := NewEventBridgePublisher(client, "catalog-bus", "catalog-service", zap.NewNop())

	e, err := New(ProductDeleted, uuid.New(), nil)
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), e))

	require.Len(t, client.inputs, 1)
	entry := client.inputs[0].Entries[0]
	assert.Equal(t, "catalog-bus", aws.ToString(entry.EventBusName))
	assert.Equal(t, "catalog-service", aws.ToString(entry.Source))
	assert.Equal(t, ProductDeleted, aws.ToString(entry.DetailType))

	var detail Event
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(entry.Detail)), &detail))
	assert.Equal(t, e.ID, detail.ID)
}

func TestEventBridgePublisher_ReportsFailedEntries(t *testing.T) {
	client := &fakeEventBridge{output: &eventbridge.PutEventsOutput{
		FailedEntryCount: 1,
		Entries: []types.PutEventsResultEntry{{
			ErrorCode:    aws.String("InternalFailure"),
			ErrorMessage: aws.String("try again"),
		}},
	}}
	p := NewEventBridgePublisher(client, "bus", "src", zap.NewNop())

	e, _ := New(BrandDeleted, uuid.New(), nil)
	assert.Error(t, p.Publish(context.Background(), e))

	client.output, client.err = nil, errors.New("throttled")
	assert.Error(t, p.Publish(context.Background(), e))
}

func TestRedisPublisher_Publish(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx := context.Background()

	sub := client.Subscribe(ctx, "catalog:events")
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	p := NewRedisPublisher(client, "catalog:events", zap.NewNop())
	e, _ := New(CategoryDeleted, uuid.New(), nil)
	require.NoError(t, p.Publish(ctx, e))

	select {
	case msg := <-sub.Channel():
		var got Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, e.ID, got.ID)
		assert.Equal(t, CategoryDeleted, got.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("event not received")
	}
}

func TestLogPublisher_Publish(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewLogPublisher(zap.New(core))

	e, _ := New(ProductUpdated, uuid.New(), nil)
	require.NoError(t, p.Publish(context.Background(), e))

	entries := logs.FilterField(zap.String("type", ProductUpdated)).All()
	assert.Len(t, entries, 1)
}
