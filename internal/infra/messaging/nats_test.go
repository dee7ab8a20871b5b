package messaging

import (
	"context"
	"testing"

	"github.com/daffahilmyf/mdd-seed/internal/config"
	"github.com/daffahilmyf/mdd-seed/internal/domain/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNATSDisabledWithoutURL(t *testing.T) {
	client, err := NewNATS(context.Background(), config.NATS{})
	require.NoError(t, err)
	assert.Nil(t, client)

	var publisher service.EventPublisher = client
	assert.NoError(t, publisher.PublishBatchCommitted(context.Background(), service.BatchCommitted{BatchID: "b"}))
	client.Close()
}

func TestNewNATSRequiresSubject(t *testing.T) {
	_, err := NewNATS(context.Background(), config.NATS{URL: "nats://127.0.0.1:4222", Stream: "seed"})
	assert.Error(t, err)
}

func TestSameSubjects(t *testing.T) {
	assert.True(t, sameSubjects([]string{"a", "b"}, []string{"b", "a"}))
	assert.False(t, sameSubjects([]string{"a"}, []string{"a", "b"}))
	assert.False(t, sameSubjects([]string{"a", "a"}, []string{"a", "b"}))
}

func TestDecodeBatchCommitted(t *testing.T) {
	event, err := DecodeBatchCommitted([]byte(`{"batch_id":"b-1","users":15,"articles":120,"comments":300,"manifest":"out.json"}`))
	require.NoError(t, err)
	assert.Equal(t, "b-1", event.BatchID)
	assert.Equal(t, 15, event.Users)
	assert.Equal(t, 120, event.Articles)

	_, err = DecodeBatchCommitted([]byte(`{"users":1}`))
	assert.Error(t, err)

	_, err = DecodeBatchCommitted([]byte(`not json`))
	assert.Error(t, err)
}

func TestConsumeRequiresConnection(t *testing.T) {
	var client *NATSClient
	err := client.ConsumeBatchCommitted(context.Background(), func(service.BatchCommitted) error { return nil })
	assert.Error(t, err)
}
