package kafkaclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockReader simulates the kafka-go Reader for unit testing.
type mockReader struct {
	messages   chan kafka.Message
	commitChan chan kafka.Message
	done       chan struct{}
	failFirst  error

	mu     sync.Mutex
	reads  int
	closed bool
}

func newMockReader() *mockReader {
	return &mockReader{
		messages:   make(chan kafka.Message, 10),
		commitChan: make(chan kafka.Message, 10),
		done:       make(chan struct{}),
	}
}

// produce simulates count messages arriving on the topic.
func (mr *mockReader) produce(count int) {
	go func() {
		defer close(mr.messages)
		for i := 0; i < count; i++ {
			msg := kafka.Message{
				Topic:  "test-topic",
				Offset: int64(i),
				Value:  []byte(fmt.Sprintf("mock-message-%d", i)),
			}
			select {
			case mr.messages <- msg:
			case <-mr.done:
				return
			}
		}
	}()
}

func (mr *mockReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	mr.mu.Lock()
	mr.reads++
	first := mr.reads == 1
	mr.mu.Unlock()
	if first && mr.failFirst != nil {
		return kafka.Message{}, mr.failFirst
	}

	select {
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	case msg, ok := <-mr.messages:
		if !ok {
			return kafka.Message{}, io.EOF
		}
		return msg, nil
	}
}

func (mr *mockReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, msg := range msgs {
		mr.commitChan <- msg
	}
	return nil
}

func (mr *mockReader) Close() error {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	mr.closed = true
	close(mr.done)
	close(mr.commitChan)
	return nil
}

func (mr *mockReader) isClosed() bool {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	return mr.closed
}

func TestKafkaConsumer_ConsumeAndCommit(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	reader := newMockReader()
	consumer := newConsumer(reader)

	const expectedMessages = 3
	reader.produce(expectedMessages)
	consumer.StartConsuming(ctx)

	received := 0
	for msg := range consumer.Messages() {
		assert.Equal(t, fmt.Sprintf("mock-message-%d", received), string(msg.Value))
		require.NoError(t, consumer.CommitOffset(ctx, msg))
		received++
	}
	assert.Equal(t, expectedMessages, received)

	consumer.Stop()

	committed := 0
	for range reader.commitChan {
		committed++
	}
	assert.Equal(t, expectedMessages, committed)
}

func TestKafkaConsumer_GracefulShutdown(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	reader := newMockReader()
	consumer := newConsumer(reader)
	reader.produce(100)
	consumer.StartConsuming(ctx)

	for i := 0; i < 5; i++ {
		select {
		case <-consumer.Messages():
		case <-time.After(500 * time.Millisecond):
			t.Fatal("timed out waiting for a message")
		}
	}

	consumer.Stop()
	consumer.Stop()

	remaining := 0
	for range consumer.Messages() {
		remaining++
	}
	assert.Zero(t, remaining)
	assert.True(t, reader.isClosed())
}

func TestKafkaConsumer_RetriesAfterReadError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	reader := newMockReader()
	reader.failFirst = errors.New("broker not available")
	consumer := newConsumer(reader)
	consumer.retryDelay = time.Millisecond

	reader.produce(1)
	consumer.StartConsuming(ctx)

	var got []string
	for msg := range consumer.Messages() {
		got = append(got, string(msg.Value))
	}
	consumer.Stop()
	assert.Equal(t, []string{"mock-message-0"}, got)
}

func TestNewKafkaConsumer_Validation(t *testing.T) {
	_, err := NewKafkaConsumer("", "group", "localhost:9092")
	require.Error(t, err)
	_, err = NewKafkaConsumer("topic", "group")
	require.Error(t, err)
}
