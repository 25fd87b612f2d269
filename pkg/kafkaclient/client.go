package kafkaclient

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"roamify/internal/logging"
)

// KafkaReader defines the interface for a Kafka message reader.
// This allows for easy mocking in unit tests.
type KafkaReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConsumer manages the Kafka reader and its message loop.
type KafkaConsumer struct {
	reader KafkaReader
	// cancel stops the consumer loop, including a blocked ReadMessage.
	cancel   context.CancelFunc
	stopOnce sync.Once
	wg       sync.WaitGroup
	// messageChan carries messages from the loop to Messages() callers.
	messageChan chan kafka.Message
	// retryDelay is the pause after a failed read.
	retryDelay time.Duration
}

func newConsumer(reader KafkaReader) *KafkaConsumer {
	return &KafkaConsumer{
		reader:      reader,
		messageChan: make(chan kafka.Message),
		retryDelay:  time.Second,
	}
}

// NewKafkaConsumer creates a consumer-group reader for topic.
func NewKafkaConsumer(topic, groupID string, brokers ...string) (*KafkaConsumer, error) {
	if topic == "" {
		return nil, errors.New("kafka topic is required")
	}
	if len(brokers) == 0 {
		return nil, errors.New("at least one kafka broker is required")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
		// Offsets are committed explicitly after processing.
		CommitInterval: 0,
		MinBytes:       1,
		MaxBytes:       10e6,
	})
	return newConsumer(reader), nil
}

func (kc *KafkaConsumer) Messages() <-chan kafka.Message {
	return kc.messageChan
}

func (kc *KafkaConsumer) CommitOffset(ctx context.Context, msg kafka.Message) error {
	logging.Debug().
		Str("topic", msg.Topic).
		Int("partition", msg.Partition).
		Int64("offset", msg.Offset).
		Msg("Committing offset")
	return kc.reader.CommitMessages(ctx, msg)
}

// StartConsuming begins the message loop in a separate goroutine. The
// Messages channel is closed when the loop exits.
func (kc *KafkaConsumer) StartConsuming(ctx context.Context) {
	ctx, kc.cancel = context.WithCancel(ctx)
	kc.wg.Add(1)
	go func() {
		defer kc.wg.Done()
		defer close(kc.messageChan)

		logging.Info().Msg("Starting Kafka consumer loop")
		for {
			msg, err := kc.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					logging.Info().Msg("Context canceled, stopping consumer loop")
					return
				}
				if errors.Is(err, io.EOF) {
					logging.Info().Msg("Kafka reader closed, stopping consumer loop")
					return
				}
				logging.Warn().Err(err).Msg("Error reading message")
				select {
				case <-time.After(kc.retryDelay):
				case <-ctx.Done():
					return
				}
				continue
			}

			select {
			case kc.messageChan <- msg:
				logging.Debug().
					Str("topic", msg.Topic).
					Int("partition", msg.Partition).
					Int64("offset", msg.Offset).
					Msg("Message received")
			case <-ctx.Done():
				logging.Info().Msg("Context canceled, dropping pending message")
				return
			}
		}
	}()
}

// Stop shuts the loop down and closes the reader. It is safe to call more
// than once.
func (kc *KafkaConsumer) Stop() {
	kc.stopOnce.Do(func() {
		logging.Info().Msg("Stopping Kafka consumer")
		if kc.cancel != nil {
			kc.cancel()
		}
		kc.wg.Wait()
		if err := kc.reader.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close Kafka reader")
		}
	})
}
