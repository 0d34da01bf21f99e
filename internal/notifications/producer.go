package notifications

import (
	"context"
	"fmt"
	"time"

	"seatline/pkg/logger"

	"github.com/IBM/sarama"
)

// Publisher hands committed booking changes to the message bus.
type Publisher interface {
	PublishBookingEvent(ctx context.Context, event *BookingEvent) error
	Close() error
}

// KafkaProducerConfig contains configuration for the booking event producer
type KafkaProducerConfig struct {
	Brokers          []string
	BookingTopic     string
	RetryMax         int
	Timeout          time.Duration
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          []string{"localhost:9092"},
		BookingTopic:     "booking-events",
		RetryMax:         3,
		Timeout:          10 * time.Second,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000, // 1MB
	}
}

// SaramaConfig translates the producer settings for sarama.
func (c *KafkaProducerConfig) SaramaConfig() *sarama.Config {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = c.RequiredAcks
	saramaConfig.Producer.Compression = c.CompressionType
	saramaConfig.Producer.Retry.Max = c.RetryMax
	saramaConfig.Producer.Timeout = c.Timeout
	saramaConfig.Producer.Idempotent = c.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = c.MaxMessageBytes

	// Idempotent producer requires a single in-flight request
	if c.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps one booking's messages on one partition
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner
	return saramaConfig
}

// KafkaBookingProducer publishes booking events to Kafka
type KafkaBookingProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewKafkaBookingProducer dials the brokers and returns a ready producer.
func NewKafkaBookingProducer(config *KafkaProducerConfig, log *logger.Logger) (*KafkaBookingProducer, error) {
	producer, err := sarama.NewSyncProducer(config.Brokers, config.SaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return NewBookingProducer(producer, config.BookingTopic, log), nil
}

// NewBookingProducer wraps an existing sync producer.
func NewBookingProducer(producer sarama.SyncProducer, topic string, log *logger.Logger) *KafkaBookingProducer {
	if log == nil {
		log = logger.GetDefault()
	}
	return &KafkaBookingProducer{producer: producer, topic: topic, log: log}
}

func (p *KafkaBookingProducer) PublishBookingEvent(ctx context.Context, event *BookingEvent) error {
	messageBytes, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.GetPartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   p.createHeaders(event),
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send booking event to Kafka: %w", err)
	}

	p.log.InfoWithContext(ctx, "Booking event published", map[string]interface{}{
		"topic":      p.topic,
		"partition":  partition,
		"offset":     offset,
		"type":       string(event.Type),
		"booking_id": event.BookingID.String(),
	})
	return nil
}

func (p *KafkaBookingProducer) createHeaders(event *BookingEvent) []sarama.RecordHeader {
	headers := []sarama.RecordHeader{
		{Key: []byte("message_id"), Value: []byte(event.ID.String())},
		{Key: []byte("event_type"), Value: []byte(event.Type)},
		{Key: []byte("booking_id"), Value: []byte(event.BookingID.String())},
		{Key: []byte("event_id"), Value: []byte(event.EventID.String())},
		{Key: []byte("producer"), Value: []byte("seatline-bookings")},
		{Key: []byte("occurred_at"), Value: []byte(event.OccurredAt.Format(time.RFC3339))},
	}
	if event.PaymentReference != nil {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte("payment_reference"),
			Value: []byte(*event.PaymentReference),
		})
	}
	return headers
}

func (p *KafkaBookingProducer) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}
