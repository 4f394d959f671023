package kafka

import (
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Kafka topics used across the service.
const (
	TopicBalanceUpdate  = "kudi.balance.update"
	TopicWebhookPending = "kudi.webhook.pending"

	TopicDLQ = "kudi.dlq"
)

// Event types stored in the transaction outbox.
const (
	EventWebhookReceived    = "kudi.webhook.received"
	EventLedgerEntryCreated = "kudi.ledger.entry.created"
)

// Consumer group names.
const (
	GroupLedgerWorker  = "kudi.ledger.worker"
	GroupBalanceWorker = "kudi.balance.worker"
)

type Config struct {
	Brokers           []string
	ProducerTimeout   time.Duration
	RequiredAcks      kgo.Acks
	SessionTimeout    time.Duration
	HeartbeatInterval time.Duration
	MaxPollRecords    int
	MaxRetries        int
	RetryBackoff      time.Duration
}

func DefaultConfig(brokers []string) *Config {
	return &Config{
		Brokers:           brokers,
		ProducerTimeout:   10 * time.Second,
		RequiredAcks:      kgo.AllISRAcks(),
		SessionTimeout:    10 * time.Second,
		HeartbeatInterval: 3 * time.Second,
		MaxPollRecords:    100,
		MaxRetries:        5,
		RetryBackoff:      1 * time.Second,
	}
}
