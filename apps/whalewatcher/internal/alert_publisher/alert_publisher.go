package alert_publisher

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/google/uuid"
	"github.com/internHannah/whale-tracker/apps/whalewatcher/internal/model"
	"go.uber.org/zap"
)

// WhaleAlert is the event published to Kafka for every transfer observed in a
// fetch cycle. Consumers compact by tx_hash.
type WhaleAlert struct {
	AlertID     string    `json:"alert_id"`
	TxHash      string    `json:"tx_hash"`
	FromAddress string    `json:"from_address"`
	ToAddress   string    `json:"to_address"`
	AssetSymbol string    `json:"asset_symbol"`
	Amount      float64   `json:"amount"`
	BlockNumber uint64    `json:"block_number"`
	Chain       string    `json:"chain"`
	ObservedAt  time.Time `json:"observed_at"`
}

// AlertPublisher publishes whale alerts to a Kafka topic
type AlertPublisher struct {
	logger        *zap.Logger
	kafkaProducer *kafka.Producer
	kafkaTopic    string
}

func NewAlertPublisher(kafkaBroker, kafkaTopic string, logger *zap.Logger) (*AlertPublisher, error) {
	// Setup Kafka producer
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": kafkaBroker,
		"acks":              "all",
		"retries":           3,
		"retry.backoff.ms":  100,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &AlertPublisher{
		logger:        logger,
		kafkaProducer: producer,
		kafkaTopic:    kafkaTopic,
	}, nil
}

// PublishAlerts publishes one alert per transfer. Failures are logged and
// skipped; a publish error never propagates back into the fetch cycle.
func (p *AlertPublisher) PublishAlerts(transfers []model.WhaleTransfer) {
	successCount := 0
	for _, transfer := range transfers {
		if err := p.publishAlert(transfer); err != nil {
			p.logger.Error("Failed to publish whale alert",
				zap.String("tx_hash", transfer.TxHash),
				zap.Error(err))
			continue
		}
		successCount++
	}

	if successCount > 0 {
		p.logger.Info("Published whale alerts", zap.Int("count", successCount))
	}
}

func (p *AlertPublisher) publishAlert(transfer model.WhaleTransfer) error {
	alert := WhaleAlert{
		AlertID:     uuid.New().String(),
		TxHash:      transfer.TxHash,
		FromAddress: transfer.FromAddress,
		ToAddress:   transfer.ToAddress,
		AssetSymbol: transfer.AssetSymbol,
		Amount:      transfer.Amount,
		BlockNumber: transfer.BlockNumber,
		Chain:       transfer.Chain,
		ObservedAt:  transfer.ObservedAt,
	}

	alertBlob, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	return p.kafkaProducer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &p.kafkaTopic,
			Partition: kafka.PartitionAny,
		},
		Key:   []byte(transfer.TxHash),
		Value: alertBlob,
	}, nil)
}

// Close flushes pending messages and shuts down the producer
func (p *AlertPublisher) Close() {
	p.kafkaProducer.Flush(5000)
	p.kafkaProducer.Close()
}
