package messaging

import (
	"encoding/json"

	"delivery-service/src/internal/model"
	kafka "delivery-service/src/pkg/kafka/confluent"
	"delivery-service/src/pkg/log"

	k "gopkg.in/confluentinc/confluent-kafka-go.v1/kafka"
)

type Producer[T model.Event] struct {
	Producer kafka.Producer
	Topic    string
	Log      log.Log
}

func (p *Producer[T]) GetTopic() *string {
	return &p.Topic
}

// Send publishes the event as JSON keyed by GetId. With no Kafka producer
// configured the event is dropped.
func (p *Producer[T]) Send(event T) error {
	if p.Producer == nil {
		return nil
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.Log.Error("gateway/messaging/producer", "failed to marshal event", "Send", err.Error())
		return err
	}

	message := &k.Message{
		TopicPartition: k.TopicPartition{Topic: &p.Topic, Partition: k.PartitionAny},
		Key:            []byte(event.GetId()),
		Value:          value,
	}

	if err = p.Producer.Publish(message); err != nil {
		p.Log.Error("gateway/messaging/producer", "error send message", "Send", err.Error())
		return err
	}

	return nil
}
