package messaging

import (
	"delivery-service/src/internal/model"
	kafka "delivery-service/src/pkg/kafka/confluent"
	"delivery-service/src/pkg/log"

	"github.com/google/uuid"
)

const TopicDeliveryEvents = "delivery-events"

type DeliveryProducer struct {
	Producer[*model.DeliveryEvent]
}

func NewDeliveryProducer(producer kafka.Producer, log log.Log) *DeliveryProducer {
	return &DeliveryProducer{
		Producer: Producer[*model.DeliveryEvent]{
			Producer: producer,
			Topic:    TopicDeliveryEvents,
			Log:      log,
		},
	}
}

func (p *DeliveryProducer) SendDeliveryEvent(event *model.DeliveryEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	return p.Send(event)
}
