package messaging

import (
	"delivery-service/src/internal/model"
	kafka "delivery-service/src/pkg/kafka/confluent"
	"delivery-service/src/pkg/log"

	"github.com/google/uuid"
)

const TopicDriverPointsEvents = "driver-points-events"

type PointsProducer struct {
	Producer[*model.PointsEvent]
}

func NewPointsProducer(producer kafka.Producer, log log.Log) *PointsProducer {
	return &PointsProducer{
		Producer: Producer[*model.PointsEvent]{
			Producer: producer,
			Topic:    TopicDriverPointsEvents,
			Log:      log,
		},
	}
}

func (p *PointsProducer) SendPointsEvent(event *model.PointsEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	return p.Send(event)
}
