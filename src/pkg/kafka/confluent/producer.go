package kafka

import (
	"strconv"

	"delivery-service/src/pkg/log"

	k "gopkg.in/confluentinc/confluent-kafka-go.v1/kafka"
)

const flushTimeoutMs = 5000

type producer struct {
	producer *k.Producer
	log      log.Log
}

func NewProducer(cfg *k.ConfigMap, logger log.Log) (Producer, error) {
	p, err := k.NewProducer(cfg)
	if err != nil {
		return nil, err
	}

	kp := &producer{producer: p, log: logger}
	go kp.deliveryReports()
	return kp, nil
}

// deliveryReports drains the events channel so failed deliveries get logged
// instead of blocking the librdkafka queue.
func (p *producer) deliveryReports() {
	for e := range p.producer.Events() {
		switch ev := e.(type) {
		case *k.Message:
			if ev.TopicPartition.Error != nil {
				p.log.Error("kafka-producer", ev.TopicPartition.Error.Error(), "delivery-report", string(ev.Key))
			}
		case k.Error:
			p.log.Error("kafka-producer", ev.Error(), "events", ev.Code().String())
		}
	}
}

func (p *producer) Publish(message *k.Message) error {
	return p.producer.Produce(message, nil)
}

func (p *producer) PublishChannel(topic string, message []byte) {
	p.producer.ProduceChannel() <- &k.Message{
		TopicPartition: k.TopicPartition{Topic: &topic, Partition: k.PartitionAny},
		Value:          message,
	}
}

func (p *producer) Close() {
	remaining := p.producer.Flush(flushTimeoutMs)
	if remaining > 0 {
		p.log.Warn("kafka-producer", "unflushed messages on close", "Close", strconv.Itoa(remaining))
	}
	p.producer.Close()
}
