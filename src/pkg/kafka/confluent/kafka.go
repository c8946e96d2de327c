package kafka

import (
	"encoding/base64"
	"fmt"

	k "gopkg.in/confluentinc/confluent-kafka-go.v1/kafka"
)

type Producer interface {
	Publish(message *k.Message) error
	PublishChannel(topic string, message []byte)
	Close()
}

type KafkaConfig struct {
	Address       string
	Username      string
	Password      string
	SaslMechanism string
	ClientID      string
	// CaCert is the base64 encoded PEM bundle used with SASL_SSL.
	CaCert string
}

type Cfg struct {
	KafkaUrl      string
	KafkaUsername string
	KafkaPassword string
	KafkaCaCert   string
	AppName       string
}

func InitKafkaConfig(cfg Cfg) KafkaConfig {
	return KafkaConfig{
		Address:       cfg.KafkaUrl,
		Username:      cfg.KafkaUsername,
		Password:      cfg.KafkaPassword,
		ClientID:      cfg.AppName,
		CaCert:        cfg.KafkaCaCert,
		SaslMechanism: "PLAIN",
	}
}

// GetKafkaConfig builds the producer config map. Events are keyed per
// delivery or driver, so idempotence keeps per-key order across retries.
func (kc KafkaConfig) GetKafkaConfig() (*k.ConfigMap, error) {
	kafkaCfg := k.ConfigMap{}

	if kc.Username != "" {
		ca, err := base64.StdEncoding.DecodeString(kc.CaCert)
		if err != nil {
			return nil, fmt.Errorf("decode kafka ca cert: %w", err)
		}
		kafkaCfg["sasl.mechanism"] = kc.SaslMechanism
		kafkaCfg["sasl.username"] = kc.Username
		kafkaCfg["sasl.password"] = kc.Password
		kafkaCfg["ssl.ca.pem"] = string(ca)
		kafkaCfg["security.protocol"] = "sasl_ssl"
	}
	kafkaCfg["bootstrap.servers"] = kc.Address
	if kc.ClientID != "" {
		kafkaCfg["client.id"] = kc.ClientID
	}
	kafkaCfg["acks"] = "all"
	kafkaCfg["enable.idempotence"] = true
	kafkaCfg["retry.backoff.ms"] = 500
	kafkaCfg["reconnect.backoff.ms"] = 200
	kafkaCfg["reconnect.backoff.max.ms"] = 5000
	kafkaCfg["request.timeout.ms"] = 5000
	kafkaCfg["message.timeout.ms"] = 30000

	return &kafkaCfg, nil
}
