package config

import (
	kafkaPkgConfluent "delivery-service/src/pkg/kafka/confluent"
	"delivery-service/src/pkg/log"

	"github.com/spf13/viper"
)

func NewKafkaConfig(viper *viper.Viper) kafkaPkgConfluent.KafkaConfig {
	configKafka := kafkaPkgConfluent.Cfg{
		KafkaUrl:      viper.GetString("kafka.bootstrap.servers"),
		KafkaUsername: viper.GetString("kafka.username"),
		KafkaPassword: viper.GetString("kafka.password"),
		KafkaCaCert:   viper.GetString("kafka.cacert"),
		AppName:       viper.GetString("kafka.app.name"),
	}
	return kafkaPkgConfluent.InitKafkaConfig(configKafka)
}

// NewKafkaProducer returns nil when kafka.producer.enabled is false. The
// messaging producers drop events in that case.
func NewKafkaProducer(viper *viper.Viper, log log.Log) (kafkaPkgConfluent.Producer, error) {
	if !viper.GetBool("kafka.producer.enabled") {
		log.Info("kafka-config", "Kafka producer is disabled in configuration", "kafka", "")
		return nil, nil
	}
	cfg, err := NewKafkaConfig(viper).GetKafkaConfig()
	if err != nil {
		return nil, err
	}
	return kafkaPkgConfluent.NewProducer(cfg, log)
}
