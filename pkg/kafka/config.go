package kafka

import (
	"fmt"
	"time"

	"github.com/IBM/sarama"
)

// ProducerConfig configures a sync Kafka producer.
type ProducerConfig struct {
	Brokers      string
	SaslUsername string
	SaslPassword string
}

// ConsumerConfig configures a consumer-group Kafka consumer.
type ConsumerConfig struct {
	Brokers        string
	SaslUsername   string
	SaslPassword   string
	GroupID        string
	HandlerTimeout time.Duration
}

func (cfg ProducerConfig) getSaramaConfig(serviceName string) (*sarama.Config, error) {
	c := baseSaramaConfig(serviceName, cfg.SaslUsername, cfg.SaslPassword)
	c.Producer.Return.Successes = true
	c.Producer.RequiredAcks = sarama.WaitForAll
	c.Producer.Retry.Max = 5

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate sarama producer config: %w", err)
	}
	return c, nil
}

func (cfg ConsumerConfig) getSaramaConfig(serviceName string) (*sarama.Config, error) {
	c := baseSaramaConfig(serviceName, cfg.SaslUsername, cfg.SaslPassword)
	c.Consumer.Offsets.Initial = sarama.OffsetOldest
	c.Consumer.Return.Errors = true

	if cfg.HandlerTimeout <= 0 {
		cfg.HandlerTimeout = 30 * time.Second
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate sarama consumer config: %w", err)
	}
	return c, nil
}

func baseSaramaConfig(serviceName, saslUsername, saslPassword string) *sarama.Config {
	c := sarama.NewConfig()
	c.ClientID = serviceName
	c.Version = sarama.V2_8_0_0

	if saslUsername != "" {
		c.Net.SASL.Enable = true
		c.Net.SASL.User = saslUsername
		c.Net.SASL.Password = saslPassword
		c.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA256
		c.Net.TLS.Enable = true
	}

	return c
}
