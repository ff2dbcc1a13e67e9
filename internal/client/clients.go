package client

import (
	"errors"

	"github.com/krakosik/telemetry/internal/dto"
	"github.com/sirupsen/logrus"
)

var ErrBrokerClosed = errors.New("broker closed")

type Clients interface {
	Broker() Broker
	// Remote reports whether the broker is backed by RabbitMQ.
	Remote() bool
	Close() error
}

type clients struct {
	broker Broker
	remote bool
}

func (c clients) Broker() Broker {
	return c.broker
}

func (c clients) Remote() bool {
	return c.remote
}

func (c clients) Close() error {
	return c.broker.Close()
}

// NewClients connects to RabbitMQ when a URL is configured. A failed dial
// falls back to the in-memory broker so the service can start without it.
func NewClients(cfg dto.Config) Clients {
	if cfg.RabbitMQURL == "" {
		logrus.Info("RABBITMQ_URL not set, using in-memory broker")
		return &clients{broker: NewInMemoryBroker()}
	}

	rabbitClient, err := NewRabbitMQClient(cfg)
	if err != nil {
		logrus.Errorf("Failed to connect to RabbitMQ: %v", err)
		logrus.Warn("Using in-memory broker (RabbitMQ not available)")
		return &clients{broker: NewInMemoryBroker()}
	}

	return &clients{
		broker: rabbitClient,
		remote: true,
	}
}
