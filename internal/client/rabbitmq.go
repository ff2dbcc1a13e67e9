package client

import (
	"context"
	"sync"
	"time"

	"github.com/krakosik/telemetry/internal/dto"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const (
	defaultReconnectDelay = 5 * time.Second
	publishTimeout        = 5 * time.Second
)

// amqpConnection and amqpChannel are the parts of *amqp.Connection and
// *amqp.Channel the client uses.
type amqpConnection interface {
	NotifyClose(receiver chan *amqp.Error) chan *amqp.Error
	Close() error
}

type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Cancel(consumer string, noWait bool) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type dialFunc func(connectionStr, exchangeName string) (amqpConnection, amqpChannel, error)

type subscription struct {
	msgs        chan []byte
	consumerTag string
}

type rabbitClient struct {
	conn            amqpConnection
	channel         amqpChannel
	exchangeName    string
	subscribers     map[string]*subscription
	subscriberMutex sync.RWMutex
	done            chan struct{}
	closeOnce       sync.Once
	dial            dialFunc
	reconnectDelay  time.Duration
}

func NewRabbitMQClient(config dto.Config) (Broker, error) {
	conn, ch, err := dialAMQP(config.RabbitMQURL, config.RabbitMQExchange)
	if err != nil {
		return nil, err
	}

	client := newRabbitClient(conn, ch, config.RabbitMQExchange)
	go client.monitorConnection(config.RabbitMQURL)

	logrus.Infof("Publishing submissions to RabbitMQ exchange %q", config.RabbitMQExchange)
	return client, nil
}

func newRabbitClient(conn amqpConnection, ch amqpChannel, exchangeName string) *rabbitClient {
	return &rabbitClient{
		conn:           conn,
		channel:        ch,
		exchangeName:   exchangeName,
		subscribers:    make(map[string]*subscription),
		done:           make(chan struct{}),
		dial:           dialAMQP,
		reconnectDelay: defaultReconnectDelay,
	}
}

func dialAMQP(connectionStr, exchangeName string) (amqpConnection, amqpChannel, error) {
	conn, ch, err := dialExchange(connectionStr, exchangeName)
	if err != nil {
		return nil, nil, err
	}
	return conn, ch, nil
}

func dialExchange(connectionStr, exchangeName string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(connectionStr)
	if err != nil {
		return nil, nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	err = ch.ExchangeDeclare(
		exchangeName, // name
		"fanout",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, err
	}

	return conn, ch, nil
}

func (c *rabbitClient) monitorConnection(connectionStr string) {
	c.subscriberMutex.RLock()
	connCloseChan := c.conn.NotifyClose(make(chan *amqp.Error, 1))
	c.subscriberMutex.RUnlock()

	select {
	case err := <-connCloseChan:
		if err == nil {
			// closed on purpose
			return
		}
		logrus.Errorf("RabbitMQ connection closed: %v", err)
	case <-c.done:
		return
	}

	for {
		select {
		case <-time.After(c.reconnectDelay):
		case <-c.done:
			return
		}

		logrus.Info("Attempting to reconnect to RabbitMQ...")
		conn, ch, err := c.dial(connectionStr, c.exchangeName)
		if err != nil {
			logrus.Errorf("Failed to reconnect to RabbitMQ: %v", err)
			continue
		}

		c.subscriberMutex.Lock()
		select {
		case <-c.done:
			c.subscriberMutex.Unlock()
			ch.Close()
			conn.Close()
			return
		default:
		}
		oldConn := c.conn
		oldChannel := c.channel
		c.conn = conn
		c.channel = ch
		c.subscriberMutex.Unlock()

		if oldChannel != nil {
			oldChannel.Close()
		}
		if oldConn != nil {
			oldConn.Close()
		}

		c.resubscribeAll()

		go c.monitorConnection(connectionStr)
		return
	}
}

func (c *rabbitClient) resubscribeAll() {
	c.subscriberMutex.RLock()
	defer c.subscriberMutex.RUnlock()

	for id, sub := range c.subscribers {
		if err := c.bindSubscriber(id, sub); err != nil {
			logrus.Errorf("Failed to resubscribe %s: %v", id, err)
		}
	}
}

// bindSubscriber declares an exclusive queue bound to the exchange and pumps
// its deliveries into sub.msgs. Callers must hold subscriberMutex.
func (c *rabbitClient) bindSubscriber(id string, sub *subscription) error {
	q, err := c.channel.QueueDeclare(
		"",    // name - let RabbitMQ generate a unique name
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	err = c.channel.QueueBind(
		q.Name,         // queue name
		"",             // routing key
		c.exchangeName, // exchange
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return err
	}

	msgs, err := c.channel.Consume(
		q.Name,          // queue
		sub.consumerTag, // consumer
		true,            // auto-ack
		true,            // exclusive
		false,           // no-local
		false,           // no-wait
		nil,             // args
	)
	if err != nil {
		return err
	}

	go c.deliver(id, sub, msgs)
	return nil
}

// deliver runs until the consumer is cancelled or its channel closes, both of
// which close deliveries.
func (c *rabbitClient) deliver(id string, sub *subscription, deliveries <-chan amqp.Delivery) {
	for d := range deliveries {
		c.subscriberMutex.RLock()
		if c.subscribers[id] == sub {
			select {
			case sub.msgs <- d.Body:
			default:
			}
		}
		c.subscriberMutex.RUnlock()
	}
}

func (c *rabbitClient) PublishMessage(ctx context.Context, message []byte) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	c.subscriberMutex.RLock()
	channel := c.channel
	c.subscriberMutex.RUnlock()

	return channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		"",             // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now().UTC(),
			Body:        message,
		})
}

func (c *rabbitClient) SubscribeToMessages(id string) (<-chan []byte, error) {
	c.subscriberMutex.Lock()
	defer c.subscriberMutex.Unlock()

	if sub, exists := c.subscribers[id]; exists {
		return sub.msgs, nil
	}

	sub := &subscription{
		msgs:        make(chan []byte, subscriberBufferSize),
		consumerTag: id,
	}
	c.subscribers[id] = sub
	if err := c.bindSubscriber(id, sub); err != nil {
		delete(c.subscribers, id)
		return nil, err
	}

	return sub.msgs, nil
}

// UnsubscribeFromMessages cancels the consumer; RabbitMQ then deletes the
// auto-delete queue and the deliveries channel closes.
func (c *rabbitClient) UnsubscribeFromMessages(id string) error {
	c.subscriberMutex.Lock()
	sub, exists := c.subscribers[id]
	if exists {
		delete(c.subscribers, id)
		close(sub.msgs)
	}
	channel := c.channel
	c.subscriberMutex.Unlock()

	if !exists {
		return nil
	}
	return channel.Cancel(sub.consumerTag, false)
}

func (c *rabbitClient) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)

		c.subscriberMutex.Lock()
		defer c.subscriberMutex.Unlock()

		for id, sub := range c.subscribers {
			delete(c.subscribers, id)
			close(sub.msgs)
		}
		if c.channel != nil {
			c.channel.Close()
		}
		if c.conn != nil {
			err = c.conn.Close()
		}
	})
	return err
}
