// Package workers runs the background workers of the accounts service. The
// only worker today is the AMQP consumer of login events.
package workers

import (
	"context"

	"github.com/MKhiriev/go-accounts/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Worker is a long-running background task. Run blocks until ctx is done or
// the worker fails permanently.
type Worker interface {
	Run(ctx context.Context) error
}

// CommandDispatcher executes commands. It is satisfied by *dispatch.Dispatcher.
type CommandDispatcher interface {
	Dispatch(ctx context.Context, cmd models.Command) models.Reply
}

// Connection is the part of an AMQP connection used by the consumer.
type Connection interface {
	Channel() (Channel, error)
	NotifyClose(receiver chan *amqp.Error) chan *amqp.Error
	Close() error
}

// Channel is the part of an AMQP channel used by the consumer.
type Channel interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// Dialer opens a connection to the broker at url.
type Dialer func(url string) (Connection, error)
