package workers

import amqp "github.com/rabbitmq/amqp091-go"

type amqpConnection struct {
	*amqp.Connection
}

// DialAMQP connects to a RabbitMQ broker.
func DialAMQP(url string) (Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	return amqpConnection{conn}, nil
}

func (c amqpConnection) Channel() (Channel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}

	return ch, nil
}
