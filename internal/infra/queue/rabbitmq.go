package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ExchangeName é o exchange topic onde todo evento de domínio é espelhado
// para consumidores externos (integrações, BI).
const ExchangeName = "ex.crm.events"

type RabbitMQ struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir canal: %w", err)
	}

	// Só o exchange: cada consumidor declara e faz bind da própria fila.
	if err := ch.ExchangeDeclare(ExchangeName, "topic", true, false, false, false, nil); err != nil {
		return nil, err
	}

	return &RabbitMQ{Conn: conn, Ch: ch}, nil
}
