// Package rabbitmq содержит подключение к RabbitMQ и публикацию
// событий жизненного цикла подписок.
package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// EventsQueue имя очереди с событиями жизненного цикла подписок.
const EventsQueue = "subscription.events"

// Publisher инкапсулирует соединение и канал AMQP.
type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Connect открывает соединение с RabbitMQ и объявляет очередь событий.
func Connect(url string) (*Publisher, error) {
	const op = "rabbitmq.Connect"
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err = ch.QueueDeclare(EventsQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Publisher{conn: conn, ch: ch}, nil
}

// Publish сериализует сообщение в JSON и публикует его в очередь событий.
func (p *Publisher) Publish(message any) error {
	const op = "rabbitmq.Publish"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	err = p.ch.Publish(
		"",
		EventsQueue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает канал и соединение.
func (p *Publisher) Close() {
	_ = p.ch.Close()
	_ = p.conn.Close()
}
