// Package activity публикует события активности форума (новые посты,
// реакции, комментарии) в RabbitMQ для внешних потребителей.
package activity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/linkforum/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/linkforum/internal/lib/sl"
)

// Ключи маршрутизации событий.
const (
	KeyPostCreated   = "post.created"
	KeyPostReacted   = "post.reacted"
	KeyPostCommented = "post.commented"
)

// PostCreated публикуется после создания поста.
type PostCreated struct {
	PostID   string    `json:"post_id"`
	UserID   string    `json:"user_id"`
	Title    string    `json:"title"`
	Category string    `json:"category"`
	At       time.Time `json:"at"`
}

// PostReacted публикуется после переключения лайка или дизлайка.
// Active — состояние реакции пользователя после переключения.
type PostReacted struct {
	PostID string    `json:"post_id"`
	UserID string    `json:"user_id"`
	Kind   string    `json:"kind"`
	Active bool      `json:"active"`
	At     time.Time `json:"at"`
}

// PostCommented публикуется после добавления комментария.
type PostCommented struct {
	PostID string    `json:"post_id"`
	UserID string    `json:"user_id"`
	At     time.Time `json:"at"`
}

// Publisher отправляет событие. Ошибки доставки не возвращаются вызывающему.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any)
}

// AMQPPublisher публикует события в exchange RabbitMQ.
type AMQPPublisher struct {
	mu       sync.Mutex
	ch       rabbitmq.Channel
	exchange string
	log      *slog.Logger
}

// NewAMQPPublisher создаёт издателя поверх канала ch.
func NewAMQPPublisher(ch rabbitmq.Channel, exchange string, log *slog.Logger) *AMQPPublisher {
	return &AMQPPublisher{
		ch:       ch,
		exchange: exchange,
		log:      log,
	}
}

// Publish сериализует событие в JSON и публикует его.
// amqp.Channel не рассчитан на конкурентную публикацию, поэтому вызовы сериализуются.
func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, event any) {
	if ctx.Err() != nil {
		return
	}
	p.mu.Lock()
	err := rabbitmq.PublishMessage(p.ch, p.exchange, routingKey, event)
	p.mu.Unlock()
	if err != nil {
		p.log.Error("failed to publish activity event",
			slog.String("routing_key", routingKey),
			sl.Err(err),
		)
	}
}

// Nop отбрасывает события. Используется, когда RabbitMQ не настроен.
type Nop struct{}

// Publish ничего не делает.
func (Nop) Publish(context.Context, string, any) {}
