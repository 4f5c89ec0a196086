package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"face-animation/pkg/config"
	"face-animation/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	AnimationQueueName  = "animation_tasks"
	AnimationExchange   = "animations"
	AnimationRoutingKey = "generate"
)

const (
	TaskTypeExpression = "expression"
	TaskTypeCustom     = "custom"
)

// AnimationTask asks a renderer to produce OutputPath from the avatar and either a
// named expression or an uploaded driving video.
type AnimationTask struct {
	AnimationID  string    `json:"animation_id"`
	UserID       string    `json:"user_id"`
	Type         string    `json:"type"`
	AvatarPath   string    `json:"avatar_path"`
	Expression   string    `json:"expression,omitempty"`
	DrivingVideo string    `json:"driving_video,omitempty"`
	OutputPath   string    `json:"output_path"`
	Priority     int       `json:"priority"`
	CreatedAt    time.Time `json:"created_at"`
}

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func URL(cfg *config.Config) string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	conn, err := amqp.Dial(URL(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		AnimationExchange, // name
		"direct",          // type
		true,              // durable
		false,             // auto-deleted
		false,             // internal
		false,             // no-wait
		nil,               // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		AnimationQueueName, // name
		true,               // durable
		false,              // delete when unused
		false,              // exclusive
		false,              // no-wait
		amqp.Table{
			"x-max-priority": 10,
		},
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	err = channel.QueueBind(
		AnimationQueueName,  // queue name
		AnimationRoutingKey, // routing key
		AnimationExchange,   // exchange
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func clampPriority(p int) uint8 {
	if p < 0 {
		return 0
	}
	if p > 10 {
		return 10
	}
	return uint8(p)
}

// PublishAnimationTask publishes a render task with its priority.
func (c *Client) PublishAnimationTask(ctx context.Context, task AnimationTask) error {
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}

	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	err = c.channel.PublishWithContext(
		ctx,
		AnimationExchange,   // exchange
		AnimationRoutingKey, // routing key
		false,               // mandatory
		false,               // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			Priority:     clampPriority(task.Priority),
			DeliveryMode: amqp.Persistent,
			Timestamp:    task.CreatedAt,
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish animation task %s: %v", task.AnimationID, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Info("[RABBITMQ] Published animation task %s (%s) to queue=%s", task.AnimationID, task.Type, AnimationQueueName)
	return nil
}

// ConsumeAnimationTasks delivers tasks to handler on a background goroutine.
// Malformed messages are dropped; handler failures are requeued once and then dropped.
func (c *Client) ConsumeAnimationTasks(handler func(task AnimationTask) error) error {
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set qos: %w", err)
	}

	msgs, err := c.channel.Consume(
		AnimationQueueName, // queue
		"",                 // consumer
		false,              // auto-ack
		false,              // exclusive
		false,              // no-local
		false,              // no-wait
		nil,                // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from queue: %s", AnimationQueueName)

	go func() {
		for msg := range msgs {
			var task AnimationTask
			if err := json.Unmarshal(msg.Body, &task); err != nil {
				c.logger.Error("[RABBITMQ] Failed to unmarshal animation task: %v, body=%s", err, string(msg.Body))
				msg.Nack(false, false)
				continue
			}

			if err := handler(task); err != nil {
				c.logger.Error("[RABBITMQ] Handler failed for animation task %s: %v", task.AnimationID, err)
				msg.Nack(false, !msg.Redelivered)
				continue
			}

			msg.Ack(false)
		}
		c.logger.Warn("[RABBITMQ] Delivery channel closed for queue: %s", AnimationQueueName)
	}()

	return nil
}

// QueueLength returns the number of ready messages in the animation queue.
func (c *Client) QueueLength() (int, error) {
	q, err := c.channel.QueueInspect(AnimationQueueName)
	if err != nil {
		return 0, err
	}
	return q.Messages, nil
}
