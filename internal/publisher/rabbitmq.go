package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"

	"podcast_syncer/internal/domain"
)

const (
	EventSessionStarted    = "session.started"
	EventSessionCompleted  = "session.completed"
	EventSessionFailed     = "session.failed"
	EventSessionCancelled  = "session.cancelled"
	EventEpisodeDiscovered = "episode.discovered"
)

type RabbitMQ struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
	logger     *slog.Logger
	mu         sync.Mutex
}

type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
	QueueName  string
}

func NewRabbitMQ(cfg Config, logger *slog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	logger.Info("connected to rabbitmq",
		"exchange", cfg.Exchange,
		"queue", cfg.QueueName,
		"routing_key", cfg.RoutingKey,
	)

	return &RabbitMQ{
		conn:       conn,
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		logger:     logger.With("component", "publisher"),
	}, nil
}

type SessionMessage struct {
	Event     string             `json:"event"`
	Session   domain.SyncSession `json:"session"`
	Timestamp time.Time          `json:"timestamp"`
}

type DiscoveryMessage struct {
	Event        string    `json:"event"`
	PodcastID    int64     `json:"podcastId"`
	EpisodeID    int64     `json:"episodeId"`
	ExternalID   string    `json:"externalId"`
	Title        string    `json:"title"`
	SessionID    string    `json:"sessionId,omitempty"`
	DiscoveredAt time.Time `json:"discoveredAt"`
	Timestamp    time.Time `json:"timestamp"`
}

// SessionEvent maps a session status to its event name.
func SessionEvent(status domain.SessionStatus) string {
	switch status {
	case domain.SessionCompleted:
		return EventSessionCompleted
	case domain.SessionFailed:
		return EventSessionFailed
	case domain.SessionCancelled:
		return EventSessionCancelled
	default:
		return EventSessionStarted
	}
}

func NewSessionMessage(session *domain.SyncSession, now time.Time) SessionMessage {
	return SessionMessage{
		Event:     SessionEvent(session.Status),
		Session:   *session,
		Timestamp: now.UTC(),
	}
}

func NewDiscoveryMessage(d *domain.Discovery, now time.Time) DiscoveryMessage {
	return DiscoveryMessage{
		Event:        EventEpisodeDiscovered,
		PodcastID:    d.PodcastID,
		EpisodeID:    d.EpisodeID,
		ExternalID:   d.ExternalID,
		Title:        d.Title,
		SessionID:    d.SessionID,
		DiscoveredAt: d.DiscoveredAt,
		Timestamp:    now.UTC(),
	}
}

func (r *RabbitMQ) PublishSession(ctx context.Context, session *domain.SyncSession) error {
	msg := NewSessionMessage(session, time.Now())
	if err := r.publish(ctx, msg.Event, msg); err != nil {
		return err
	}

	r.logger.Debug("published session event",
		"session_id", session.ID,
		"event", msg.Event,
	)
	return nil
}

func (r *RabbitMQ) PublishDiscovery(ctx context.Context, discovery *domain.Discovery) error {
	msg := NewDiscoveryMessage(discovery, time.Now())
	if err := r.publish(ctx, msg.Event, msg); err != nil {
		return err
	}

	r.logger.Debug("published discovery",
		"podcast_id", discovery.PodcastID,
		"external_id", discovery.ExternalID,
	)
	return nil
}

func (r *RabbitMQ) publish(ctx context.Context, event string, msg any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal %s message: %w", event, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.channel.PublishWithContext(
		ctx,
		r.exchange,
		r.routingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Type:         event,
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s message: %w", event, err)
	}
	return nil
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
