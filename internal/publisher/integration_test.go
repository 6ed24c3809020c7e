//go:build integration

package publisher

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"

	"podcast_syncer/internal/domain"
)

type RabbitMQIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *rabbitmq.RabbitMQContainer
	amqpURL   string
	logger    *slog.Logger
}

func (s *RabbitMQIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	container, err := rabbitmq.Run(s.ctx,
		"rabbitmq:3.13-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete").
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	amqpURL, err := container.AmqpURL(s.ctx)
	s.Require().NoError(err)
	s.amqpURL = amqpURL
}

func (s *RabbitMQIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func TestRabbitMQIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RabbitMQIntegrationSuite))
}

func (s *RabbitMQIntegrationSuite) config(name string) Config {
	return Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-" + name,
		RoutingKey: "test-routing-key-" + name,
		QueueName:  "test-queue-" + name,
	}
}

func (s *RabbitMQIntegrationSuite) TestPublisher_Connection() {
	pub, err := NewRabbitMQ(s.config("connect"), s.logger)
	s.NoError(err)
	s.NotNil(pub)

	s.NoError(pub.Close())
}

func (s *RabbitMQIntegrationSuite) TestPublisher_SessionLifecycle() {
	cfg := s.config("session")
	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	session := &domain.SyncSession{
		ID:        "0b6c3c1e-7c3a-4f7e-8f0e-9a1c2b3d4e5f",
		Trigger:   domain.TriggerManual,
		Status:    domain.SessionRunning,
		StartedAt: time.Now().Truncate(time.Millisecond),
	}
	s.Require().NoError(pub.PublishSession(s.ctx, session))

	ended := time.Now()
	session.Status = domain.SessionCancelled
	session.EndedAt = &ended
	session.SuccessfulPodcasts = 3
	s.Require().NoError(pub.PublishSession(s.ctx, session))

	msgs := s.consumeMessages(cfg, 2)
	s.Require().Len(msgs, 2)

	var started, finished SessionMessage
	s.Require().NoError(json.Unmarshal(msgs[0].Body, &started))
	s.Require().NoError(json.Unmarshal(msgs[1].Body, &finished))

	s.Equal(EventSessionStarted, started.Event)
	s.Equal(EventSessionStarted, msgs[0].Type)
	s.Equal(EventSessionCancelled, finished.Event)
	s.Equal(session.ID, finished.Session.ID)
	s.Equal(3, finished.Session.SuccessfulPodcasts)
	s.False(finished.Timestamp.IsZero())
}

func (s *RabbitMQIntegrationSuite) TestPublisher_Discovery() {
	cfg := s.config("discovery")
	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	discovery := &domain.Discovery{
		PodcastID:    7,
		EpisodeID:    42,
		ExternalID:   "vid-42",
		Title:        "New Episode",
		SessionID:    "0b6c3c1e-7c3a-4f7e-8f0e-9a1c2b3d4e5f",
		DiscoveredAt: time.Now().Truncate(time.Millisecond),
	}
	s.Require().NoError(pub.PublishDiscovery(s.ctx, discovery))

	msgs := s.consumeMessages(cfg, 1)
	s.Require().Len(msgs, 1)
	s.Equal("application/json", msgs[0].ContentType)
	s.Equal(uint8(amqp.Persistent), msgs[0].DeliveryMode)

	var received DiscoveryMessage
	s.Require().NoError(json.Unmarshal(msgs[0].Body, &received))
	s.Equal(EventEpisodeDiscovered, received.Event)
	s.Equal(int64(7), received.PodcastID)
	s.Equal("vid-42", received.ExternalID)
	s.Equal(discovery.SessionID, received.SessionID)
	s.True(discovery.DiscoveredAt.Equal(received.DiscoveredAt))
}

func (s *RabbitMQIntegrationSuite) consumeMessages(cfg Config, n int) []amqp.Delivery {
	conn, err := amqp.Dial(s.amqpURL)
	s.Require().NoError(err)
	defer conn.Close()

	ch, err := conn.Channel()
	s.Require().NoError(err)
	defer ch.Close()

	deliveries, err := ch.Consume(cfg.QueueName, "", true, false, false, false, nil)
	s.Require().NoError(err)

	var msgs []amqp.Delivery
	timeout := time.After(5 * time.Second)
	for len(msgs) < n {
		select {
		case msg := <-deliveries:
			msgs = append(msgs, msg)
		case <-timeout:
			s.Fail("Timeout waiting for message")
			return msgs
		}
	}
	return msgs
}
