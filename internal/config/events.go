package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/interview-session-service/internal/events"
	"github.com/ThreeDotsLabs/watermill/message"
)

// EventConfig holds configuration for event publishing
type EventConfig struct {
	Enabled      bool
	Publisher    string // kafka or channel
	KafkaBrokers string
	SessionTopic string
}

// EventBus is the publisher sessions write to. Subscriber is set only for the
// in-process channel bus, where the service consumes its own events.
type EventBus struct {
	Publisher  events.EventPublisher
	Subscriber message.Subscriber
}

// GetKafkaBrokers returns Kafka brokers as a slice
func (c *EventConfig) GetKafkaBrokers() []string {
	brokers := strings.Split(c.KafkaBrokers, ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}
	return brokers
}

// CreateEventBus creates the event publisher (and subscriber, if any) based on configuration
func (c *EventConfig) CreateEventBus(logger *slog.Logger) (*EventBus, error) {
	if !c.Enabled {
		logger.Info("Event publishing disabled")
		return &EventBus{Publisher: events.NopEventPublisher{}}, nil
	}

	publisherConfig := events.PublisherConfig{
		KafkaBrokers: c.GetKafkaBrokers(),
		TopicName:    c.SessionTopic,
		Logger:       logger,
	}

	switch c.Publisher {
	case "kafka":
		logger.Info("Creating Kafka event publisher",
			"brokers", c.KafkaBrokers,
			"topic", c.SessionTopic)
		publisher, err := events.NewKafkaEventPublisher(publisherConfig)
		if err != nil {
			return nil, err
		}
		return &EventBus{Publisher: publisher}, nil
	case "channel":
		logger.Info("Creating in-process event bus", "topic", c.SessionTopic)
		publisher, pubSub := events.NewChannelEventPublisher(publisherConfig)
		return &EventBus{Publisher: publisher, Subscriber: pubSub}, nil
	default:
		return nil, fmt.Errorf("unknown EVENTS_PUBLISHER %q (want kafka or channel)", c.Publisher)
	}
}
