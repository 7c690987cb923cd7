// Package cmd holds the factories shared by the command line entry points.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/dukex/flowbuilder/pkg/channels/gochannel"
	"github.com/dukex/flowbuilder/pkg/channels/kafka"
	"github.com/dukex/flowbuilder/pkg/eventbus"
)

// NewEventBus creates the catalog event bus for provider ("gochannel" or "kafka"). brokers is a
// comma separated list, only read by the kafka provider.
func NewEventBus(provider, brokers, serviceName string, logger *slog.Logger) (*eventbus.WatermillEventBus, error) {
	adapter := watermill.NewSlogLogger(logger)

	switch provider {
	case "", "gochannel":
		pub, sub, err := gochannel.CreateChannel(adapter)
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub, logger), nil
	case "kafka":
		pub, sub, err := kafka.CreateChannel(adapter, kafka.ParseBrokers(brokers), serviceName)
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub, logger), nil
	default:
		return nil, fmt.Errorf("unsupported event bus provider: %s", provider)
	}
}
