package kafka_test

import (
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/dukex/flowbuilder/pkg/channels/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBrokers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a:9092", "b:9092"}, kafka.ParseBrokers(" a:9092, ,b:9092,"))
	assert.Empty(t, kafka.ParseBrokers(""))
}

func TestCreateChannel_NoBrokers(t *testing.T) {
	t.Parallel()

	pub, sub, err := kafka.CreateChannel(watermill.NopLogger{}, nil, "flowbuilder")

	require.ErrorIs(t, err, kafka.ErrNoBrokers)
	assert.Nil(t, pub)
	assert.Nil(t, sub)
}
