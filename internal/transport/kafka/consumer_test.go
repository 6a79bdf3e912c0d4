package kafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"service-delivery/internal/service/orders"
	testlog "service-delivery/internal/testutil"
)

func TestNewConsumer_SkipsWhenNoKafkaConfig(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	noop := func(context.Context, orders.Event) error { return nil }

	got, err := NewConsumer(nil, "gid", "topic", noop, rec.Logger())
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = NewConsumer([]string{"b:9092"}, "", "topic", noop, rec.Logger())
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = NewConsumer([]string{"b:9092"}, "gid", "   ", noop, rec.Logger())
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestNilConsumer_RunAndCloseAreNoops(t *testing.T) {
	t.Parallel()

	var c *Consumer
	require.NoError(t, c.Run(context.Background()))
	require.NoError(t, c.Close())
}
