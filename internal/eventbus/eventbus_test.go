package eventbus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type testEvent struct {
	n int
}

type otherEvent struct{}

func TestPublishSubscribe(t *testing.T) {
	Use(New())
	defer Use(nil)

	var got []int
	unsub := Subscribe(func(ctx context.Context, e testEvent) {
		got = append(got, e.n)
	})

	Publish(context.Background(), testEvent{n: 1})
	Publish(context.Background(), otherEvent{})
	Publish(context.Background(), testEvent{n: 2})
	require.Equal(t, []int{1, 2}, got)

	unsub()
	Publish(context.Background(), testEvent{n: 3})
	require.Equal(t, []int{1, 2}, got, "no delivery after unsubscribe")
}

func TestMultipleSubscribers(t *testing.T) {
	Use(New())
	defer Use(nil)

	a, b := 0, 0
	Subscribe(func(ctx context.Context, e testEvent) { a += e.n })
	Subscribe(func(ctx context.Context, e testEvent) { b += e.n })

	Publish(context.Background(), testEvent{n: 5})
	require.Equal(t, 5, a)
	require.Equal(t, 5, b)
}

func TestPublishWithoutBus(t *testing.T) {
	Use(nil)
	// Must not panic and must not deliver.
	Publish(context.Background(), testEvent{n: 1})
	unsub := Subscribe(func(ctx context.Context, e testEvent) { t.Fatal("unexpected delivery") })
	unsub()
}
