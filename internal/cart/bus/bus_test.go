package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish_SignalsEverySubscriber(t *testing.T) {
	b := NewBus()
	_, first := b.Subscribe()
	_, second := b.Subscribe()

	b.Publish()

	select {
	case <-first:
	default:
		t.Fatal("first subscriber received no signal")
	}
	select {
	case <-second:
	default:
		t.Fatal("second subscriber received no signal")
	}
}

func TestPublish_CoalescesPendingSignals(t *testing.T) {
	b := NewBus()
	_, ch := b.Subscribe()

	b.Publish()
	b.Publish()
	b.Publish()

	<-ch
	select {
	case <-ch:
		t.Fatal("expected pending signals to coalesce into one")
	default:
	}
}

func TestPublish_NoSubscribers(t *testing.T) {
	b := NewBus()

	// Must not block or panic
	b.Publish()

	assert.Equal(t, 0, b.Subscribers())
}

func TestUnsubscribe_ClosesChannelAndStopsDelivery(t *testing.T) {
	b := NewBus()
	token, ch := b.Subscribe()
	require.Equal(t, 1, b.Subscribers())

	b.Unsubscribe(token)

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, b.Subscribers())
}

func TestUnsubscribe_UnknownTokenIsNoOp(t *testing.T) {
	b := NewBus()
	_, _ = b.Subscribe()

	b.Unsubscribe("not-a-token")

	assert.Equal(t, 1, b.Subscribers())
}

func TestSubscribe_TokensAreUnique(t *testing.T) {
	b := NewBus()
	first, _ := b.Subscribe()
	second, _ := b.Subscribe()

	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, b.Subscribers())
}
