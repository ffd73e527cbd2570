package eventbus

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"moviesearch/internal/domain"
)

func TestPublishDeliversToSubscribersOfType(t *testing.T) {
	b := New(zaptest.NewLogger(t))
	defer b.Close()

	var settled, cleared atomic.Int32
	b.Subscribe(EventSearchSettled, func(e DomainEvent) {
		ev, ok := e.(SearchSettledEvent)
		if ok && ev.Request.Query == "alien" {
			settled.Add(1)
		}
	})
	b.Subscribe(EventSearchCleared, func(DomainEvent) { cleared.Add(1) })

	b.Publish(SearchSettledEvent{Request: domain.SearchRequest{Seq: 1, Query: "alien"}})

	require.Eventually(t, func() bool { return settled.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(0), cleared.Load())
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New(nil)

	var calls atomic.Int32
	unsubscribe := b.Subscribe(EventSearchCleared, func(DomainEvent) { calls.Add(1) })
	b.Publish(SearchClearedEvent{})
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	unsubscribe()
	b.Publish(SearchClearedEvent{})
	b.Close()

	assert.Equal(t, int32(1), calls.Load())
}

func TestCloseDrainsQueuedEvents(t *testing.T) {
	b := New(nil)

	var calls atomic.Int32
	b.Subscribe(EventSearchDispatched, func(DomainEvent) { calls.Add(1) })
	for i := 0; i < 10; i++ {
		b.Publish(SearchDispatchedEvent{Request: domain.SearchRequest{Seq: uint64(i)}})
	}
	b.Close()

	assert.Equal(t, int32(10), calls.Load())

	// Publishing after close is a no-op
	b.Publish(SearchDispatchedEvent{})
	assert.Equal(t, int32(10), calls.Load())
}

func TestPublishRacingCloseLeavesNothingQueued(t *testing.T) {
	for round := 0; round < 50; round++ {
		b := New(nil)
		var calls atomic.Int32
		b.Subscribe(EventSearchDispatched, func(DomainEvent) { calls.Add(1) })

		var ready, done sync.WaitGroup
		for p := 0; p < 4; p++ {
			ready.Add(1)
			done.Add(1)
			go func() {
				defer done.Done()
				for i := 0; i < 25; i++ {
					b.Publish(SearchDispatchedEvent{})
				}
				ready.Done()
				for i := 0; i < 25; i++ {
					b.Publish(SearchDispatchedEvent{})
				}
			}()
		}

		ready.Wait()
		b.Close()
		done.Wait()

		assert.Zero(t, len(b.(*bus).eventChan), "round %d: events stranded after close", round)
		assert.GreaterOrEqual(t, calls.Load(), int32(100), "round %d", round)
		assert.LessOrEqual(t, calls.Load(), int32(200), "round %d", round)
	}
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	b := New(zaptest.NewLogger(t))

	var after atomic.Int32
	b.Subscribe(EventHitOpened, func(DomainEvent) { panic("boom") })
	b.Subscribe(EventHitOpened, func(DomainEvent) { after.Add(1) })
	b.Publish(HitOpenedEvent{ID: "1"})
	b.Close()

	assert.Equal(t, int32(1), after.Load())
}
