package handlers

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBroker(t *testing.T) {
	t.Parallel()

	t.Run("newListener", func(t *testing.T) {
		listener := newListener[string]("test-id", []string{"1:1", " 1:2 "})

		require.Equal(t, "test-id", listener.id)
		require.NotNil(t, listener.ch)
		require.Len(t, listener.topics, 2)
		require.Contains(t, listener.topics, "1:1")
		require.Contains(t, listener.topics, "1:2")
	})

	t.Run("includesAny", func(t *testing.T) {
		listener := newListener[string]("test-id", []string{"1:1", "1:2"})

		require.True(t, listener.includesAny(nil))
		require.True(t, listener.includesAny([]string{"1:1"}))
		require.True(t, listener.includesAny([]string{"3:3", "1:2"}))
		require.False(t, listener.includesAny([]string{"3:3"}))

		all := newListener[string]("all", nil)
		require.True(t, all.includesAny([]string{"3:3"}))
	})

	t.Run("push and remove", func(t *testing.T) {
		broker := newBroker[string]()
		require.False(t, broker.hasListeners())

		broker.pushListener(newListener[string]("a", nil))
		broker.pushListener(newListener[string]("b", nil))
		require.True(t, broker.hasListeners())

		listeners := broker.getListenersCopy()
		require.Len(t, listeners, 2)

		broker.removeListener("a")
		broker.removeListener("unknown")
		require.Len(t, broker.getListenersCopy(), 1)
		// the copy is not affected by later changes
		require.Len(t, listeners, 2)
	})

	t.Run("concurrent access", func(t *testing.T) {
		broker := newBroker[string]()
		wg := &sync.WaitGroup{}
		for i := range 50 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				id := fmt.Sprintf("listener-%d", i)
				broker.pushListener(newListener[string](id, nil))
				_ = broker.getListenersCopy()
				if i%2 == 0 {
					broker.removeListener(id)
				}
			}(i)
		}
		wg.Wait()
		require.Len(t, broker.getListenersCopy(), 25)
	})
}
