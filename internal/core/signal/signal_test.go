package signal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumina-tracker/lumina_backend/internal/core/signal"
)

func TestSignal_GetReturnsInitialValue(t *testing.T) {
	s := signal.New(42)
	assert.Equal(t, 42, s.Get())
}

func TestSignal_SetNotifiesSubscribersSynchronously(t *testing.T) {
	s := signal.New(0)
	var seen []int
	s.Subscribe(func(v int) { seen = append(seen, v) })

	s.Set(1)
	s.Set(2)

	assert.Equal(t, []int{1, 2}, seen)
	assert.Equal(t, 2, s.Get())
}

func TestSignal_SubscribeDoesNotReplayCurrentValue(t *testing.T) {
	s := signal.New(7)
	called := false
	s.Subscribe(func(int) { called = true })

	assert.False(t, called)
}

func TestSignal_CancelStopsNotifications(t *testing.T) {
	s := signal.New(0)
	count := 0
	cancel := s.Subscribe(func(int) { count++ })

	s.Set(1)
	cancel()
	s.Set(2)

	assert.Equal(t, 1, count)
}

func TestSignal_SubscriberMayReadBack(t *testing.T) {
	s := signal.New(0)
	var observed int
	s.Subscribe(func(int) { observed = s.Get() })

	s.Set(5)

	assert.Equal(t, 5, observed)
}
