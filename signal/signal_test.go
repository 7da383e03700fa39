package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSendInvokesSubscribersInOrder(t *testing.T) {
	s := New[int]("test")
	var order []int
	s.Subscribe(func(v int) { order = append(order, v*10+1) })
	s.Subscribe(func(v int) { order = append(order, v*10+2) })

	s.Send(5)

	assert.Equal(t, []int{51, 52}, order)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	s := New[string]("test")
	calls := 0
	token := s.Subscribe(func(string) { calls++ })
	s.Subscribe(func(string) { calls++ })

	s.Unsubscribe(token)
	s.Send("x")

	assert.Equal(t, 1, calls)
}

func TestSendWithNoSubscribersIsNoop(t *testing.T) {
	s := New[int]("empty")
	assert.NotPanics(t, func() { s.Send(1) })
}

func TestSubscriberPanicPropagates(t *testing.T) {
	s := New[int]("panicky")
	s.Subscribe(func(int) { panic("boom") })

	assert.PanicsWithValue(t, "boom", func() { s.Send(1) })
}

func TestName(t *testing.T) {
	s := New[int]("on_changed")
	assert.Equal(t, "on_changed", s.Name())
}
