package observe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscribers(t *testing.T) {
	var subs Subscribers[int]

	var a, b []int
	unsubA := subs.Subscribe(func(v int) { a = append(a, v) })
	subs.Subscribe(func(v int) { b = append(b, v) })
	assert.Equal(t, 2, subs.Len())

	subs.Publish(1)
	unsubA()
	unsubA()
	subs.Publish(2)

	assert.Equal(t, []int{1}, a)
	assert.Equal(t, []int{1, 2}, b)
	assert.Equal(t, 1, subs.Len())
}
