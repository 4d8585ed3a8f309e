package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefNotifiesOnChange(t *testing.T) {
	r := NewRef(1)

	var got [][2]int
	r.Subscribe(func(old, v int) { got = append(got, [2]int{old, v}) })

	r.Set(2)
	r.Set(2)
	r.Set(3)

	assert.Equal(t, [][2]int{{1, 2}, {2, 3}}, got)
	assert.Equal(t, 3, r.Get())
}

func TestListRefAlwaysNotifies(t *testing.T) {
	r := NewListRef([]string{"a"})

	calls := 0
	r.Subscribe(func(_, _ []string) { calls++ })
	r.Set([]string{"a"})
	r.Set(nil)

	assert.Equal(t, 2, calls)
	assert.Nil(t, r.Get())
}

func TestRefUnsubscribe(t *testing.T) {
	r := NewRef("x")

	calls := 0
	unsub := r.Subscribe(func(_, _ string) { calls++ })
	assert.Equal(t, 1, r.Subscribers())

	unsub()
	unsub()
	r.Set("y")

	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, r.Subscribers())
}

func TestRefUnsubscribeDuringNotify(t *testing.T) {
	r := NewRef(0)

	var order []string
	var unsubB func()
	r.Subscribe(func(_, _ int) {
		order = append(order, "a")
		unsubB()
	})
	unsubB = r.Subscribe(func(_, _ int) { order = append(order, "b") })

	r.Set(1)
	r.Set(2)

	assert.Equal(t, []string{"a", "a"}, order)
}

func TestRefSubscriberMaySetOtherRefs(t *testing.T) {
	src := NewRef(1)
	dst := NewRef(0)
	src.Subscribe(func(_, v int) { dst.Set(v * 10) })

	src.Set(4)
	assert.Equal(t, 40, dst.Get())
}
