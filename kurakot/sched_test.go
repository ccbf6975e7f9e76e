package kurakot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerOrder(t *testing.T) {
	s := newScheduler()

	var got []string
	s.after(2*time.Second, func() { got = append(got, "b") })
	s.after(time.Second, func() { got = append(got, "a") })
	s.after(3*time.Second, func() { got = append(got, "c") })

	s.advance(2 * time.Second)
	assert.Equal(t, []string{"a", "b"}, got)

	s.advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 0, s.pending())
}

func TestSchedulerSameInstant(t *testing.T) {
	s := newScheduler()

	// same due runs in issue order
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		s.after(time.Second, func() { got = append(got, i) })
	}

	s.advance(time.Second)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestSchedulerNested(t *testing.T) {
	s := newScheduler()

	var got []string
	s.after(time.Second, func() {
		got = append(got, "a")
		s.after(time.Second, func() { got = append(got, "b") })
	})

	s.advance(3 * time.Second)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestSchedulerHalt(t *testing.T) {
	s := newScheduler()

	var got []string
	s.after(time.Second, func() {
		got = append(got, "a")
		s.halt()
	})
	// due at the same instant as the halt, still runs
	s.after(time.Second, func() { got = append(got, "b") })
	// later, never runs
	s.after(2*time.Second, func() { got = append(got, "c") })

	s.advance(10 * time.Second)
	assert.Equal(t, []string{"a", "b"}, got)

	s.advance(10 * time.Second)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestJoinCounter(t *testing.T) {
	fired := 0
	j := newJoin(3, func() { fired++ })

	j.one()
	j.one()
	require.Equal(t, 0, fired)
	j.one()
	require.Equal(t, 1, fired)

	// extra reports never re-fire
	j.one()
	require.Equal(t, 1, fired)
}

func TestJoinCounterZero(t *testing.T) {
	fired := 0
	newJoin(0, func() { fired++ })
	require.Equal(t, 1, fired)
}
