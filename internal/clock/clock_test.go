package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealClock_Now(t *testing.T) {
	c := RealClock{}

	before := time.Now()
	got := c.Now()
	after := time.Now()

	assert.False(t, got.Before(before), "clock.Now() should not return time before actual time.Now()")
	assert.False(t, got.After(after), "clock.Now() should not return time after actual time.Now()")
	assert.Equal(t, time.UTC, got.Location())
}

func TestStepper_Now(t *testing.T) {
	start := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	c := NewStepper(start, time.Second)

	assert.Equal(t, start, c.Now())
	assert.Equal(t, start.Add(time.Second), c.Now())
	assert.Equal(t, start.Add(2*time.Second), c.Now())
}

func TestStepper_Concurrent(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewStepper(start, time.Millisecond)

	var wg sync.WaitGroup
	seen := make(chan time.Time, 50)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- c.Now()
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[time.Time]struct{})
	for ts := range seen {
		unique[ts] = struct{}{}
	}
	assert.Len(t, unique, 50, "every call should get its own instant")
}
