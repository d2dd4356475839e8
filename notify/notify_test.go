package notify

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitRegistered(t *testing.T) {
	d := NewDispatcher()

	fired := 0
	d.Register(1, func() { fired++ })

	d.Emit(1)
	d.Emit(1)
	assert.Equal(t, 2, fired)
}

func TestEmitUnknownBadgeNoop(t *testing.T) {
	d := NewDispatcher()

	fired := 0
	d.Register(1, func() { fired++ })

	assert.NotPanics(t, func() {
		d.Emit(0)
		d.Emit(2)
		d.Emit(66)
	})
	assert.Zero(t, fired)
}

func TestRegisterReplaces(t *testing.T) {
	d := NewDispatcher()

	var got string
	d.Register(1, func() { got = "first" })
	d.Register(1, func() { got = "second" })

	d.Emit(1)
	assert.Equal(t, "second", got)
}

func TestConcurrentEmit(t *testing.T) {
	d := NewDispatcher()

	var mu sync.Mutex
	fired := 0
	d.Register(1, func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(badge uint32) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				d.Emit(badge)
			}
		}(uint32(i % 2)) // half the emitters use an unregistered badge
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 400, fired)
}
