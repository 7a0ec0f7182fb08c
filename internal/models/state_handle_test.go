package models

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateHandleGetSet(t *testing.T) {
	h := NewStateHandle(Stopped)
	assert.Equal(t, Stopped, h.Get())
	h.Set(Running)
	assert.Equal(t, Running, h.Get())
}

func TestStateHandleCompareAndSet(t *testing.T) {
	h := NewStateHandle(Running)
	assert.False(t, h.CompareAndSet(Paused, Halted))
	assert.Equal(t, Running, h.Get())

	assert.True(t, h.CompareAndSet(Running, Halted))
	assert.Equal(t, Halted, h.Get())
}

func TestStateHandleConcurrentAccess(t *testing.T) {
	h := NewStateHandle(Running)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); h.Set(Paused) }()
		go func() { defer wg.Done(); _ = h.Get() }()
	}
	wg.Wait()
}
