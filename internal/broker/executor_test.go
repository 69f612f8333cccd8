package broker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecutor_RunsTasksInPostOrder(t *testing.T) {
	exec := NewExecutor(8)
	go exec.Run()
	defer exec.Stop()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	wg.Add(5)
	for i := 0; i < 5; i++ {
		n := i
		exec.Post(func() {
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
			wg.Done()
		})
	}
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestExecutor_DepthLessThanOneDefaultsToOne(t *testing.T) {
	exec := NewExecutor(0)
	go exec.Run()
	defer exec.Stop()

	done := make(chan struct{})
	exec.Post(func() { close(done) })
	<-done
}

func TestExecutor_StopIsIdempotent(t *testing.T) {
	exec := NewExecutor(1)
	go exec.Run()
	exec.Stop()
	assert.NotPanics(t, func() { exec.Stop() })
}
