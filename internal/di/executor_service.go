package di

import (
	"github.com/samber/do/v2"

	"github.com/canberks/riotbroker/internal/broker"
)

// executorQueueDepth bounds the executor's posted-task channel. Sized well
// above the connection count any single process is expected to carry so a
// burst of simultaneous triggers queues rather than blocks its producer
// goroutines.
const executorQueueDepth = 4096

// ExecutorService wraps the single-threaded cooperative scheduler every
// connection's state mutation and registry dispatch runs on.
type ExecutorService struct {
	Executor *broker.Executor
}

// NewExecutor creates the executor and starts its Run loop in a background
// goroutine; Shutdown stops it.
func NewExecutor(_ do.Injector) (*ExecutorService, error) {
	exec := broker.NewExecutor(executorQueueDepth)
	go exec.Run()

	return &ExecutorService{Executor: exec}, nil
}

// Shutdown implements do.Shutdowner, halting the executor's Run loop.
func (s *ExecutorService) Shutdown() error {
	s.Executor.Stop()
	return nil
}
