package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAtomicPolicy_DelegatesToCurrent(t *testing.T) {
	conn := fakeConn{name: "dev1"}
	first := &DefaultPolicy{MinTriggerInterval: 10 * time.Millisecond}
	ap := NewAtomicPolicy(first)

	assert.Equal(t, 10*time.Millisecond, ap.MinimumTimeBetweenTriggers(conn))

	second := &DefaultPolicy{MinTriggerInterval: 50 * time.Millisecond}
	ap.Store(second)

	assert.Equal(t, 50*time.Millisecond, ap.MinimumTimeBetweenTriggers(conn))
}

func TestAtomicPolicy_LoadReturnsCurrent(t *testing.T) {
	first := NewDefaultPolicy()
	ap := NewAtomicPolicy(first)
	assert.Same(t, first, ap.Load())

	second := NewDefaultPolicy()
	ap.Store(second)
	assert.Same(t, second, ap.Load())
}

func TestAtomicPolicy_ImplementsPolicy(t *testing.T) {
	var _ Policy = NewAtomicPolicy(NewDefaultPolicy())
}
