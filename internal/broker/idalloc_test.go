package broker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/canberks/riotbroker/internal/sfe"
)

func TestNextSubscriptionID_StartsAtOne(t *testing.T) {
	assert.Equal(t, uint64(1), nextSubscriptionID(nil))
}

func TestNextSubscriptionID_IsMaxPlusOne(t *testing.T) {
	subs := []Subscription{{N: 1, Expr: sfe.Nil{}}, {N: 3, Expr: sfe.Nil{}}}
	assert.Equal(t, uint64(4), nextSubscriptionID(subs))
}

func TestNextSubscriptionID_ReusesReleasedMaxID(t *testing.T) {
	subs := []Subscription{{N: 1, Expr: sfe.Nil{}}, {N: 2, Expr: sfe.Nil{}}}
	next := nextSubscriptionID(subs)
	assert.Equal(t, uint64(3), next)

	// after unsubscribing the highest ID, the next allocation reuses it
	subs = subs[:1]
	assert.Equal(t, uint64(2), nextSubscriptionID(subs))
}

func TestStorageIDAllocator_GrowsWhenFreeListEmpty(t *testing.T) {
	a := newStorageIDAllocator()
	assert.Equal(t, uint64(0), a.Allocate())
	assert.Equal(t, uint64(1), a.Allocate())
	assert.Equal(t, uint64(2), a.Allocate())
}

func TestStorageIDAllocator_ReusesSmallestReleasedID(t *testing.T) {
	a := newStorageIDAllocator()
	a.Allocate() // 0
	id1 := a.Allocate() // 1
	a.Allocate() // 2

	a.Release(id1)
	a.Release(uint64(0))

	assert.Equal(t, uint64(0), a.Allocate())
	assert.Equal(t, uint64(1), a.Allocate())
	assert.Equal(t, uint64(3), a.Allocate())
}
