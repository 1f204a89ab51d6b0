package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndIsOnline(t *testing.T) {
	r := NewRegistry(4)
	assert.False(t, r.IsOnline(1))

	ch := r.Register(1)
	require.NotNil(t, ch)
	assert.True(t, r.IsOnline(1))
}

func TestRegistryUnregisterOnlyRemovesMatchingChannel(t *testing.T) {
	r := NewRegistry(4)
	ch1 := r.Register(1)

	// a stale Unregister for a channel already superseded by Register is a
	// no-op: reconnects must not let an old connection evict a new one.
	ch2 := r.Register(1)
	r.Unregister(1, ch1)
	assert.True(t, r.IsOnline(1))

	r.Unregister(1, ch2)
	assert.False(t, r.IsOnline(1))
}

func TestRegistryRegisterTwiceNotifiesPreviousOfShutdown(t *testing.T) {
	r := NewRegistry(4)
	old := r.Register(1)

	r.Register(1)

	sig := <-old
	assert.Equal(t, ControlShutdown, sig.Kind)
}

func TestRegistryNotifyDeliversToOnlineUser(t *testing.T) {
	r := NewRegistry(4)
	ch := r.Register(1)

	r.Notify(1, ControlSignal{Kind: ControlAddChat, ChatID: 7})

	sig := <-ch
	assert.Equal(t, ControlAddChat, sig.Kind)
	assert.Equal(t, 7, sig.ChatID)
}

func TestRegistryNotifyIsNoOpWhenOffline(t *testing.T) {
	r := NewRegistry(4)
	// must not panic or block when nobody is registered.
	r.Notify(404, ControlSignal{Kind: ControlShutdown})
}
