package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestBrokerRoutesByState(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	b := NewBroker(origin, time.Minute)
	defer b.Stop()

	first, err := b.Start(google, 1)
	require.NoError(t, err)

	second, err := b.Start(google, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Len())

	require.NoError(t, b.Deliver(Message{Type: MsgGoogleSuccess, Origin: origin, State: second.Token()}))
	assert.Equal(t, Succeeded, second.State())
	assert.Equal(t, AwaitingAuthorization, first.State())

	require.NoError(t, b.Close(first.Token()))
	assert.Equal(t, Failed, first.State())

	require.ErrorIs(t, b.Deliver(Message{Type: MsgGoogleSuccess, Origin: origin, State: "nope"}), ErrUnknownFlow)
	require.ErrorIs(t, b.Close("nope"), ErrUnknownFlow)
}

func TestBrokerCleanupDropsFinishedFlows(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	b := NewBroker(origin, time.Minute)
	defer b.Stop()

	done, err := b.Start(google, 1)
	require.NoError(t, err)
	done.Close()

	pending, err := b.Start(google, 1)
	require.NoError(t, err)

	b.cleanup(time.Now())
	assert.Equal(t, 2, b.Len(), "finished flows stay readable for a while")

	b.cleanup(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 1, b.Len())

	_, ok := b.Get(pending.Token())
	assert.True(t, ok)
}

func TestBrokerCleanupLoopRuns(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	b := NewBroker(origin, 20*time.Millisecond)
	defer b.Stop()

	f, err := b.Start(google, 1)
	require.NoError(t, err)

	<-f.Done()
	assert.Equal(t, TimedOut, f.State())

	assert.Eventually(t, func() bool { return b.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestBrokerStopFailsPendingFlows(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	b := NewBroker(origin, time.Minute)

	f, err := b.Start(google, 1)
	require.NoError(t, err)

	b.Stop()
	b.Stop()

	assert.Equal(t, Failed, f.State())
	assert.Equal(t, ReasonShutdown, f.Result().Reason)
}
