package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingRenewer struct {
	calls atomic.Int32
	err   error
}

func (c *countingRenewer) RenewLapsed(context.Context) (int64, error) {
	c.calls.Add(1)
	return 1, c.err
}

func TestSubscriptionSweeper_RunsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &countingRenewer{}

	StartSubscriptionSweeper(ctx, r, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return r.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(30 * time.Millisecond)
	stopped := r.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, r.calls.Load())
}

func TestSubscriptionSweeper_ErrorsDoNotStopIt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := &countingRenewer{err: errors.New("db down")}

	StartSubscriptionSweeper(ctx, r, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return r.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestSubscriptionSweeper_Disabled(t *testing.T) {
	r := &countingRenewer{}
	StartSubscriptionSweeper(context.Background(), r, 0)
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, r.calls.Load())
}
