package workerpool

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsSubmittedJobs(t *testing.T) {
	p := New(2)
	defer p.Close()

	var n atomic.Int64
	done := make(chan struct{}, 10)
	for i := 0; i < 10; i++ {
		require.NoError(t, p.Submit(context.Background(), func() {
			n.Add(1)
			done <- struct{}{}
		}))
	}
	for i := 0; i < 10; i++ {
		<-done
	}
	assert.EqualValues(t, 10, n.Load())
}

func TestPool_New_ClampsBelowOne(t *testing.T) {
	p := New(0)
	defer p.Close()

	done := make(chan struct{}, 1)
	require.NoError(t, p.Submit(context.Background(), func() { done <- struct{}{} }))
	<-done
}

func TestPool_Submit_CanceledContext(t *testing.T) {
	p := New(1)
	defer p.Close()

	block := make(chan struct{})
	require.NoError(t, p.Submit(context.Background(), func() { <-block }))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := p.Submit(ctx, func() {})
	assert.Error(t, err)
	close(block)
}

func TestPool_Close_WaitsForInFlightJobs(t *testing.T) {
	p := New(1)

	started := make(chan struct{})
	finished := make(chan struct{})
	require.NoError(t, p.Submit(context.Background(), func() {
		close(started)
		time.Sleep(20 * time.Millisecond)
		close(finished)
	}))
	<-started

	p.Close()
	select {
	case <-finished:
	default:
		t.Fatal("Close returned before the in-flight job finished")
	}
}
